package objmodel

// Thunk is a single-slot, lazily-forced value cell.
type Thunk struct {
	Value any // Scalar or Object
}

func (t *Thunk) Tag() Tag { return TagThunk }

// RefCell is a single-slot mutable reference cell.
type RefCell struct {
	Value any // Scalar or Object
}

func (r *RefCell) Tag() Tag { return TagRef }

// Task is a single-slot handle to a value produced by another thread of
// execution. Get reports the resolved value.
type Task struct {
	Value any // Scalar or Object; the resolved result
}

func (t *Task) Tag() Tag { return TagTask }

func (t *Task) Get() any { return t.Value }
