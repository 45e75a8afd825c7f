package objmodel

// Array is a variable-length sequence of child fields.
type Array struct {
	Elems []any // each entry is a Scalar or an Object
}

func (a *Array) Tag() Tag { return TagArray }

func (a *Array) Len() int { return len(a.Elems) }
