package objmodel

// Closure and External can never be written into a region. They exist only
// so the compactor can type-switch on them and abort naming the tag.

type Closure struct{}

func (c *Closure) Tag() Tag { return TagClosure }

type External struct {
	Description string
}

func (e *External) Tag() Tag { return TagExternal }
