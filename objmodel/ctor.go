package objmodel

// Ctor is a constructor object: a small number of child fields plus a
// discriminant identifying which constructor produced it (e.g. Cons vs
// Nil). CtorTag is independent of Tag.
type Ctor struct {
	CtorTag uint8
	Fields  []any // each entry is a Scalar or an Object
}

func (c *Ctor) Tag() Tag { return TagCtor }

func (c *Ctor) NumFields() int { return len(c.Fields) }
