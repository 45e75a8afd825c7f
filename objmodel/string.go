package objmodel

// String is a raw UTF-8 byte payload. It has no child pointers.
type String struct {
	Data []byte
}

func (s *String) Tag() Tag { return TagString }
