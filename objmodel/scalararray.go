package objmodel

// ScalarArray is a raw byte payload interpreted as an array of fixed-width
// scalars (e.g. a []float64 or []byte). It has no child pointers.
type ScalarArray struct {
	ElemSize uint8 // width of one element, in bytes
	Data     []byte
}

func (s *ScalarArray) Tag() Tag { return TagScalarArray }
