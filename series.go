package daqx

// Series is one scaler's decoded sample sequence. Sequences are append-only
// while a file is being walked and immutable afterwards.
type Series interface {
	Type() RawType
	Len() int

	// Values returns the backing slice; its element type matches
	// Type().Kind: []int8, []uint16, []int16, []uint32 or []int32.
	Values() any
}

type samples[T any] struct {
	typ  RawType
	data []T
}

func newSamples[T any](typ RawType, data []T) *samples[T] {
	return &samples[T]{typ: typ, data: data}
}

func (s *samples[T]) Type() RawType { return s.typ }
func (s *samples[T]) Len() int      { return len(s.data) }
func (s *samples[T]) Values() any   { return s.data }

// appendSeries concatenates src onto dst, preserving order. A nil dst adopts
// src. Returns false when the two series are not of the same concrete type.
func appendSeries(dst, src Series) (Series, bool) {
	if dst == nil {
		return src, true
	}
	switch d := dst.(type) {
	case *samples[int8]:
		s, ok := src.(*samples[int8])
		if !ok {
			return nil, false
		}
		d.data = append(d.data, s.data...)
		return d, true
	case *samples[uint16]:
		s, ok := src.(*samples[uint16])
		if !ok {
			return nil, false
		}
		d.data = append(d.data, s.data...)
		return d, true
	case *samples[int16]:
		s, ok := src.(*samples[int16])
		if !ok {
			return nil, false
		}
		d.data = append(d.data, s.data...)
		return d, true
	case *samples[uint32]:
		s, ok := src.(*samples[uint32])
		if !ok {
			return nil, false
		}
		d.data = append(d.data, s.data...)
		return d, true
	case *samples[int32]:
		s, ok := src.(*samples[int32])
		if !ok {
			return nil, false
		}
		d.data = append(d.data, s.data...)
		return d, true
	}
	return nil, false
}
