package wire

import "github.com/x448/float16"

// WriteHalfFloat writes f as an IEEE-754 binary16, the half-float wire
// encoding the serializer uses when half-float mode is enabled in place
// of a native 32/64-bit float.
func (w *Writer) WriteHalfFloat(f float32) {
	w.WriteBits(uint64(float16.Fromfloat32(f)), 16)
}

// ReadHalfFloat reads a binary16 and widens it back to float32.
func (r *Reader) ReadHalfFloat() (float32, error) {
	v, err := r.ReadBits(16)
	if err != nil {
		return 0, err
	}
	return float16.Float16(uint16(v)).Float32(), nil
}
