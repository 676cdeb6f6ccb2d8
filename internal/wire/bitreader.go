package wire

import (
	"math"

	"github.com/hollis-tate/repliprop/internal/fault"
)

// Reader consumes bits MSB-first, the mirror of Writer. Every read
// operation fails with a BitstreamExhausted fault rather than panicking or
// returning zero-valued garbage once the underlying buffer runs out: the
// property deserializer discards the whole update when this happens
// rather than applying a partially-read value.
type Reader struct {
	buf    []byte
	bitPos int // absolute bit offset into buf
}

// NewReader wraps buf for reading.
func NewReader(buf []byte) *Reader { return &Reader{buf: buf} }

// Remaining returns the number of unread bits.
func (r *Reader) Remaining() int { return len(r.buf)*8 - r.bitPos }

// ReadBits reads n bits (0-64), most-significant first, and returns them
// right-aligned in the result.
func (r *Reader) ReadBits(n int) (uint64, error) {
	if n < 0 || n > 64 {
		return 0, fault.New(fault.TypeMismatch, "invalid bit width", nil)
	}
	if r.Remaining() < n {
		return 0, fault.New(fault.BitstreamExhausted, "not enough bits remaining", nil)
	}
	var v uint64
	for i := 0; i < n; i++ {
		byteIdx := r.bitPos / 8
		bitIdx := uint(r.bitPos % 8)
		bit := (r.buf[byteIdx] >> (7 - bitIdx)) & 1
		v = (v << 1) | uint64(bit)
		r.bitPos++
	}
	return v, nil
}

// ReadBool reads a single changed/not-changed flag bit.
func (r *Reader) ReadBool() (bool, error) {
	v, err := r.ReadBits(1)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// ReadFloat32 reads a native-width float member.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadBits(32)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(uint32(v)), nil
}

// ReadFloat64 reads a native-width double member.
func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.ReadBits(64)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// ReadInt reads a native-width integer member of the given width,
// sign-extending if signed is true.
func (r *Reader) ReadInt(width int, signed bool) (int64, error) {
	v, err := r.ReadBits(width)
	if err != nil {
		return 0, err
	}
	if !signed || width >= 64 {
		return int64(v), nil
	}
	signBit := uint64(1) << uint(width-1)
	if v&signBit != 0 {
		return int64(v) - int64(signBit<<1), nil
	}
	return int64(v), nil
}

// ReadString reads a length-prefixed UTF-8 string written by WriteString.
// A length too large for the remaining bits fails as BitstreamExhausted
// rather than allocating an enormous buffer on attacker-controlled input.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadBits(32)
	if err != nil {
		return "", err
	}
	if int(n)*8 > r.Remaining() {
		return "", fault.New(fault.BitstreamExhausted, "declared string length exceeds remaining bits", nil)
	}
	b := make([]byte, n)
	for i := range b {
		v, err := r.ReadBits(8)
		if err != nil {
			return "", err
		}
		b[i] = byte(v)
	}
	return string(b), nil
}

// ReadQuantized reads a fixed-width quantized codeword and reconstructs
// the value it encodes.
func (r *Reader) ReadQuantized(min, max, quantum float64) (float64, error) {
	width := QuantizedBitWidth(min, max, quantum)
	if width == 0 {
		return 0, fault.New(fault.TypeMismatch, "degenerate quantization range", nil)
	}
	steps, err := r.ReadBits(width)
	if err != nil {
		return 0, err
	}
	return min + float64(steps)*quantum, nil
}
