package texstore

import (
	"bytes"
	"fmt"
)

// sameShape reports whether a and b describe the same layout.
func sameShape(a, b Storage) bool {
	return a.layers == b.layers &&
		a.faces == b.faces &&
		a.levels == b.levels &&
		a.format == b.format &&
		a.dims == b.dims &&
		a.blockSize == b.blockSize &&
		a.blockDims == b.blockDims
}

// Clone returns a deep copy of s in a fresh allocation.
func (s Storage) Clone() Storage {
	if s.Empty() {
		return Storage{}
	}

	out := s
	out.buf = &buffer{data: make([]byte, s.size)}
	out.offset = 0
	copy(out.buf.data, s.Data())

	return out
}

// Copy copies the bytes of src into dst. Both must have the same shape; they
// may alias.
func Copy(dst, src Storage) error {
	if !sameShape(dst, src) {
		return fmt.Errorf("%w: %s and %s", ErrShapeMismatch, dst, src)
	}
	copy(dst.Data(), src.Data())

	return nil
}

// Equal reports whether a and b have the same shape and identical bytes.
func Equal(a, b Storage) bool {
	return sameShape(a, b) && bytes.Equal(a.Data(), b.Data())
}

// Fill writes block into every block of s.
func (s Storage) Fill(block []byte) error {
	if s.Empty() {
		return nil
	}
	if len(block) != s.blockSize {
		return fmt.Errorf("%w: got %d bytes, block size is %d", ErrInvalidBlock, len(block), s.blockSize)
	}

	data := s.Data()
	n := copy(data, block)
	for n < len(data) {
		n += copy(data[n:], data[:n])
	}

	return nil
}
