package texstore

import "errors"

var (
	// ErrSizeOverflow indicates a size or dimension exceeds supported limits.
	ErrSizeOverflow = errors.New("size overflow")
	// ErrInvalidFormat indicates an unknown format identifier.
	ErrInvalidFormat = errors.New("invalid format")
	// ErrInvalidShape indicates inconsistent layer, face, level or extent values.
	ErrInvalidShape = errors.New("invalid shape")
	// ErrInvalidBlock indicates non-positive block size or block dimensions.
	ErrInvalidBlock = errors.New("invalid block parameters")
	// ErrShapeMismatch indicates two storages do not share a shape.
	ErrShapeMismatch = errors.New("shape mismatch")
)
