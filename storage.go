package texstore

import (
	"fmt"
	"log/slog"
)

// buffer is the allocation shared by a storage and every alias sliced from it.
type buffer struct {
	data []byte
}

// Storage is the byte layout of a texture: layers × faces × levels, stored
// in that order with level 0 first. The zero value is the empty storage.
//
// A Storage is a small value. Copies alias the same bytes; the allocation is
// released once no storage references it.
type Storage struct {
	buf    *buffer
	offset int
	size   int

	layers    int
	faces     int
	levels    int
	format    Format
	dims      Extent
	blockSize int
	blockDims Extent
}

// New allocates a storage for the given shape. Block parameters come from the
// format table. levels=0 means the full mip chain of dims.
//
// A zero extent yields the empty storage whatever the counts.
func New(layers, faces, levels int, format Format, dims Extent) (Storage, error) {
	if isEmptyShape(dims) {
		return Storage{}, nil
	}
	if !format.Valid() {
		return Storage{}, fmt.Errorf("%w: %s", ErrInvalidFormat, format)
	}

	return NewWithBlock(layers, faces, levels, dims, format, BlockSize(format), BlockDimensions(format))
}

// NewWithBlock allocates a storage with explicit block parameters, for
// packings the format table does not describe. The format is recorded but
// not consulted. levels=0 means the full mip chain of dims.
func NewWithBlock(layers, faces, levels int, dims Extent, format Format, blockSize int, blockDims Extent) (Storage, error) {
	s, err := layout(layers, faces, levels, dims, format, blockSize, blockDims)
	if err != nil || s.layers == 0 {
		return s, err
	}

	s.buf = &buffer{data: make([]byte, s.size)}

	Logger().Debug("texstore: storage allocated",
		slog.String("format", format.String()),
		slog.String("dimensions", dims.String()),
		slog.Int("layers", s.layers),
		slog.Int("faces", s.faces),
		slog.Int("levels", s.levels),
		slog.Int("bytes", s.size),
	)

	return s, nil
}

// SizeOf returns the number of bytes New would allocate for the shape, or the
// error New would return, without allocating.
func SizeOf(layers, faces, levels int, format Format, dims Extent) (int, error) {
	if isEmptyShape(dims) {
		return 0, nil
	}
	if !format.Valid() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidFormat, format)
	}

	s, err := layout(layers, faces, levels, dims, format, BlockSize(format), BlockDimensions(format))
	if err != nil {
		return 0, err
	}

	return s.size, nil
}

// layout validates a shape and computes its size. The result has no buffer.
func layout(layers, faces, levels int, dims Extent, format Format, blockSize int, blockDims Extent) (Storage, error) {
	if isEmptyShape(dims) {
		return Storage{}, nil
	}
	if layers < 1 || faces < 1 || levels < 0 {
		return Storage{}, fmt.Errorf("%w: layers=%d faces=%d levels=%d", ErrInvalidShape, layers, faces, levels)
	}
	if !dims.positive() {
		return Storage{}, fmt.Errorf("%w: dimensions %s", ErrInvalidShape, dims)
	}
	chain := LevelCount(dims)
	if levels == 0 {
		levels = chain
	}
	if levels > chain {
		return Storage{}, fmt.Errorf("%w: %d levels exceed the %d-level chain of %s", ErrInvalidShape, levels, chain, dims)
	}
	if blockSize < 1 || !blockDims.positive() {
		return Storage{}, fmt.Errorf("%w: size=%d dimensions=%s", ErrInvalidBlock, blockSize, blockDims)
	}

	s := Storage{
		layers:    layers,
		faces:     faces,
		levels:    levels,
		format:    format,
		dims:      dims,
		blockSize: blockSize,
		blockDims: blockDims,
	}

	size, err := s.checkedSize()
	if err != nil {
		return Storage{}, fmt.Errorf("%w: %s layers=%d faces=%d levels=%d", err, dims, layers, faces, levels)
	}
	s.size = size

	return s, nil
}

func isEmptyShape(dims Extent) bool {
	return dims.IsZero()
}

// checkedSize computes the total size with overflow checks. Once it succeeds
// every partial size of the shape fits in an int.
func (s Storage) checkedSize() (int, error) {
	face := 0
	for level := 0; level < s.levels; level++ {
		blocks := LevelExtent(s.dims, level).blocks(s.blockDims)
		n, err := mulSize(blocks.Width, blocks.Height)
		if err == nil {
			n, err = mulSize(n, blocks.Depth)
		}
		if err == nil {
			n, err = mulSize(n, s.blockSize)
		}
		if err == nil {
			face, err = addSize(face, n)
		}
		if err != nil {
			return 0, err
		}
	}

	layer, err := mulSize(face, s.faces)
	if err != nil {
		return 0, err
	}

	return mulSize(layer, s.layers)
}

// Empty reports whether s is the empty storage.
func (s Storage) Empty() bool { return s.buf == nil }

// Size returns the size of s in bytes.
func (s Storage) Size() int { return s.size }

// Format returns the texel format.
func (s Storage) Format() Format { return s.format }

// Layers returns the number of array layers.
func (s Storage) Layers() int { return s.layers }

// Faces returns the number of faces per layer.
func (s Storage) Faces() int { return s.faces }

// Levels returns the number of mip levels per face.
func (s Storage) Levels() int { return s.levels }

// BlockSize returns the size in bytes of one block.
func (s Storage) BlockSize() int { return s.blockSize }

// BlockDimensions returns the texel footprint of one block.
func (s Storage) BlockDimensions() Extent { return s.blockDims }

// Dimensions returns the extent of mip level level.
func (s Storage) Dimensions(level int) Extent {
	s.checkLevel(level)
	return LevelExtent(s.dims, level)
}

// Data returns the bytes of s. The slice aliases the shared allocation and
// its capacity ends with s, so appends never overwrite a neighbour.
func (s Storage) Data() []byte {
	if s.buf == nil {
		return nil
	}
	end := s.offset + s.size

	return s.buf.data[s.offset:end:end]
}

// LevelSize returns the size in bytes of one level of one face. Each axis is
// rounded up to whole blocks.
func (s Storage) LevelSize(level int) int {
	s.checkLevel(level)
	return s.levelSize(level)
}

func (s Storage) levelSize(level int) int {
	blocks := LevelExtent(s.dims, level).blocks(s.blockDims)
	return blocks.Width * blocks.Height * blocks.Depth * s.blockSize
}

// FaceSize returns the size in bytes of levels baseLevel through maxLevel
// inclusive of one face.
func (s Storage) FaceSize(baseLevel, maxLevel int) int {
	checkRange("level", baseLevel, maxLevel, s.levels)
	return s.faceSize(baseLevel, maxLevel)
}

func (s Storage) faceSize(baseLevel, maxLevel int) int {
	size := 0
	for level := baseLevel; level <= maxLevel; level++ {
		size += s.levelSize(level)
	}

	return size
}

// LayerSize returns the size in bytes of faces baseFace through maxFace, each
// holding levels baseLevel through maxLevel.
func (s Storage) LayerSize(baseFace, maxFace, baseLevel, maxLevel int) int {
	checkRange("face", baseFace, maxFace, s.faces)
	checkRange("level", baseLevel, maxLevel, s.levels)
	return (maxFace - baseFace + 1) * s.faceSize(baseLevel, maxLevel)
}

// faceStride and layerStride are the distances between consecutive faces and
// layers of the full shape.
func (s Storage) faceStride() int  { return s.faceSize(0, s.levels-1) }
func (s Storage) layerStride() int { return s.faces * s.faceStride() }

// Offset returns the byte offset of (layer, face, level) within Data.
func (s Storage) Offset(layer, face, level int) int {
	checkIndex("layer", layer, s.layers)
	checkIndex("face", face, s.faces)
	s.checkLevel(level)

	off := layer*s.layerStride() + face*s.faceStride()
	if level > 0 {
		off += s.faceSize(0, level-1)
	}

	return off
}

// LevelData returns the bytes of one level of one face of one layer.
func (s Storage) LevelData(layer, face, level int) []byte {
	off := s.Offset(layer, face, level)
	end := off + s.levelSize(level)

	return s.Data()[off:end:end]
}

// Aliases reports whether s and other share one allocation.
func (s Storage) Aliases(other Storage) bool {
	return s.buf != nil && s.buf == other.buf
}

func (s Storage) String() string {
	if s.Empty() {
		return "texstore.Storage{empty}"
	}

	return fmt.Sprintf("texstore.Storage{%s %s layers=%d faces=%d levels=%d}",
		s.format, s.dims, s.layers, s.faces, s.levels)
}

func (s Storage) checkLevel(level int) {
	checkIndex("level", level, s.levels)
}

func checkIndex(what string, i, n int) {
	if i < 0 || i >= n {
		panic(fmt.Sprintf("texstore: %s %d out of range [0,%d)", what, i, n))
	}
}

func checkRange(what string, first, last, n int) {
	if first < 0 || first > last || last >= n {
		panic(fmt.Sprintf("texstore: %s range [%d,%d] out of range [0,%d)", what, first, last, n))
	}
}
