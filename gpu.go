package texstore

import "github.com/gogpu/gputypes"

// Extent returns the WebGPU copy extent of mip level level. Volume textures
// report their depth; other shapes report layers × faces.
func (s Storage) Extent(level int) gputypes.Extent3D {
	e := s.Dimensions(level)
	if s.dims.Depth == 1 {
		e.Depth = s.layers * s.faces
	}

	return e.GPU()
}

// DataLayout describes where (layer, face, level) sits within Data, in the
// form a WebGPU texture write expects.
func (s Storage) DataLayout(layer, face, level int) gputypes.TextureDataLayout {
	off := s.Offset(layer, face, level)
	blocks := LevelExtent(s.dims, level).blocks(s.blockDims)

	return gputypes.TextureDataLayout{
		Offset:       uint64(off), // #nosec G115 -- offsets are non-negative.
		BytesPerRow:  u32FromInt(blocks.Width * s.blockSize),
		RowsPerImage: u32FromInt(blocks.Height),
	}
}
