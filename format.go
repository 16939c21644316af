package texstore

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/woozymasta/bcn"
)

// Format identifies a texel format. The set is closed; identifiers outside
// it are programming errors.
type Format uint8

const (
	FormatUndefined Format = iota
	FormatR8Unorm
	FormatR8Snorm
	FormatR8Uint
	FormatRG8Unorm
	FormatRGB8Unorm
	FormatRGBA8Unorm
	FormatRGBA8Uint
	FormatBGRA8Unorm
	FormatR16Float
	FormatRGBA16Float
	FormatR32Float
	FormatRGBA32Float
	FormatBC1RGB  // DXT1 without alpha
	FormatBC1RGBA // DXT1
	FormatBC2     // DXT3
	FormatBC3     // DXT5
	FormatBC4     // ATI1
	FormatBC5     // ATI2
	FormatBC7
	formatCount
)

type formatInfo struct {
	name       string
	blockSize  int
	blockDims  Extent
	components int
	compressed bool
	bcn        bcn.Format
	gpu        gputypes.TextureFormat
}

var (
	texel = Extent{Width: 1, Height: 1, Depth: 1}
	bc4x4 = Extent{Width: 4, Height: 4, Depth: 1}
)

var formatTable = [formatCount]formatInfo{
	FormatUndefined:   {name: "UNDEFINED", bcn: bcn.FormatUnknown, gpu: gputypes.TextureFormatUndefined},
	FormatR8Unorm:     {name: "R8_UNORM", blockSize: 1, blockDims: texel, components: 1, bcn: bcn.FormatUnknown, gpu: gputypes.TextureFormatR8Unorm},
	FormatR8Snorm:     {name: "R8_SNORM", blockSize: 1, blockDims: texel, components: 1, bcn: bcn.FormatUnknown, gpu: gputypes.TextureFormatUndefined},
	FormatR8Uint:      {name: "R8_UINT", blockSize: 1, blockDims: texel, components: 1, bcn: bcn.FormatUnknown, gpu: gputypes.TextureFormatUndefined},
	FormatRG8Unorm:    {name: "RG8_UNORM", blockSize: 2, blockDims: texel, components: 2, bcn: bcn.FormatUnknown, gpu: gputypes.TextureFormatUndefined},
	FormatRGB8Unorm:   {name: "RGB8_UNORM", blockSize: 3, blockDims: texel, components: 3, bcn: bcn.FormatUnknown, gpu: gputypes.TextureFormatUndefined},
	FormatRGBA8Unorm:  {name: "RGBA8_UNORM", blockSize: 4, blockDims: texel, components: 4, bcn: bcn.FormatRGBA8, gpu: gputypes.TextureFormatRGBA8Unorm},
	FormatRGBA8Uint:   {name: "RGBA8_UINT", blockSize: 4, blockDims: texel, components: 4, bcn: bcn.FormatUnknown, gpu: gputypes.TextureFormatUndefined},
	FormatBGRA8Unorm:  {name: "BGRA8_UNORM", blockSize: 4, blockDims: texel, components: 4, bcn: bcn.FormatBGRA8, gpu: gputypes.TextureFormatBGRA8Unorm},
	FormatR16Float:    {name: "R16_FLOAT", blockSize: 2, blockDims: texel, components: 1, bcn: bcn.FormatUnknown, gpu: gputypes.TextureFormatUndefined},
	FormatRGBA16Float: {name: "RGBA16_FLOAT", blockSize: 8, blockDims: texel, components: 4, bcn: bcn.FormatUnknown, gpu: gputypes.TextureFormatUndefined},
	FormatR32Float:    {name: "R32_FLOAT", blockSize: 4, blockDims: texel, components: 1, bcn: bcn.FormatUnknown, gpu: gputypes.TextureFormatUndefined},
	FormatRGBA32Float: {name: "RGBA32_FLOAT", blockSize: 16, blockDims: texel, components: 4, bcn: bcn.FormatUnknown, gpu: gputypes.TextureFormatUndefined},
	FormatBC1RGB:      {name: "BC1_RGB", blockSize: 8, blockDims: bc4x4, components: 3, compressed: true, bcn: bcn.FormatDXT1, gpu: gputypes.TextureFormatUndefined},
	FormatBC1RGBA:     {name: "BC1_RGBA", blockSize: 8, blockDims: bc4x4, components: 4, compressed: true, bcn: bcn.FormatDXT1, gpu: gputypes.TextureFormatUndefined},
	FormatBC2:         {name: "BC2", blockSize: 16, blockDims: bc4x4, components: 4, compressed: true, bcn: bcn.FormatDXT3, gpu: gputypes.TextureFormatUndefined},
	FormatBC3:         {name: "BC3", blockSize: 16, blockDims: bc4x4, components: 4, compressed: true, bcn: bcn.FormatDXT5, gpu: gputypes.TextureFormatUndefined},
	FormatBC4:         {name: "BC4", blockSize: 8, blockDims: bc4x4, components: 1, compressed: true, bcn: bcn.FormatBC4, gpu: gputypes.TextureFormatUndefined},
	FormatBC5:         {name: "BC5", blockSize: 16, blockDims: bc4x4, components: 2, compressed: true, bcn: bcn.FormatBC5, gpu: gputypes.TextureFormatUndefined},
	FormatBC7:         {name: "BC7", blockSize: 16, blockDims: bc4x4, components: 4, compressed: true, bcn: bcn.FormatUnknown, gpu: gputypes.TextureFormatUndefined},
}

// info returns the table entry for f and panics for identifiers outside the
// supported set.
func (f Format) info() *formatInfo {
	if !f.Valid() {
		panic(fmt.Sprintf("texstore: unsupported format %d", uint8(f)))
	}

	return &formatTable[f]
}

// Valid reports whether f names a supported format.
func (f Format) Valid() bool {
	return f > FormatUndefined && f < formatCount
}

func (f Format) String() string {
	if f < formatCount {
		return formatTable[f].name
	}

	return fmt.Sprintf("FORMAT(%d)", uint8(f))
}

// BCN returns the codec identity of f, or bcn.FormatUnknown if the codec
// has no matching format.
func (f Format) BCN() bcn.Format {
	return f.info().bcn
}

// GPU returns the WebGPU texture format matching f, or
// gputypes.TextureFormatUndefined.
func (f Format) GPU() gputypes.TextureFormat {
	return f.info().gpu
}

// FormatFromBCN maps a codec format to a Format. Unknown codec formats map
// to FormatUndefined.
func FormatFromBCN(format bcn.Format) Format {
	switch format {
	case bcn.FormatDXT1:
		return FormatBC1RGBA
	case bcn.FormatDXT3:
		return FormatBC2
	case bcn.FormatDXT5:
		return FormatBC3
	case bcn.FormatBC4:
		return FormatBC4
	case bcn.FormatBC5:
		return FormatBC5
	case bcn.FormatRGBA8:
		return FormatRGBA8Unorm
	case bcn.FormatBGRA8:
		return FormatBGRA8Unorm
	default:
		return FormatUndefined
	}
}

// BlockSize returns the size in bytes of one block of f. For uncompressed
// formats a block is one texel.
func BlockSize(f Format) int {
	return f.info().blockSize
}

// BlockDimensions returns the texel footprint of one block of f.
func BlockDimensions(f Format) Extent {
	return f.info().blockDims
}

// ComponentCount returns the number of color components of f.
func ComponentCount(f Format) int {
	return f.info().components
}

// IsCompressed reports whether f is block compressed.
func IsCompressed(f Format) bool {
	return f.info().compressed
}
