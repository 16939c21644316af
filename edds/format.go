package edds

import (
	"fmt"

	"github.com/woozymasta/bcn"
	"github.com/woozymasta/texstore"
)

// fourCCFormats maps DDS FourCC codes to codec formats. Premultiplied and
// signed variants share the layout of their base format.
var fourCCFormats = map[string]bcn.Format{
	"DXT1": bcn.FormatDXT1,
	"DXT2": bcn.FormatDXT3,
	"DXT3": bcn.FormatDXT3,
	"DXT4": bcn.FormatDXT5,
	"DXT5": bcn.FormatDXT5,
	"ATI1": bcn.FormatBC4,
	"BC4U": bcn.FormatBC4,
	"BC4S": bcn.FormatBC4,
	"ATI2": bcn.FormatBC5,
	"BC5U": bcn.FormatBC5,
	"BC5S": bcn.FormatBC5,
}

// writeFourCC is the code written for each compressed codec format.
var writeFourCC = map[bcn.Format]string{
	bcn.FormatDXT1: "DXT1",
	bcn.FormatDXT3: "DXT3",
	bcn.FormatDXT5: "DXT5",
	bcn.FormatBC4:  "ATI1",
	bcn.FormatBC5:  "ATI2",
}

// dxgiFormats maps DXGI_FORMAT values from a DX10 header.
var dxgiFormats = map[uint32]bcn.Format{
	71: bcn.FormatDXT1,
	74: bcn.FormatDXT3,
	77: bcn.FormatDXT5,
	80: bcn.FormatBC4,
	83: bcn.FormatBC5,
	87: bcn.FormatBGRA8,
	28: bcn.FormatRGBA8,
}

// channelMasks are the R, G, B, A bit masks of 32-bit uncompressed layouts.
type channelMasks [4]uint32

var (
	masksRGBA8 = channelMasks{0x000000ff, 0x0000ff00, 0x00ff0000, 0xff000000}
	masksBGRA8 = channelMasks{0x00ff0000, 0x0000ff00, 0x000000ff, 0xff000000}
)

// detectFormat maps the DDS pixel format (or DX10 DXGI format) to a storage
// format and a name for error messages.
func detectFormat(header *bcn.DDSHeader, dx10 *bcn.DDSHeaderDX10) (texstore.Format, string) {
	if dx10 != nil {
		name := fmt.Sprintf("DXGI %d", dx10.DXGIFormat)
		codec, ok := dxgiFormats[dx10.DXGIFormat]
		if !ok {
			return texstore.FormatUndefined, name
		}
		return texstore.FormatFromBCN(codec), name
	}

	pf := header.PixelFormat
	if (pf.Flags & bcn.DDSPFFourCC) != 0 {
		name := intToFourCC(pf.FourCC)
		codec, ok := fourCCFormats[name]
		if !ok {
			return texstore.FormatUndefined, name
		}
		return texstore.FormatFromBCN(codec), name
	}

	if (pf.Flags&bcn.DDSPFRGB) != 0 && (pf.Flags&bcn.DDSPFAlphaPixels) != 0 && pf.RGBBitCount == 32 {
		switch (channelMasks{pf.RBitMask, pf.GBitMask, pf.BBitMask, pf.ABitMask}) {
		case masksRGBA8:
			return texstore.FormatRGBA8Unorm, "RGBA8"
		case masksBGRA8:
			return texstore.FormatBGRA8Unorm, "BGRA8"
		}
	}

	// Storage keeps luminance as single-channel bytes; the codec cannot decode it.
	if (pf.Flags&bcn.DDSPFLuminance) != 0 && pf.RGBBitCount == 8 {
		return texstore.FormatR8Unorm, "LUMINANCE8"
	}

	return texstore.FormatUndefined, "UNKNOWN"
}

func intToFourCC(value uint32) string {
	return string([]byte{
		byte(value & 0xff),
		byte((value >> 8) & 0xff),
		byte((value >> 16) & 0xff),
		byte((value >> 24) & 0xff),
	})
}

func makeFourCC(code string) uint32 {
	return uint32(code[0]) | uint32(code[1])<<8 | uint32(code[2])<<16 | uint32(code[3])<<24
}

func enfusionReserved1() [11]uint32 {
	return [11]uint32{
		0,
		0x31464e45, // "ENF1"
		0, 0, 0, 0, 0, 0, 0, 0, 0,
	}
}

// makeDDSHeader builds the Enfusion flavoured DDS header for the mip chain of
// a single-face 2D storage. mipMapCount may be shorter than the storage chain.
func makeDDSHeader(s texstore.Storage, mipMapCount int) (*bcn.DDSHeader, error) {
	format := s.Format()
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFormat, format)
	}

	base := s.Dimensions(0)
	width, err := u32FromInt(base.Width)
	if err != nil {
		return nil, err
	}
	height, err := u32FromInt(base.Height)
	if err != nil {
		return nil, err
	}
	mips, err := u32FromInt(mipMapCount)
	if err != nil {
		return nil, err
	}

	flags := uint32(bcn.DDSFlagCaps | bcn.DDSFlagHeight | bcn.DDSFlagWidth | bcn.DDSFlagPixelFormat)
	caps := uint32(bcn.DDSCapsTexture)
	if mips > 1 {
		flags |= bcn.DDSFlagMipmapCount
		caps |= bcn.DDSCapsComplex | bcn.DDSCapsMipmap
	}

	hdr := &bcn.DDSHeader{
		Size:        bcn.DDSHeaderSize,
		Flags:       flags,
		Height:      height,
		Width:       width,
		Depth:       1,
		MipMapCount: mips,
		Reserved1:   enfusionReserved1(),
		Caps:        caps,
	}
	hdr.PixelFormat.Size = bcn.DDSPixelFormatSize

	codec := format.BCN()
	if code, ok := writeFourCC[codec]; ok {
		linear, err := u32FromInt(s.LevelSize(0))
		if err != nil {
			return nil, err
		}
		hdr.Flags |= bcn.DDSFlagLinearSize
		hdr.PitchOrLinearSize = linear
		hdr.PixelFormat.Flags = bcn.DDSPFFourCC
		hdr.PixelFormat.FourCC = makeFourCC(code)
		return hdr, nil
	}

	var masks channelMasks
	switch codec {
	case bcn.FormatRGBA8:
		masks = masksRGBA8
	case bcn.FormatBGRA8:
		masks = masksBGRA8
	default:
		return nil, fmt.Errorf("%w: %s has no EDDS encoding", ErrInvalidFormat, format)
	}

	hdr.Flags |= bcn.DDSFlagPitch
	hdr.PixelFormat.Flags = bcn.DDSPFRGB | bcn.DDSPFAlphaPixels
	hdr.PixelFormat.RGBBitCount = 32
	hdr.PixelFormat.RBitMask = masks[0]
	hdr.PixelFormat.GBitMask = masks[1]
	hdr.PixelFormat.BBitMask = masks[2]
	hdr.PixelFormat.ABitMask = masks[3]
	hdr.PitchOrLinearSize = width * 4

	return hdr, nil
}
