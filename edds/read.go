package edds

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"os"

	"github.com/woozymasta/bcn"
	"github.com/woozymasta/texstore"
)

// ReadOptions configures EDDS reading (e.g. BCn decode workers).
type ReadOptions struct {
	// DecodeOptions are passed to the BCn decoder (e.g. Workers).
	DecodeOptions *bcn.DecodeOptions
}

// ReadConfig reads EDDS file configuration without decoding image data.
func ReadConfig(path string) (image.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	header, _, err := readEDDSHeaders(f)
	if err != nil {
		return image.Config{}, err
	}

	return image.Config{
		Width:      int(header.Width),
		Height:     int(header.Height),
		ColorModel: color.RGBAModel,
	}, nil
}

// Load reads an EDDS file into a single-layer, single-face storage holding
// every mip level stored in the file. Luminance files load as R8Unorm, which
// neither Save nor DecodeLevel accept.
func Load(path string) (texstore.Storage, error) {
	f, err := os.Open(path)
	if err != nil {
		return texstore.Storage{}, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

// Decode reads an EDDS stream into a storage. Legacy files without a block
// table yield a single-level storage. The block table is checked against the
// header and the stream length before the storage is allocated.
func Decode(r io.ReadSeeker) (texstore.Storage, error) {
	header, dx10, err := readEDDSHeaders(r)
	if err != nil {
		return texstore.Storage{}, err
	}

	format, name := detectFormat(header, dx10)
	if !format.Valid() {
		return texstore.Storage{}, fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}

	mipMapCount := 1
	if (header.Caps&bcn.DDSCapsMipmap) != 0 && header.MipMapCount > 0 {
		mipMapCount = int(header.MipMapCount)
	}

	dims := texstore.Extent2D(int(header.Width), int(header.Height))
	sizes, err := levelSizes(format, dims, mipMapCount)
	if err != nil {
		return texstore.Storage{}, err
	}

	s, err := readBlocks(r, format, dims, sizes)
	if err != nil {
		legacy, lerr := readLegacySingleBlock(r, dx10 != nil, format, dims, sizes[0])
		if lerr != nil {
			return texstore.Storage{}, fmt.Errorf("%w (block table: %v)", lerr, err)
		}
		s = legacy
	}

	texstore.Logger().Debug("edds: decoded",
		slog.String("format", s.Format().String()),
		slog.String("dimensions", dims.String()),
		slog.Int("levels", s.Levels()),
	)

	return s, nil
}

// levelSizes returns the decoded size of each level the header describes.
func levelSizes(format texstore.Format, dims texstore.Extent, mipMapCount int) ([]int, error) {
	if dims.Width < 1 || dims.Height < 1 {
		return nil, fmt.Errorf("%w: dimensions %s", ErrInvalidHeader, dims)
	}
	if mipMapCount > texstore.LevelCount(dims) {
		return nil, fmt.Errorf("%w: %d mipmaps for %s", ErrInvalidHeader, mipMapCount, dims)
	}

	sizes := make([]int, mipMapCount)
	for level := range sizes {
		n, err := texstore.SizeOf(1, 1, 1, format, texstore.LevelExtent(dims, level))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
		}
		sizes[level] = n
	}

	return sizes, nil
}

// minLZ4BlockSize is the smallest chunk stream that can inflate to n bytes.
// LZ4 spends at least one byte per 255 bytes of match.
func minLZ4BlockSize(n int) int {
	chunks := (n + ChunkSize - 1) / ChunkSize
	return 4*chunks + n/255
}

// checkBlockSize rejects table entries that cannot hold a level of want bytes.
func checkBlockSize(h blockHeader, want int) error {
	size := int(h.Size)
	switch h.Magic {
	case BlockMagicCOPY:
		if size != want {
			return fmt.Errorf("%w: expected %d, got %d", ErrCopySizeMismatch, want, size)
		}
	case BlockMagicLZ4:
		if size < minLZ4BlockSize(want) {
			return fmt.Errorf("%w: %d bytes cannot inflate to %d", ErrBlockTableInvalidSize, size, want)
		}
	}

	return nil
}

// bytesLeft returns the number of bytes between the current offset and the
// end of r, leaving the offset unchanged.
func bytesLeft(r io.Seeker) (int64, error) {
	cur, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if _, err := r.Seek(cur, io.SeekStart); err != nil {
		return 0, err
	}

	return end - cur, nil
}

// readBlocks reads and checks the block table, then inflates every block into
// its level of a new storage. The file stores levels smallest first.
func readBlocks(r io.ReadSeeker, format texstore.Format, dims texstore.Extent, sizes []int) (texstore.Storage, error) {
	table, err := readBlockTable(r, len(sizes))
	if err != nil {
		return texstore.Storage{}, fmt.Errorf("%w: %v", ErrReadBlockTable, err)
	}

	var total int64
	for i, h := range table {
		level := len(sizes) - i - 1
		if err := checkBlockSize(h, sizes[level]); err != nil {
			return texstore.Storage{}, fmt.Errorf("%w: mipmap %d: %v", ErrReadBlockTable, level, err)
		}
		total += int64(h.Size)
	}

	avail, err := bytesLeft(r)
	if err != nil {
		return texstore.Storage{}, fmt.Errorf("%w: %v", ErrSeekDataStart, err)
	}
	if total > avail {
		return texstore.Storage{}, fmt.Errorf("%w: blocks need %d bytes, %d left", ErrBlocksTruncated, total, avail)
	}

	s, err := texstore.New(1, 1, len(sizes), format, dims)
	if err != nil {
		return texstore.Storage{}, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}

	for i, h := range table {
		level := len(sizes) - i - 1

		block, err := readBlockBody(r, h)
		if err != nil {
			return texstore.Storage{}, fmt.Errorf("%w: mipmap %d: %v", ErrReadBlockBody, level, err)
		}
		if err := decompressBlock(block, s.LevelData(0, 0, level)); err != nil {
			return texstore.Storage{}, fmt.Errorf("%w: mipmap %d: %v", ErrDecompressBlock, level, err)
		}
	}

	return s, nil
}

// readLegacySingleBlock is a backward-compatibility fallback for older EDDS files.
// Some legacy files do not have a valid block table after the DDS header and instead
// store a single payload blob. We treat that blob as an LZ4 block first, and if
// decompression fails but the size already matches the expected mip size, we accept it
// as raw uncompressed data. Blobs too short for either reading are rejected before
// the level is allocated.
func readLegacySingleBlock(r io.ReadSeeker, hasDX10 bool, format texstore.Format, dims texstore.Extent, want int) (texstore.Storage, error) {
	headerSize := int64(4 + bcn.DDSHeaderSize)
	if hasDX10 {
		headerSize += 20
	}
	if _, err := r.Seek(headerSize, io.SeekStart); err != nil {
		return texstore.Storage{}, fmt.Errorf("%w: %v", ErrSeekDataStart, err)
	}

	remainingData, err := io.ReadAll(r)
	if err != nil {
		return texstore.Storage{}, fmt.Errorf("%w: %v", ErrReadRemainingData, err)
	}
	if len(remainingData) == 0 {
		return texstore.Storage{}, fmt.Errorf("%w: no payload", ErrParseSingleBlock)
	}
	if len(remainingData) != want && len(remainingData) < minLZ4BlockSize(want) {
		return texstore.Storage{}, fmt.Errorf("%w: %d bytes cannot hold %d", ErrParseSingleBlock, len(remainingData), want)
	}

	s, err := texstore.New(1, 1, 1, format, dims)
	if err != nil {
		return texstore.Storage{}, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}

	size, err := i32FromInt(len(remainingData))
	if err != nil {
		return texstore.Storage{}, err
	}

	block := &Block{Magic: BlockMagicLZ4, Size: size, Data: remainingData}
	err = decompressBlock(block, s.Data())
	if err == nil {
		return s, nil
	}

	if len(remainingData) == s.Size() {
		copy(s.Data(), remainingData)
		return s, nil
	}

	return texstore.Storage{}, fmt.Errorf("%w: %v", ErrParseSingleBlock, err)
}

// Read reads an EDDS file and decodes its largest level into an image.
func Read(path string) (image.Image, error) {
	return ReadWithOptions(path, nil)
}

// ReadWithOptions reads an EDDS file and decodes its largest level with the
// given options. Nil opts uses default decoding.
func ReadWithOptions(path string, opts *ReadOptions) (image.Image, error) {
	s, err := Load(path)
	if err != nil {
		return nil, err
	}

	decOpts := (*bcn.DecodeOptions)(nil)
	if opts != nil {
		decOpts = opts.DecodeOptions
	}

	return DecodeLevel(s, 0, decOpts)
}

// DecodeLevel decodes one mip level of a single-face storage into an image.
func DecodeLevel(s texstore.Storage, level int, opts *bcn.DecodeOptions) (image.Image, error) {
	if err := checkShape(s); err != nil {
		return nil, err
	}
	codec := s.Format().BCN()
	if codec == bcn.FormatUnknown {
		return nil, fmt.Errorf("%w: %s cannot be decoded", ErrInvalidFormat, s.Format())
	}

	dims := s.Dimensions(level)
	img, err := bcn.DecodeImageWithOptions(s.LevelData(0, 0, level), dims.Width, dims.Height, codec, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: mipmap %d: %v", ErrDecodeImage, level, err)
	}

	return img, nil
}

// readEDDSHeaders reads the EDDS headers from the reader.
func readEDDSHeaders(r io.Reader) (*bcn.DDSHeader, *bcn.DDSHeaderDX10, error) {
	header, err := bcn.ReadDDSHeader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrDDSHeaderRead, err)
	}

	dx10, err := bcn.ReadDDSHeaderDX10(r, header)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrDDSDX10Read, err)
	}

	return header, dx10, nil
}
