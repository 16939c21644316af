package edds

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"

	"github.com/woozymasta/bcn"
	"github.com/woozymasta/texstore"
)

// WriteOptions configures image encoding and EDDS writing.
type WriteOptions struct {
	// EncodeOptions are passed to the BCn encoder (e.g. QualityLevel, Workers).
	EncodeOptions *bcn.EncodeOptions
	// Format is the storage format produced by FromImage. Zero means BGRA8.
	Format texstore.Format
	// MaxMipMaps limits the chain length. 0 means full chain.
	MaxMipMaps int
	// Compress stores LZ4 blocks where they pay off; false stores COPY blocks.
	Compress bool
}

// defaultWriteOptions mirrors Write: BGRA8, full chain, LZ4 blocks.
func defaultWriteOptions() *WriteOptions {
	return &WriteOptions{Format: texstore.FormatBGRA8Unorm, Compress: true}
}

// checkShape rejects storages EDDS cannot carry.
func checkShape(s texstore.Storage) error {
	if s.Empty() {
		return fmt.Errorf("%w: empty storage", ErrUnsupportedShape)
	}
	if s.Layers() != 1 || s.Faces() != 1 || s.Dimensions(0).Depth != 1 {
		return fmt.Errorf("%w: %s", ErrUnsupportedShape, s)
	}

	return nil
}

// mipMapCount returns the chain length for a base extent, limited by
// maxMipMaps (0 means no limit) and the Enfusion ceiling.
func mipMapCount(dims texstore.Extent, maxMipMaps int) int {
	count := min(texstore.LevelCount(dims), maxMipMapCount)
	if maxMipMaps > 0 && maxMipMaps < count {
		count = maxMipMaps
	}

	return count
}

// FromImage encodes img and its generated mip chain into a new storage.
// Nil opts uses BGRA8 with a full chain.
func FromImage(img image.Image, opts *WriteOptions) (texstore.Storage, error) {
	if opts == nil {
		opts = defaultWriteOptions()
	}
	format := opts.Format
	if format == texstore.FormatUndefined {
		format = texstore.FormatBGRA8Unorm
	}
	if !format.Valid() || format.BCN() == bcn.FormatUnknown {
		return texstore.Storage{}, fmt.Errorf("%w: %s", ErrInvalidFormat, format)
	}

	bounds := img.Bounds()
	dims := texstore.Extent2D(bounds.Dx(), bounds.Dy())

	mips := bcn.GenerateMipmaps(img, false)
	if len(mips) == 0 {
		return texstore.Storage{}, ErrEmptyMipmaps
	}
	if count := mipMapCount(dims, opts.MaxMipMaps); len(mips) > count {
		mips = mips[:count]
	}

	s, err := texstore.New(1, 1, len(mips), format, dims)
	if err != nil {
		return texstore.Storage{}, err
	}

	for i, mip := range mips {
		data, _, _, err := bcn.EncodeImageWithOptions(mip, format.BCN(), opts.EncodeOptions)
		if err != nil {
			return texstore.Storage{}, fmt.Errorf("%w: mipmap %d: %v", ErrCompressMipmap, i, err)
		}

		level := s.LevelData(0, 0, i)
		if len(data) != len(level) {
			return texstore.Storage{}, fmt.Errorf("%w: mipmap %d: expected %d, got %d", ErrMipmapSizeMismatch, i, len(level), len(data))
		}
		copy(level, data)
	}

	return s, nil
}

// Write encodes img with a full mip chain and writes it as an EDDS file.
func Write(img image.Image, path string) error {
	return WriteWithOptions(img, path, nil)
}

// WriteWithOptions encodes img and writes it as an EDDS file.
// Nil opts uses BGRA8, a full chain and LZ4 blocks.
func WriteWithOptions(img image.Image, path string, opts *WriteOptions) error {
	if opts == nil {
		opts = defaultWriteOptions()
	}

	s, err := FromImage(img, opts)
	if err != nil {
		return err
	}

	return SaveWithOptions(path, s, opts)
}

// Save writes a single-face 2D storage as an EDDS file with LZ4 blocks.
func Save(path string, s texstore.Storage) error {
	return SaveWithOptions(path, s, nil)
}

// SaveWithOptions writes a single-face 2D storage as an EDDS file. Only
// MaxMipMaps and Compress are consulted. Nil opts uses the full chain and
// LZ4 blocks.
func SaveWithOptions(path string, s texstore.Storage, opts *WriteOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrCreateFile, path, err)
	}
	defer func() { _ = f.Close() }()

	bw := bufio.NewWriter(f)
	if err := Encode(bw, s, opts); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrFlush, err)
	}

	return f.Close()
}

// Encode writes a single-face 2D storage as an EDDS stream. Levels beyond
// the Enfusion ceiling or opts.MaxMipMaps are dropped from the tail.
func Encode(w io.Writer, s texstore.Storage, opts *WriteOptions) error {
	if opts == nil {
		opts = defaultWriteOptions()
	}
	if err := checkShape(s); err != nil {
		return err
	}

	count := min(s.Levels(), mipMapCount(s.Dimensions(0), opts.MaxMipMaps))

	header, err := makeDDSHeader(s, count)
	if err != nil {
		return err
	}

	blocks := make([]*Block, count)
	for i := range blocks {
		level := s.LevelData(0, 0, i)
		if opts.Compress {
			blocks[i], err = compressBlock(level)
		} else {
			blocks[i], err = copyBlock(level)
		}
		if err != nil {
			return fmt.Errorf("%w: mipmap %d: %v", ErrCompressMipmap, i, err)
		}
	}

	if err := bcn.WriteDDSMagic(w); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteDDSMagic, err)
	}
	if err := bcn.WriteDDSHeader(w, header); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteDDSHeader, err)
	}

	for i := len(blocks) - 1; i >= 0; i-- {
		block := blocks[i]
		if _, err := io.WriteString(w, block.Magic); err != nil {
			return fmt.Errorf("%w: mipmap %d: %v", ErrWriteBlockMagic, i, err)
		}
		if err := binary.Write(w, binary.LittleEndian, block.Size); err != nil {
			return fmt.Errorf("%w: mipmap %d: %v", ErrWriteBlockSize, i, err)
		}
	}

	for i := len(blocks) - 1; i >= 0; i-- {
		if err := writeBlockData(w, blocks[i]); err != nil {
			return fmt.Errorf("%w: mipmap %d: %v", ErrWriteBlockData, i, err)
		}
	}

	texstore.Logger().Debug("edds: encoded",
		slog.String("format", s.Format().String()),
		slog.Int("levels", count),
		slog.Bool("compress", opts.Compress),
	)

	return nil
}
