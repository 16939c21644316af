package edds

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/woozymasta/bcn"
	"github.com/woozymasta/texstore"
)

func gradientImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{
				R: uint8(x * 255 / max(1, width-1)),  //nolint:gosec // bounded
				G: uint8(y * 255 / max(1, height-1)), //nolint:gosec // bounded
				B: 100,
				A: 255,
			})
		}
	}
	return img
}

func mustStorage(t *testing.T, levels int, format texstore.Format, dims texstore.Extent) texstore.Storage {
	t.Helper()

	s, err := texstore.New(1, 1, levels, format, dims)
	if err != nil {
		t.Fatalf("texstore.New: %v", err)
	}
	return s
}

func TestCompressRoundTrip(t *testing.T) {
	data := make([]byte, 128*1024)
	for i := range data {
		data[i] = byte((i*31 + 7) & 0xff)
	}

	block, err := compressBlock(data)
	if err != nil {
		t.Fatalf("compressBlock: %v", err)
	}
	if block.Magic != BlockMagicLZ4 {
		t.Fatalf("expected an LZ4 block for repetitive data, got %q", block.Magic)
	}

	out := make([]byte, len(data))
	if err := decompressBlock(block, out); err != nil {
		t.Fatalf("decompressBlock: %v", err)
	}

	if !bytes.Equal(out, data) {
		t.Fatalf("round-trip mismatch")
	}
}

func TestCompressSmallFallsBackToCOPY(t *testing.T) {
	t.Parallel()

	data := []byte{1, 2, 3, 4}
	block, err := compressBlock(data)
	if err != nil {
		t.Fatalf("compressBlock: %v", err)
	}
	if block.Magic != BlockMagicCOPY || block.Size != 4 {
		t.Fatalf("expected a 4-byte COPY block, got %q size %d", block.Magic, block.Size)
	}

	if err := decompressBlock(block, make([]byte, 5)); !errors.Is(err, ErrCopySizeMismatch) {
		t.Fatalf("expected ErrCopySizeMismatch, got %v", err)
	}
}

func TestDecompressUnknownMagic(t *testing.T) {
	t.Parallel()

	err := decompressBlock(&Block{Magic: "ABCD"}, make([]byte, 4))
	if !errors.Is(err, ErrUnknownBlockMagic) {
		t.Fatalf("expected ErrUnknownBlockMagic, got %v", err)
	}
}

func TestWriteRead(t *testing.T) {
	img := gradientImage(8, 8)

	dir := t.TempDir()
	path := filepath.Join(dir, "test.edds")

	if err := Write(img, path); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	gotImg, ok := got.(*image.NRGBA)
	if !ok {
		t.Fatalf("expected *image.NRGBA, got %T", got)
	}

	if gotImg.Bounds().Dx() != 8 || gotImg.Bounds().Dy() != 8 {
		t.Fatalf("unexpected size: %dx%d", gotImg.Bounds().Dx(), gotImg.Bounds().Dy())
	}

	if !bytes.Equal(gotImg.Pix, img.Pix) {
		// dump file for quick inspection when debugging
		_ = os.WriteFile(filepath.Join(dir, "got.raw"), gotImg.Pix, 0o644)
		_ = os.WriteFile(filepath.Join(dir, "want.raw"), img.Pix, 0o644)
		t.Fatalf("pixel mismatch")
	}
}

func TestSaveLoadStorage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		format   texstore.Format
		dims     texstore.Extent
		compress bool
	}{
		{name: "bgra8-lz4", format: texstore.FormatBGRA8Unorm, dims: texstore.Extent2D(64, 32), compress: true},
		{name: "rgba8-copy", format: texstore.FormatRGBA8Unorm, dims: texstore.Extent2D(5, 3), compress: false},
		{name: "dxt1-odd", format: texstore.FormatBC1RGBA, dims: texstore.Extent2D(17, 9), compress: true},
		{name: "dxt5", format: texstore.FormatBC3, dims: texstore.Extent2D(128, 128), compress: true},
		{name: "bc5", format: texstore.FormatBC5, dims: texstore.Extent2D(16, 16), compress: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s := mustStorage(t, 0, tc.format, tc.dims)
			data := s.Data()
			for i := range data {
				data[i] = byte((i / 7) & 0xff)
			}

			path := filepath.Join(t.TempDir(), "out.edds")
			if err := SaveWithOptions(path, s, &WriteOptions{Compress: tc.compress}); err != nil {
				t.Fatalf("SaveWithOptions: %v", err)
			}

			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if got.Format() != tc.format || got.Levels() != s.Levels() || got.Dimensions(0) != tc.dims {
				t.Fatalf("loaded %s, want %s", got, s)
			}
			if !texstore.Equal(got, s) {
				t.Fatalf("loaded bytes differ")
			}
		})
	}
}

func TestSaveCapsMipMaps(t *testing.T) {
	t.Parallel()

	s := mustStorage(t, 0, texstore.FormatBC4, texstore.Extent2D(4096, 16))
	if s.Levels() != 13 {
		t.Fatalf("setup: %d levels, want 13", s.Levels())
	}

	var buf bytes.Buffer
	if err := Encode(&buf, s, &WriteOptions{Compress: true}); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Levels() != maxMipMapCount {
		t.Fatalf("decoded %d levels, want %d", got.Levels(), maxMipMapCount)
	}
	if !texstore.Equal(got, s.LevelRange(0, maxMipMapCount-1)) {
		t.Fatalf("decoded levels differ from the leading source levels")
	}

	buf.Reset()
	if err := Encode(&buf, s, &WriteOptions{MaxMipMaps: 2}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err = Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Levels() != 2 {
		t.Fatalf("decoded %d levels, want 2", got.Levels())
	}
}

func TestEncodeRejects(t *testing.T) {
	t.Parallel()

	cube, err := texstore.New(1, 6, 1, texstore.FormatBGRA8Unorm, texstore.Extent2D(4, 4))
	if err != nil {
		t.Fatalf("texstore.New: %v", err)
	}

	tests := []struct {
		name    string
		s       texstore.Storage
		wantErr error
	}{
		{name: "empty", s: texstore.Storage{}, wantErr: ErrUnsupportedShape},
		{name: "cube", s: cube, wantErr: ErrUnsupportedShape},
		{name: "volume", s: mustStorage(t, 1, texstore.FormatBGRA8Unorm, texstore.Extent3D(4, 4, 4)), wantErr: ErrUnsupportedShape},
		{name: "no-codec", s: mustStorage(t, 1, texstore.FormatRGBA32Float, texstore.Extent2D(4, 4)), wantErr: ErrInvalidFormat},
		{name: "face-of-cube", s: cube.Face(3), wantErr: nil},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			err := Encode(&buf, tc.s, nil)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestWriteWithOptionsDXT5(t *testing.T) {
	img := gradientImage(16, 16)

	dir := t.TempDir()
	path := filepath.Join(dir, "test_dxt5.edds")

	err := WriteWithOptions(img, path, &WriteOptions{
		Format:     texstore.FormatBC3,
		MaxMipMaps: 1,
		Compress:   true,
		EncodeOptions: &bcn.EncodeOptions{
			QualityLevel: 8,
			Workers:      0,
		},
	})
	if err != nil {
		t.Fatalf("WriteWithOptions: %v", err)
	}

	cfg, err := ReadConfig(path)
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if cfg.Width != 16 || cfg.Height != 16 {
		t.Fatalf("unexpected size: %dx%d", cfg.Width, cfg.Height)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Format() != texstore.FormatBC3 || s.Levels() != 1 || s.Size() != 16*16 {
		t.Fatalf("unexpected storage %s size %d", s, s.Size())
	}
}

func TestFromImageLevels(t *testing.T) {
	t.Parallel()

	img := gradientImage(32, 8)
	s, err := FromImage(img, &WriteOptions{Format: texstore.FormatBC1RGBA})
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	if s.Levels() != texstore.LevelCount(texstore.Extent2D(32, 8)) {
		t.Fatalf("FromImage produced %d levels", s.Levels())
	}

	for level := 0; level < s.Levels(); level++ {
		dec, err := DecodeLevel(s, level, nil)
		if err != nil {
			t.Fatalf("DecodeLevel(%d): %v", level, err)
		}
		want := s.Dimensions(level)
		if dec.Bounds().Dx() != want.Width || dec.Bounds().Dy() != want.Height {
			t.Fatalf("level %d decoded as %v, want %s", level, dec.Bounds(), want)
		}
	}

	if _, err := FromImage(img, &WriteOptions{Format: texstore.FormatRGBA16Float}); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestDetectFormatTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header *bcn.DDSHeader
		dx10   *bcn.DDSHeaderDX10
		want   texstore.Format
	}{
		{
			name: "fourcc-dxt1",
			header: &bcn.DDSHeader{
				PixelFormat: bcn.DDSPixelFormat{
					Flags:  bcn.DDSPFFourCC,
					FourCC: makeFourCC("DXT1"),
				},
			},
			want: texstore.FormatBC1RGBA,
		},
		{
			name: "fourcc-ati2",
			header: &bcn.DDSHeader{
				PixelFormat: bcn.DDSPixelFormat{
					Flags:  bcn.DDSPFFourCC,
					FourCC: makeFourCC("ATI2"),
				},
			},
			want: texstore.FormatBC5,
		},
		{
			name: "rgb-bgra8",
			header: &bcn.DDSHeader{
				PixelFormat: bcn.DDSPixelFormat{
					Flags:       bcn.DDSPFRGB | bcn.DDSPFAlphaPixels,
					RGBBitCount: 32,
					RBitMask:    0x00ff0000,
					GBitMask:    0x0000ff00,
					BBitMask:    0x000000ff,
					ABitMask:    0xff000000,
				},
			},
			want: texstore.FormatBGRA8Unorm,
		},
		{
			name: "luminance8",
			header: &bcn.DDSHeader{
				PixelFormat: bcn.DDSPixelFormat{
					Flags:       bcn.DDSPFLuminance,
					RGBBitCount: 8,
				},
			},
			want: texstore.FormatR8Unorm,
		},
		{
			name: "dxgi-dxt5",
			dx10: &bcn.DDSHeaderDX10{DXGIFormat: 77},
			want: texstore.FormatBC3,
		},
		{
			name: "dxgi-unmapped",
			dx10: &bcn.DDSHeaderDX10{DXGIFormat: 98},
			want: texstore.FormatUndefined,
		},
		{
			name: "unknown",
			header: &bcn.DDSHeader{
				PixelFormat: bcn.DDSPixelFormat{
					Flags:  bcn.DDSPFFourCC,
					FourCC: makeFourCC("XXXX"),
				},
			},
			want: texstore.FormatUndefined,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, _ := detectFormat(tc.header, tc.dx10)
			if got != tc.want {
				t.Fatalf("detectFormat() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMakeDDSHeaderLinearSize(t *testing.T) {
	t.Parallel()

	s := mustStorage(t, 0, texstore.FormatBC1RGBA, texstore.Extent2D(6, 6))
	hdr, err := makeDDSHeader(s, s.Levels())
	if err != nil {
		t.Fatalf("makeDDSHeader: %v", err)
	}
	if hdr.PitchOrLinearSize != 32 {
		t.Fatalf("linear size = %d, want 32", hdr.PitchOrLinearSize)
	}
	if hdr.MipMapCount != 3 || hdr.Width != 6 || hdr.Height != 6 {
		t.Fatalf("unexpected header %dx%d mips=%d", hdr.Width, hdr.Height, hdr.MipMapCount)
	}
	if intToFourCC(hdr.PixelFormat.FourCC) != "DXT1" {
		t.Fatalf("FourCC = %q", intToFourCC(hdr.PixelFormat.FourCC))
	}
}

func TestReadBlockTableErrors(t *testing.T) {
	t.Parallel()

	t.Run("unknown-magic", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		_, _ = buf.WriteString("ABCD")
		_ = binary.Write(&buf, binary.LittleEndian, int32(8))

		_, err := readBlockTable(bytes.NewReader(buf.Bytes()), 1)
		if !errors.Is(err, ErrBlockTableUnknownMagic) {
			t.Fatalf("expected ErrBlockTableUnknownMagic, got %v", err)
		}
	})

	t.Run("negative-size", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		_, _ = buf.WriteString(BlockMagicCOPY)
		_ = binary.Write(&buf, binary.LittleEndian, int32(-1))

		_, err := readBlockTable(bytes.NewReader(buf.Bytes()), 1)
		if !errors.Is(err, ErrBlockTableInvalidSize) {
			t.Fatalf("expected ErrBlockTableInvalidSize, got %v", err)
		}
	})
}

func TestDecodeLegacySingleBlob(t *testing.T) {
	t.Parallel()

	s := mustStorage(t, 1, texstore.FormatBGRA8Unorm, texstore.Extent2D(4, 4))
	for i := range s.Data() {
		s.Data()[i] = byte(i)
	}
	hdr, err := makeDDSHeader(s, 1)
	if err != nil {
		t.Fatalf("makeDDSHeader: %v", err)
	}

	var buf bytes.Buffer
	if err := bcn.WriteDDSMagic(&buf); err != nil {
		t.Fatalf("WriteDDSMagic: %v", err)
	}
	if err := bcn.WriteDDSHeader(&buf, hdr); err != nil {
		t.Fatalf("WriteDDSHeader: %v", err)
	}
	buf.Write(s.Data())

	got, err := Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !texstore.Equal(got, s) {
		t.Fatalf("legacy blob not loaded as raw level data")
	}
}

// headerStream returns magic and header of a small storage with the header
// extent replaced by width x height.
func headerStream(t *testing.T, format texstore.Format, width, height uint32) *bytes.Buffer {
	t.Helper()

	s := mustStorage(t, 1, format, texstore.Extent2D(4, 4))
	hdr, err := makeDDSHeader(s, 1)
	if err != nil {
		t.Fatalf("makeDDSHeader: %v", err)
	}
	hdr.Width = width
	hdr.Height = height

	var buf bytes.Buffer
	if err := bcn.WriteDDSMagic(&buf); err != nil {
		t.Fatalf("WriteDDSMagic: %v", err)
	}
	if err := bcn.WriteDDSHeader(&buf, hdr); err != nil {
		t.Fatalf("WriteDDSHeader: %v", err)
	}
	return &buf
}

func writeTableEntry(buf *bytes.Buffer, magic string, size int32) {
	_, _ = buf.WriteString(magic)
	_ = binary.Write(buf, binary.LittleEndian, size)
}

// Not parallel: it measures heap growth.
func TestDecodeHugeHeaderBoundedAlloc(t *testing.T) {
	const side = 16384 // 1 GiB of BGRA8 at level 0

	tests := []struct {
		name  string
		build func(*bytes.Buffer)
	}{
		{name: "header-only", build: func(*bytes.Buffer) {}},
		{name: "copy-entry-no-body", build: func(buf *bytes.Buffer) {
			writeTableEntry(buf, BlockMagicCOPY, side*side*4)
		}},
		{name: "lz4-entry-too-small", build: func(buf *bytes.Buffer) {
			writeTableEntry(buf, BlockMagicLZ4, 64)
			buf.Write(make([]byte, 64))
		}},
		{name: "copy-entry-wrong-size", build: func(buf *bytes.Buffer) {
			writeTableEntry(buf, BlockMagicCOPY, 16)
			buf.Write(make([]byte, 16))
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf := headerStream(t, texstore.FormatBGRA8Unorm, side, side)
			tc.build(buf)
			data := buf.Bytes()

			var before, after runtime.MemStats
			runtime.ReadMemStats(&before)
			_, err := Decode(bytes.NewReader(data))
			runtime.ReadMemStats(&after)

			if err == nil {
				t.Fatalf("Decode accepted a %d-byte stream for a %dx%d texture", len(data), side, side)
			}
			if grown := after.TotalAlloc - before.TotalAlloc; grown > 16<<20 {
				t.Fatalf("Decode allocated %d bytes before failing", grown)
			}
		})
	}
}

func TestLevelSizes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  texstore.Format
		dims    texstore.Extent
		mips    int
		want    []int
		wantErr error
	}{
		{name: "bgra8-chain", format: texstore.FormatBGRA8Unorm, dims: texstore.Extent2D(4, 2), mips: 3, want: []int{32, 8, 4}},
		{name: "dxt1-odd", format: texstore.FormatBC1RGBA, dims: texstore.Extent2D(6, 6), mips: 2, want: []int{32, 8}},
		{name: "zero-width", format: texstore.FormatBGRA8Unorm, dims: texstore.Extent2D(0, 4), mips: 1, wantErr: ErrInvalidHeader},
		{name: "mips-beyond-chain", format: texstore.FormatBGRA8Unorm, dims: texstore.Extent2D(4, 4), mips: 9, wantErr: ErrInvalidHeader},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := levelSizes(tc.format, tc.dims, tc.mips)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("levelSizes: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("levelSizes = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("levelSizes = %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestMinLZ4BlockSizeBelowEncoder(t *testing.T) {
	t.Parallel()

	data := make([]byte, 3*ChunkSize+100)
	block, err := compressBlock(data)
	if err != nil {
		t.Fatalf("compressBlock: %v", err)
	}
	if block.Magic != BlockMagicLZ4 {
		t.Fatalf("zero data not compressed, magic %q", block.Magic)
	}
	if err := checkBlockSize(blockHeader{Magic: block.Magic, Size: block.Size}, len(data)); err != nil {
		t.Fatalf("encoder output rejected: %v", err)
	}
}

func TestLoadLuminanceIsReadOnly(t *testing.T) {
	t.Parallel()

	s := mustStorage(t, 1, texstore.FormatBGRA8Unorm, texstore.Extent2D(4, 4))
	hdr, err := makeDDSHeader(s, 1)
	if err != nil {
		t.Fatalf("makeDDSHeader: %v", err)
	}
	hdr.PixelFormat = bcn.DDSPixelFormat{
		Size:        bcn.DDSPixelFormatSize,
		Flags:       bcn.DDSPFLuminance,
		RGBBitCount: 8,
	}
	hdr.PitchOrLinearSize = 4

	var buf bytes.Buffer
	_ = bcn.WriteDDSMagic(&buf)
	_ = bcn.WriteDDSHeader(&buf, hdr)
	writeTableEntry(&buf, BlockMagicCOPY, 16)
	texels := make([]byte, 16)
	for i := range texels {
		texels[i] = byte(i * 16)
	}
	buf.Write(texels)

	got, err := Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Format() != texstore.FormatR8Unorm || !bytes.Equal(got.Data(), texels) {
		t.Fatalf("luminance loaded as %s", got)
	}

	if err := Encode(&bytes.Buffer{}, got, nil); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("Encode: expected ErrInvalidFormat, got %v", err)
	}
	if _, err := DecodeLevel(got, 0, nil); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("DecodeLevel: expected ErrInvalidFormat, got %v", err)
	}
}
