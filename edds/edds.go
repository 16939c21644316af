package edds

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

const (
	// BlockMagicCOPY marks an uncompressed block.
	BlockMagicCOPY = "COPY"
	// BlockMagicLZ4 marks an LZ4-compressed block.
	BlockMagicLZ4 = "LZ4 "

	// ChunkSize is the Enfusion chunk size for LZ4 streams.
	ChunkSize = 64 * 1024

	// dictCap is the rolling LZ4 dictionary window.
	dictCap = 64 * 1024
)

// Block represents one mipmap block body.
type Block struct {
	Magic            string
	Data             []byte
	Size             int32
	UncompressedSize int32
}

// writeBlockData writes the block payload (no table entry).
func writeBlockData(w io.Writer, block *Block) error {
	if block.Magic == BlockMagicLZ4 {
		if err := binary.Write(w, binary.LittleEndian, block.UncompressedSize); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteUncompressedSize, err)
		}
		if _, err := w.Write(block.Data); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteChunkStream, err)
		}
		return nil
	}
	if _, err := w.Write(block.Data); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteBlockPayload, err)
	}
	return nil
}

// copyBlock wraps level bytes in a COPY block without copying them.
func copyBlock(data []byte) (*Block, error) {
	size, err := i32FromInt(len(data))
	if err != nil {
		return nil, err
	}

	return &Block{Magic: BlockMagicCOPY, Size: size, Data: data}, nil
}

// compressBlock compresses raw data into LZ4 chunk-stream or falls back to COPY.
func compressBlock(data []byte) (*Block, error) {
	if len(data) > maxInt32 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInputTooLarge, len(data))
	}
	uncompressedSize, err := i32FromInt(len(data))
	if err != nil {
		return nil, err
	}

	if len(data) < 1024 {
		return copyBlock(data)
	}

	var chunkStream bytes.Buffer
	compressBuf := make([]byte, lz4.CompressBlockBound(ChunkSize))

	for i := 0; i < len(data); i += ChunkSize {
		end := min(i+ChunkSize, len(data))
		srcChunk := data[i:end]
		isLast := end == len(data)

		cn, err := lz4.CompressBlockHC(srcChunk, compressBuf, 0, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLZ4Compress, err)
		}
		if cn == 0 || float64(cn) > float64(len(srcChunk))*0.85 {
			return copyBlock(data)
		}
		if cn > 0x7FFFFF {
			return nil, fmt.Errorf("%w: %d", ErrChunkTooLarge, cn)
		}

		chunkStream.WriteByte(byte(cn))
		chunkStream.WriteByte(byte(cn >> 8))
		chunkStream.WriteByte(byte(cn >> 16))
		if isLast {
			chunkStream.WriteByte(0x80)
		} else {
			chunkStream.WriteByte(0x00)
		}
		chunkStream.Write(compressBuf[:cn])
	}

	compressedData := chunkStream.Bytes()
	totalOverhead := 4 + len(compressedData)
	if totalOverhead > maxInt32 {
		return nil, fmt.Errorf("%w: %d bytes", ErrCompressedDataTooLarge, totalOverhead)
	}
	if float64(totalOverhead) > float64(len(data))*0.85 {
		return copyBlock(data)
	}

	size, err := i32FromInt(totalOverhead)
	if err != nil {
		return nil, err
	}

	return &Block{
		Magic:            BlockMagicLZ4,
		Size:             size,
		UncompressedSize: uncompressedSize,
		Data:             compressedData,
	}, nil
}

// decompressBlock inflates an EDDS block into dst, which must be exactly the
// size of the decoded level.
func decompressBlock(block *Block, dst []byte) error {
	if block.Magic == BlockMagicCOPY {
		if len(block.Data) != len(dst) {
			return fmt.Errorf("%w: expected %d, got %d", ErrCopySizeMismatch, len(dst), len(block.Data))
		}
		copy(dst, block.Data)
		return nil
	}
	if block.Magic != BlockMagicLZ4 {
		return fmt.Errorf("%w: %q", ErrUnknownBlockMagic, block.Magic)
	}

	targetSize := len(dst)
	if block.UncompressedSize > 0 && int(block.UncompressedSize) != targetSize {
		return fmt.Errorf("%w: expected %d, header says %d", ErrDecodedSizeMismatch, targetSize, block.UncompressedSize)
	}

	// Bodies read from disk still carry the uncompressed size prefix.
	data := block.Data
	if len(data) >= 8 {
		peek := int(binary.LittleEndian.Uint32(data[:4]))
		c0 := int(data[4]) | (int(data[5]) << 8) | (int(data[6]) << 16)
		if peek == targetSize && c0 > 0 && c0 < (1<<20) {
			data = data[4:]
		}
	}

	outIdx := 0
	r := bytes.NewReader(data)

	for {
		if r.Len() < 4 {
			return fmt.Errorf("%w: need 4 bytes header, have %d", ErrChunkStreamTruncated, r.Len())
		}

		var hdr [4]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return fmt.Errorf("%w: %v", ErrChunkHeaderRead, err)
		}

		cSize := int(hdr[0]) | (int(hdr[1]) << 8) | (int(hdr[2]) << 16)
		flags := hdr[3]
		if (flags &^ 0x80) != 0 {
			return fmt.Errorf("%w: 0x%02x", ErrUnknownLZ4Flags, flags)
		}
		if cSize <= 0 || cSize > r.Len() {
			return fmt.Errorf("%w: %d (remaining %d)", ErrInvalidChunkSize, cSize, r.Len())
		}

		compressed := make([]byte, cSize)
		if _, err := io.ReadFull(r, compressed); err != nil {
			return fmt.Errorf("%w: %v", ErrChunkDataRead, err)
		}

		remaining := targetSize - outIdx
		if remaining <= 0 {
			return ErrDecodeOverrun
		}
		want := min(ChunkSize, remaining)

		// Decoded output is contiguous, so the dictionary is the tail of dst.
		dict := dst[max(0, outIdx-dictCap):outIdx]
		n, err := lz4.UncompressBlockWithDict(compressed, dst[outIdx:outIdx+want], dict)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrLZ4Decode, err)
		}
		outIdx += n

		if (flags & 0x80) != 0 {
			break
		}
	}

	if outIdx != targetSize {
		return fmt.Errorf("%w: expected %d, got %d", ErrDecodedSizeMismatch, targetSize, outIdx)
	}
	if r.Len() != 0 {
		return fmt.Errorf("%w: %d bytes left after decode", ErrBlockLengthMismatch, r.Len())
	}

	return nil
}

type blockHeader struct {
	Magic string
	Size  int32
}

func readBlockTable(r io.Reader, mipMapCount int) ([]blockHeader, error) {
	hdrs := make([]blockHeader, 0, mipMapCount)
	for i := 0; i < mipMapCount; i++ {
		var magicBytes [4]byte
		if _, err := io.ReadFull(r, magicBytes[:]); err != nil {
			return nil, fmt.Errorf("%w: %d: %v", ErrBlockTableMagicRead, i, err)
		}

		magic := string(magicBytes[:])
		var size int32
		if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
			return nil, fmt.Errorf("%w: %d: %v", ErrBlockTableSizeRead, i, err)
		}

		if magic != BlockMagicCOPY && magic != BlockMagicLZ4 {
			return nil, fmt.Errorf("%w: %d: %q", ErrBlockTableUnknownMagic, i, magic)
		}

		if size < 0 {
			return nil, fmt.Errorf("%w: %d: %d", ErrBlockTableInvalidSize, i, size)
		}

		hdrs = append(hdrs, blockHeader{Magic: magic, Size: size})
	}

	return hdrs, nil
}

func readBlockBody(r io.Reader, h blockHeader) (*Block, error) {
	data := make([]byte, h.Size)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBlockBodyRead, h.Magic, err)
	}

	return &Block{Magic: h.Magic, Size: h.Size, Data: data}, nil
}
