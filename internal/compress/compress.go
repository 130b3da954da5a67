// Package compress implements the block framing used for result archives.
//
// A compressed stream is a sequence of blocks:
//
//	[uncompressed uint32][compressed uint32][payload...]
//
// A compressed size of 0 means the payload is stored as is. The algorithm is
// not recorded in the stream; callers pick it from the file name.
package compress

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type defines the compression algorithm used.
type Type uint8

const (
	// None stores data without framing.
	None Type = iota
	// LZ4 uses LZ4 block compression (fast).
	LZ4
	// ZSTD uses zstd (better ratio).
	ZSTD
)

// DefaultBlockSize is the block size used by Encode.
const DefaultBlockSize = 256 * 1024

// MaxBlockSize bounds the uncompressed size of one block. Readers reject
// larger headers before allocating.
const MaxBlockSize = 16 * DefaultBlockSize

const blockHeaderSize = 8

// ErrCorrupt is returned when a stream cannot be decoded.
var ErrCorrupt = errors.New("compress: corrupt stream")

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// Ext returns the file extension for t, including the dot, or "" for None.
func (t Type) Ext() string {
	switch t {
	case LZ4:
		return ".lz4"
	case ZSTD:
		return ".zst"
	default:
		return ""
	}
}

// TypeForName picks the algorithm from the extension of name.
func TypeForName(name string) Type {
	switch strings.ToLower(path.Ext(name)) {
	case ".lz4":
		return LZ4
	case ".zst", ".zstd":
		return ZSTD
	default:
		return None
	}
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	return zstd.NewReader(nil)
}

// Encode frames data with t. None returns data unchanged.
func Encode(data []byte, t Type) ([]byte, error) {
	if t == None {
		return data, nil
	}
	var buf bytes.Buffer
	w := NewBlockWriter(&buf, t, DefaultBlockSize)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reverses Encode.
func Decode(data []byte, t Type) ([]byte, error) {
	if t == None {
		return data, nil
	}
	r := NewBlockReader(data, t)
	out := make([]byte, 0, len(data))
	for {
		block, err := r.ReadBlock()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, block...)
	}
}

// compressBlock returns data framed with a block header. Blocks that do not
// shrink below 90% are stored.
func compressBlock(data []byte, t Type) ([]byte, error) {
	var (
		compressed []byte
		err        error
	)
	switch t {
	case LZ4:
		compressed, err = compressBlockLZ4(data)
	case ZSTD:
		compressed, err = compressBlockZSTD(data)
	}
	if err != nil {
		return nil, err
	}

	payload, size := compressed, uint32(len(compressed))
	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		payload, size = data, 0
	}

	result := make([]byte, blockHeaderSize+len(payload))
	binary.LittleEndian.PutUint32(result[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(result[4:], size)
	copy(result[blockHeaderSize:], payload)
	return result, nil
}

func compressBlockLZ4(data []byte) ([]byte, error) {
	compressed := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, compressed, nil)
	if err != nil {
		return nil, err
	}
	// n == 0: incompressible
	return compressed[:n], nil
}

func compressBlockZSTD(data []byte) ([]byte, error) {
	enc, err := getZstdEncoder()
	if err != nil {
		return nil, err
	}
	defer zstdEncoderPool.Put(enc)

	return enc.EncodeAll(data, nil), nil
}

func decompressPayload(payload []byte, uncompressedSize uint32, t Type) ([]byte, error) {
	result := make([]byte, uncompressedSize)

	switch t {
	case LZ4:
		n, err := lz4.UncompressBlock(payload, result)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if uint32(n) != uncompressedSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return result, nil

	case ZSTD:
		dec, err := getZstdDecoder()
		if err != nil {
			return nil, err
		}
		defer zstdDecoderPool.Put(dec)

		decoded, err := dec.DecodeAll(payload, result[:0])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if uint32(len(decoded)) != uncompressedSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return decoded, nil

	default:
		return nil, fmt.Errorf("%w: compressed block in %s stream", ErrCorrupt, t)
	}
}

// BlockWriter writes compressed blocks to an underlying writer.
type BlockWriter struct {
	w         io.Writer
	typ       Type
	blockSize int
	buffer    *bytes.Buffer
	written   int64
}

// NewBlockWriter creates a block writer. A non-positive blockSize selects
// DefaultBlockSize.
func NewBlockWriter(w io.Writer, t Type, blockSize int) *BlockWriter {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	blockSize = min(blockSize, MaxBlockSize)
	return &BlockWriter{
		w:         w,
		typ:       t,
		blockSize: blockSize,
		buffer:    bytes.NewBuffer(make([]byte, 0, blockSize)),
	}
}

// Write buffers p, flushing full blocks.
func (c *BlockWriter) Write(p []byte) (int, error) {
	total := 0
	for len(p) > 0 {
		space := c.blockSize - c.buffer.Len()
		if space <= 0 {
			if err := c.Flush(); err != nil {
				return total, err
			}
			space = c.blockSize
		}

		n, _ := c.buffer.Write(p[:min(len(p), space)])
		total += n
		p = p[n:]
	}
	return total, nil
}

// Flush compresses and writes the buffered block, if any.
func (c *BlockWriter) Flush() error {
	if c.buffer.Len() == 0 {
		return nil
	}

	block, err := compressBlock(c.buffer.Bytes(), c.typ)
	if err != nil {
		return err
	}

	n, err := c.w.Write(block)
	c.written += int64(n)
	if err != nil {
		return err
	}
	c.buffer.Reset()
	return nil
}

// BytesWritten returns the total framed bytes written.
func (c *BlockWriter) BytesWritten() int64 {
	return c.written
}

// BlockReader decodes blocks from an in-memory stream.
type BlockReader struct {
	data   []byte
	offset int
	typ    Type
}

// NewBlockReader creates a reader over data.
func NewBlockReader(data []byte, t Type) *BlockReader {
	return &BlockReader{data: data, typ: t}
}

// ReadBlock returns the next decoded block, or io.EOF at the end.
func (c *BlockReader) ReadBlock() ([]byte, error) {
	if c.offset == len(c.data) {
		return nil, io.EOF
	}
	if c.offset+blockHeaderSize > len(c.data) {
		return nil, fmt.Errorf("%w: truncated block header", ErrCorrupt)
	}

	uncompressedSize := binary.LittleEndian.Uint32(c.data[c.offset:])
	compressedSize := binary.LittleEndian.Uint32(c.data[c.offset+4:])
	start := c.offset + blockHeaderSize

	if uncompressedSize > MaxBlockSize {
		return nil, fmt.Errorf("%w: block size %d exceeds %d", ErrCorrupt, uncompressedSize, MaxBlockSize)
	}

	if compressedSize == 0 {
		end := start + int(uncompressedSize)
		if end > len(c.data) {
			return nil, fmt.Errorf("%w: block extends beyond data", ErrCorrupt)
		}
		c.offset = end
		return c.data[start:end], nil
	}

	end := start + int(compressedSize)
	if end > len(c.data) {
		return nil, fmt.Errorf("%w: compressed block extends beyond data", ErrCorrupt)
	}
	block, err := decompressPayload(c.data[start:end], uncompressedSize, c.typ)
	if err != nil {
		return nil, err
	}
	c.offset = end
	return block, nil
}
