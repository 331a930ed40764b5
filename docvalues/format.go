package docvalues

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/bits-and-blooms/bitset"
	"github.com/google/uuid"

	"github.com/hupe1980/geodv/blobstore"
	"github.com/hupe1980/geodv/codec"
	"github.com/hupe1980/geodv/internal/hash"
	"github.com/hupe1980/geodv/internal/resource"
)

const (
	// FormatVersion is the blob format written by Write.
	FormatVersion uint16 = 1

	magic = "GDV1"
	// magic, version, compression, codec name length
	fixedHeaderSize = 4 + 2 + 1 + 1
	// crc32c, payload length
	trailerHeaderSize = 4 + 8
)

type catalogField struct {
	FieldInfo
	BlockLen int `json:"block_len"`
}

type catalog struct {
	ID      uuid.UUID      `json:"id"`
	MaxDoc  int            `json:"max_doc"`
	Fields  []catalogField `json:"fields"`
	LiveLen int            `json:"live_len"`
}

// Option configures Write, Save, Read and Open.
type Option func(*options)

type options struct {
	compression Compression
	codec       codec.Codec
	limiter     resource.IOLimiter
}

func newOptions(opts []Option) options {
	o := options{compression: CompressionLZ4, codec: codec.Default}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithCompression sets the block compression. Default: LZ4.
func WithCompression(c Compression) Option {
	return func(o *options) { o.compression = c }
}

// WithCodec sets the catalog codec. Default: codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithIOLimiter throttles blob transfers in Save and Open.
func WithIOLimiter(l resource.IOLimiter) Option {
	return func(o *options) { o.limiter = l }
}

// Encode returns the blob for seg.
func Encode(seg *Segment, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	name := o.codec.Name()
	if len(name) > 255 {
		return nil, fmt.Errorf("%w: codec name too long", ErrIncompatibleFormat)
	}

	cat := catalog{ID: seg.id, MaxDoc: seg.maxDoc, Fields: make([]catalogField, len(seg.fields))}
	var blocks []byte
	var raw []byte
	for i, info := range seg.fields {
		raw = raw[:0]
		switch info.Type {
		case FieldBinary:
			raw = encodeBinary(raw, seg.binary[info.Name])
		case FieldSortedNumeric:
			raw = encodeNumeric(raw, seg.numeric[info.Name])
		}
		start := len(blocks)
		var err error
		if blocks, err = compressBlock(blocks, raw, o.compression); err != nil {
			return nil, fmt.Errorf("field %q: %w", info.Name, err)
		}
		cat.Fields[i] = catalogField{FieldInfo: info, BlockLen: len(blocks) - start}
	}
	if seg.live != nil {
		live, err := seg.live.MarshalBinary()
		if err != nil {
			return nil, err
		}
		cat.LiveLen = len(live)
		blocks = append(blocks, live...)
	}

	catBytes, err := o.codec.Marshal(cat)
	if err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}

	payload := make([]byte, 0, 4+len(catBytes)+len(blocks))
	payload = binary.LittleEndian.AppendUint32(payload, uint32(len(catBytes)))
	payload = append(payload, catBytes...)
	payload = append(payload, blocks...)

	out := make([]byte, 0, fixedHeaderSize+len(name)+trailerHeaderSize+len(payload))
	out = append(out, magic...)
	out = binary.LittleEndian.AppendUint16(out, FormatVersion)
	out = append(out, byte(o.compression), byte(len(name)))
	out = append(out, name...)
	out = binary.LittleEndian.AppendUint32(out, hash.CRC32C(payload))
	out = binary.LittleEndian.AppendUint64(out, uint64(len(payload)))
	return append(out, payload...), nil
}

// Write encodes seg to w and returns the number of bytes written.
func Write(w io.Writer, seg *Segment, opts ...Option) (int64, error) {
	b, err := Encode(seg, opts...)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)
	return int64(n), err
}

// Save stores seg as blob name.
func Save(ctx context.Context, store blobstore.BlobStore, name string, seg *Segment, opts ...Option) (int64, error) {
	o := newOptions(opts)
	b, err := Encode(seg, opts...)
	if err != nil {
		return 0, err
	}
	if o.limiter == nil {
		return int64(len(b)), store.Put(ctx, name, b)
	}

	wb, err := store.Create(ctx, name)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(resource.NewRateLimitedWriter(ctx, wb, o.limiter), bytes.NewReader(b))
	if err != nil {
		if a, ok := wb.(interface{ Abort() error }); ok {
			_ = a.Abort()
		} else {
			_ = wb.Close()
		}
		return n, err
	}
	if err := wb.Sync(); err != nil {
		_ = wb.Close()
		return n, err
	}
	return n, wb.Close()
}

// Decode parses a blob produced by Encode. The returned segment does not
// reference b.
func Decode(b []byte) (*Segment, error) {
	if len(b) < fixedHeaderSize || string(b[:4]) != magic {
		return nil, fmt.Errorf("%w: bad magic", ErrCorrupt)
	}
	if v := binary.LittleEndian.Uint16(b[4:]); v != FormatVersion {
		return nil, fmt.Errorf("%w: version %d", ErrIncompatibleFormat, v)
	}
	comp := Compression(b[6])
	nameLen := int(b[7])
	rest := b[fixedHeaderSize:]
	if len(rest) < nameLen+trailerHeaderSize {
		return nil, fmt.Errorf("%w: truncated header", ErrCorrupt)
	}
	c, ok := codec.ByName(string(rest[:nameLen]))
	if !ok {
		return nil, fmt.Errorf("%w: codec %q", ErrIncompatibleFormat, rest[:nameLen])
	}
	rest = rest[nameLen:]
	sum := binary.LittleEndian.Uint32(rest)
	payloadLen := binary.LittleEndian.Uint64(rest[4:])
	payload := rest[trailerHeaderSize:]
	if uint64(len(payload)) != payloadLen {
		return nil, fmt.Errorf("%w: payload is %d bytes, header says %d", ErrCorrupt, len(payload), payloadLen)
	}
	if err := hash.VerifyCRC32C(payload, sum); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	if len(payload) < 4 {
		return nil, fmt.Errorf("%w: truncated catalog", ErrCorrupt)
	}
	catLen := uint64(binary.LittleEndian.Uint32(payload))
	payload = payload[4:]
	if uint64(len(payload)) < catLen {
		return nil, fmt.Errorf("%w: truncated catalog", ErrCorrupt)
	}
	var cat catalog
	if err := c.Unmarshal(payload[:catLen], &cat); err != nil {
		return nil, fmt.Errorf("%w: catalog: %w", ErrCorrupt, err)
	}
	payload = payload[catLen:]
	if cat.MaxDoc < 0 {
		return nil, fmt.Errorf("%w: max doc %d", ErrCorrupt, cat.MaxDoc)
	}

	seg := newSegment(cat.ID, cat.MaxDoc)
	for _, f := range cat.Fields {
		if f.BlockLen < 0 || f.BlockLen > len(payload) {
			return nil, fmt.Errorf("%w: field %q block exceeds payload", ErrCorrupt, f.Name)
		}
		if _, dup := seg.byName[f.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate field %q", ErrCorrupt, f.Name)
		}
		raw, err := decompressBlock(payload[:f.BlockLen], comp)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		payload = payload[f.BlockLen:]

		switch f.Type {
		case FieldBinary:
			col, err := decodeBinary(raw, cat.MaxDoc)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", f.Name, err)
			}
			if len(col.docs) != f.Docs {
				return nil, fmt.Errorf("%w: field %q has %d docs, catalog says %d", ErrCorrupt, f.Name, len(col.docs), f.Docs)
			}
			seg.addBinary(f.FieldInfo, col)
		case FieldSortedNumeric:
			col, err := decodeNumeric(raw, cat.MaxDoc)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", f.Name, err)
			}
			if len(col.docs) != f.Docs {
				return nil, fmt.Errorf("%w: field %q has %d docs, catalog says %d", ErrCorrupt, f.Name, len(col.docs), f.Docs)
			}
			seg.addNumeric(f.FieldInfo, col)
		default:
			return nil, fmt.Errorf("%w: field %q type %d", ErrIncompatibleFormat, f.Name, f.Type)
		}
	}

	if len(payload) != cat.LiveLen {
		return nil, fmt.Errorf("%w: %d trailing bytes, live docs need %d", ErrCorrupt, len(payload), cat.LiveLen)
	}
	if cat.LiveLen > 0 {
		live := new(bitset.BitSet)
		if err := live.UnmarshalBinary(payload); err != nil {
			return nil, fmt.Errorf("%w: live docs: %w", ErrCorrupt, err)
		}
		if live.Len() != uint(cat.MaxDoc) {
			return nil, fmt.Errorf("%w: live docs cover %d, want %d", ErrCorrupt, live.Len(), cat.MaxDoc)
		}
		seg.live = live
	}
	seg.size = int64(len(b))
	return seg, nil
}

// Read loads a segment from the first size bytes of r.
func Read(r io.ReaderAt, size int64) (*Segment, error) {
	b := make([]byte, size)
	if _, err := io.ReadFull(io.NewSectionReader(r, 0, size), b); err != nil {
		return nil, fmt.Errorf("read segment: %w", err)
	}
	return Decode(b)
}

// Open loads blob name from store. Memory-mapped blobs are decoded in place;
// others are streamed through the configured IO limiter.
func Open(ctx context.Context, store blobstore.BlobStore, name string, opts ...Option) (*Segment, error) {
	o := newOptions(opts)

	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = blob.Close() }()

	if m, ok := blob.(blobstore.Mappable); ok && o.limiter == nil {
		b, err := m.Bytes()
		if err != nil {
			return nil, err
		}
		return decodeNamed(name, b)
	}

	rc, err := blobstore.NewReader(ctx, blob)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	buf := bytes.NewBuffer(make([]byte, 0, blob.Size()))
	if _, err := buf.ReadFrom(resource.NewRateLimitedReader(ctx, rc, o.limiter)); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return decodeNamed(name, buf.Bytes())
}

func decodeNamed(name string, b []byte) (*Segment, error) {
	seg, err := Decode(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return seg, nil
}
