package docvalues

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/geodv/blobstore"
	"github.com/hupe1980/geodv/codec"
	"github.com/hupe1980/geodv/geo"
	"github.com/hupe1980/geodv/internal/resource"
)

func testSegment(t *testing.T) *Segment {
	t.Helper()
	b := NewBuilder(WithMaxDoc(200))
	for doc := range 150 {
		x := float64(doc%36)*10 - 175
		y := float64(doc%18)*10 - 85
		require.NoError(t, b.AddPoint(doc, "location", geo.Geographic, x, y))
		require.NoError(t, b.AddLong(doc, "rank", int64(doc*doc)-500))
		if doc%3 == 0 {
			require.NoError(t, b.AddShape(doc, "area", geo.Geographic, square(x, y, 2)))
		}
		if doc%5 == 0 {
			require.NoError(t, b.AddShape(doc, "plane", geo.Cartesian, square(float64(doc), 0, 10)))
		}
	}
	require.NoError(t, b.Delete(7))
	require.NoError(t, b.Delete(199))
	seg, err := b.Build()
	require.NoError(t, err)
	return seg
}

func assertSameSegment(t *testing.T, want, got *Segment) {
	t.Helper()
	assert.Equal(t, want.UUID(), got.UUID())
	assert.Equal(t, want.MaxDoc(), got.MaxDoc())
	assert.Equal(t, want.NumDocs(), got.NumDocs())
	assert.Equal(t, want.Fields(), got.Fields())
	for _, f := range want.Fields() {
		switch f.Type {
		case FieldBinary:
			w, err := want.Binary(f.Name)
			require.NoError(t, err)
			g, err := got.Binary(f.Name)
			require.NoError(t, err)
			assert.Equal(t, binaryValues(t, w), binaryValues(t, g), f.Name)
		case FieldSortedNumeric:
			w, err := want.SortedNumeric(f.Name)
			require.NoError(t, err)
			g, err := got.SortedNumeric(f.Name)
			require.NoError(t, err)
			assert.Equal(t, numericValues(t, w), numericValues(t, g), f.Name)
		}
	}
	for doc := range want.MaxDoc() {
		assert.Equal(t, want.IsLive(doc), got.IsLive(doc), "doc %d", doc)
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	seg := testSegment(t)

	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		for _, cd := range []codec.Codec{codec.JSON{}, codec.GoJSON{}} {
			t.Run(c.String()+"/"+cd.Name(), func(t *testing.T) {
				var buf bytes.Buffer
				n, err := Write(&buf, seg, WithCompression(c), WithCodec(cd))
				require.NoError(t, err)
				assert.Equal(t, int64(buf.Len()), n)

				got, err := Read(bytes.NewReader(buf.Bytes()), n)
				require.NoError(t, err)
				assert.Equal(t, n, got.Size())
				assertSameSegment(t, seg, got)
			})
		}
	}
}

func TestFormat_EmptySegment(t *testing.T) {
	seg, err := NewBuilder().Build()
	require.NoError(t, err)

	b, err := Encode(seg)
	require.NoError(t, err)
	got, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, 0, got.MaxDoc())
	assert.Empty(t, got.Fields())
	assert.Nil(t, got.LiveDocs())
}

func TestFormat_Compresses(t *testing.T) {
	seg := testSegment(t)
	raw, err := Encode(seg, WithCompression(CompressionNone))
	require.NoError(t, err)
	zstd, err := Encode(seg, WithCompression(CompressionZSTD))
	require.NoError(t, err)
	assert.Less(t, len(zstd), len(raw))
}

func TestFormat_Corruption(t *testing.T) {
	good, err := Encode(testSegment(t))
	require.NoError(t, err)

	mutate := func(f func(b []byte) []byte) []byte {
		return f(bytes.Clone(good))
	}
	nameLen := int(good[7])
	payloadStart := fixedHeaderSize + nameLen + trailerHeaderSize

	tests := []struct {
		name string
		blob []byte
		want error
	}{
		{"Empty", nil, ErrCorrupt},
		{"BadMagic", mutate(func(b []byte) []byte { b[0] = 'X'; return b }), ErrCorrupt},
		{"Version", mutate(func(b []byte) []byte {
			binary.LittleEndian.PutUint16(b[4:], 99)
			return b
		}), ErrIncompatibleFormat},
		{"UnknownCodec", mutate(func(b []byte) []byte { b[8] = '?'; return b }), ErrIncompatibleFormat},
		{"Truncated", good[:len(good)-3], ErrCorrupt},
		{"FlippedPayload", mutate(func(b []byte) []byte { b[len(b)-1] ^= 0xFF; return b }), ErrCorrupt},
		{"FlippedCatalog", mutate(func(b []byte) []byte { b[payloadStart+5] ^= 0x01; return b }), ErrCorrupt},
		{"TrailingBytes", append(bytes.Clone(good), 0), ErrCorrupt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.blob)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSaveOpen(t *testing.T) {
	ctx := context.Background()
	seg := testSegment(t)

	stores := map[string]blobstore.BlobStore{
		"memory": blobstore.NewMemoryStore(),
		"local":  blobstore.NewLocalStore(t.TempDir()),
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			n, err := Save(ctx, store, "seg-1.gdv", seg)
			require.NoError(t, err)

			got, err := Open(ctx, store, "seg-1.gdv")
			require.NoError(t, err)
			assert.Equal(t, n, got.Size())
			assertSameSegment(t, seg, got)

			_, err = Open(ctx, store, "missing.gdv")
			assert.ErrorIs(t, err, blobstore.ErrNotFound)
		})
	}
}

func TestSaveOpen_RateLimited(t *testing.T) {
	ctx := context.Background()
	seg := testSegment(t)
	store := blobstore.NewMemoryStore()
	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 64 << 20})

	n, err := Save(ctx, store, "seg.gdv", seg, WithIOLimiter(rc), WithCompression(CompressionZSTD))
	require.NoError(t, err)

	got, err := Open(ctx, store, "seg.gdv", WithIOLimiter(rc))
	require.NoError(t, err)
	assert.Equal(t, n, got.Size())
	assertSameSegment(t, seg, got)

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	_, err = Open(cctx, store, "seg.gdv", WithIOLimiter(rc))
	assert.ErrorIs(t, err, context.Canceled)
}
