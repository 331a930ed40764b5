package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/geodv"
	"github.com/hupe1980/geodv/codec"
	"github.com/hupe1980/geodv/docvalues"
	"github.com/hupe1980/geodv/geo"
)

const testWKT = `# two squares and two points
POLYGON((0 0, 1 0, 1 1, 0 1, 0 0))
POLYGON((10 10, 11 10, 11 11, 10 11, 10 10))

POINT(0.5 0.5)
5	POINT(20 20)
`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func indexed(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	out, err := run(t, testWKT, "index", "seg.gdv", "--dir", dir, "--point-field", "point")
	require.NoError(t, err)
	assert.Contains(t, out, "4 documents")
	return dir
}

func TestIndexInspect(t *testing.T) {
	dir := indexed(t)

	out, err := run(t, "", "inspect", "seg.gdv", "--dir", dir, "--json")
	require.NoError(t, err)

	var infos []segmentInfo
	require.NoError(t, codec.GoJSON{}.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 1)
	info := infos[0]
	assert.Equal(t, "seg.gdv", info.Name)
	assert.Equal(t, 6, info.MaxDoc)
	assert.Equal(t, 6, info.NumDocs)
	assert.Positive(t, info.Bytes)
	require.Len(t, info.Fields, 2)
	assert.Equal(t, "point", info.Fields[0].Name)
	assert.Equal(t, docvalues.FieldSortedNumeric, info.Fields[0].Type)
	assert.Equal(t, 2, info.Fields[0].Docs)
	assert.Equal(t, "shape", info.Fields[1].Name)
	assert.Equal(t, geo.KindGeographic, info.Fields[1].Kind)
	assert.Equal(t, 4, info.Fields[1].Docs)

	out, err = run(t, "", "inspect", "seg.gdv", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "seg.gdv")
	assert.Contains(t, out, "shape")
}

func TestQuery(t *testing.T) {
	dir := indexed(t)
	box := "POLYGON((-1 -1, 2 -1, 2 2, -1 2, -1 -1))"

	tests := []struct {
		relation string
		want     []uint32
	}{
		{"intersects", []uint32{0, 2}},
		{"within", []uint32{0, 2}},
		{"disjoint", []uint32{1, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.relation, func(t *testing.T) {
			out, err := run(t, "", "query", box, "seg.gdv", "--dir", dir, "-r", tt.relation, "--json")
			require.NoError(t, err)

			var rows []struct {
				Segment string   `json:"segment"`
				Docs    []uint32 `json:"docs"`
			}
			require.NoError(t, codec.GoJSON{}.Unmarshal([]byte(out), &rows))
			require.Len(t, rows, 1)
			assert.Equal(t, tt.want, rows[0].Docs)
		})
	}

	out, err := run(t, "", "query", box, "seg.gdv", "--dir", dir, "--count")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)

	out, err = run(t, "", "query", box, "seg.gdv", "--dir", dir, "--field", "point", "--points")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "\t2\n"), out)
}

func TestNearest(t *testing.T) {
	dir := indexed(t)

	out, err := run(t, "", "nearest", "seg.gdv", "--dir", dir, "--lat", "0", "--lon", "0", "-n", "1")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], ":2:")

	// The printed hit is a valid page cursor.
	out, err = run(t, "", "nearest", "seg.gdv", "--dir", dir, "--lat", "0", "--lon", "0", "-n", "5", "--after", lines[0])
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], ":5:")

	out, err = run(t, "", "nearest", "seg.gdv", "--dir", dir, "--lat", "0", "--lon", "0",
		"--filter", "POLYGON((15 15, 25 15, 25 25, 15 25, 15 15))", "--json")
	require.NoError(t, err)
	var hits []struct {
		Doc      int     `json:"doc"`
		Distance float64 `json:"distance"`
	}
	require.NoError(t, codec.GoJSON{}.Unmarshal([]byte(out), &hits))
	require.Len(t, hits, 1)
	assert.Equal(t, 5, hits[0].Doc)
	assert.InDelta(t, geo.HaversinDistance(0, 0, 20, 20), hits[0].Distance, 1)
}

func TestErrors(t *testing.T) {
	dir := indexed(t)

	_, err := run(t, "POLYGON((0 0, 1 0\n", "index", "bad.gdv", "--dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")

	_, err = run(t, "x\tPOINT(1 1)\n", "index", "bad.gdv", "--dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad document id")

	_, err = run(t, "POINT(1 1)\n", "index", "bad.gdv", "--dir", dir, "--compression", "snappy")
	require.Error(t, err)

	_, err = run(t, "", "query", "POINT(0 0)", "seg.gdv", "--dir", dir, "-r", "touches")
	require.ErrorIs(t, err, geodv.ErrInvalidArgument)

	_, err = run(t, "", "query", "POINT(0 0)", "missing.gdv", "--dir", dir)
	require.ErrorIs(t, err, geodv.ErrNotFound)

	_, err = run(t, "", "query", "POINT(0 0)", "seg.gdv", "--dir", dir, "-r", "contains")
	require.ErrorIs(t, err, geodv.ErrUnsupported)

	_, err = run(t, "", "nearest", "seg.gdv", "--dir", dir, "--field", "shape")
	var fk *geodv.ErrFieldKind
	require.ErrorAs(t, err, &fk)
	assert.Equal(t, "shape", fk.Field)

	_, err = run(t, "", "nearest", "seg.gdv", "--dir", dir, "--after", "nope")
	require.Error(t, err)

	_, err = run(t, "", "inspect", "seg.gdv", "--minio-endpoint", "localhost:9000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--minio-bucket")
}

func TestParseAfter(t *testing.T) {
	tests := []struct {
		in      string
		want    *geodv.Hit
		wantErr bool
	}{
		{"abc:3:12.5", &geodv.Hit{Segment: "abc", Doc: 3, Distance: 12.5}, false},
		{"abc:3", nil, true},
		{"abc:x:1", nil, true},
		{"abc:1:y", nil, true},
	}
	for _, tt := range tests {
		got, err := parseAfter(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestReadWKT_Cartesian(t *testing.T) {
	b := docvalues.NewBuilder()
	n, err := readWKT(strings.NewReader("POINT(1000 -2000)\nLINESTRING(0 0, 5 5)\n"), geo.Cartesian, "shape", "xy", b)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	seg, err := b.Build()
	require.NoError(t, err)
	info, ok := seg.Field("xy")
	require.True(t, ok)
	assert.Equal(t, geo.KindCartesian, info.Kind)
	assert.Equal(t, 1, info.Docs)
}
