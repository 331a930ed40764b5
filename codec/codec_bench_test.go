package codec

import (
	"testing"
)

type benchField struct {
	Name   string `json:"name"`
	Type   uint8  `json:"type"`
	Kind   uint8  `json:"kind"`
	Docs   int    `json:"docs"`
	Values int    `json:"values"`
	Block  int    `json:"block_len"`
}

type benchCatalog struct {
	ID     string       `json:"id"`
	MaxDoc int          `json:"max_doc"`
	Fields []benchField `json:"fields"`
	Live   int          `json:"live_len"`
}

func benchCatalogValue() benchCatalog {
	return benchCatalog{
		ID:     "2f1d0e5c-7b0e-4d53-9f0a-0d7c1c3f9a11",
		MaxDoc: 1 << 20,
		Fields: []benchField{
			{Name: "area", Type: 1, Kind: 1, Docs: 900000, Values: 23400000, Block: 8100000},
			{Name: "location", Type: 2, Kind: 1, Docs: 1000000, Values: 1000000, Block: 5200000},
			{Name: "plane", Type: 1, Kind: 2, Docs: 12000, Values: 312000, Block: 180000},
			{Name: "timestamp", Type: 2, Docs: 1000000, Values: 1000000, Block: 3100000},
		},
		Live: 131080,
	}
}

func benchmarkCodecMarshal(b *testing.B, c Codec, v any) {
	b.Helper()
	b.ReportAllocs()

	warm, err := c.Marshal(v)
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(warm)))

	var sink []byte
	b.ResetTimer()
	for b.Loop() {
		out, err := c.Marshal(v)
		if err != nil {
			b.Fatal(err)
		}
		sink = out
	}
	_ = sink
}

func benchmarkCodecUnmarshal[T any](b *testing.B, c Codec, data []byte) {
	b.Helper()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))

	var v T
	b.ResetTimer()
	for b.Loop() {
		if err := c.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCodec_Marshal_Catalog(b *testing.B) {
	v := benchCatalogValue()
	b.Run("stdlib", func(b *testing.B) { benchmarkCodecMarshal(b, JSON{}, v) })
	b.Run("go-json", func(b *testing.B) { benchmarkCodecMarshal(b, GoJSON{}, v) })
}

func BenchmarkCodec_Unmarshal_Catalog(b *testing.B) {
	data := MustMarshal(JSON{}, benchCatalogValue())
	b.Run("stdlib", func(b *testing.B) { benchmarkCodecUnmarshal[benchCatalog](b, JSON{}, data) })
	b.Run("go-json", func(b *testing.B) { benchmarkCodecUnmarshal[benchCatalog](b, GoJSON{}, data) })
}
