package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"

	"github.com/hupe1980/geodv/docvalues"
	"github.com/hupe1980/geodv/geo"
)

type indexFlags struct {
	input       string
	field       string
	pointField  string
	cartesian   bool
	compression string
}

func newIndexCmd(cctx *cliContext) *cobra.Command {
	var f indexFlags
	cmd := &cobra.Command{
		Use:   "index <segment>",
		Short: "build a segment from WKT",
		Long: `
Read one geometry per line and store the result as a segment blob. A line is
either "WKT" (the document id is the line's ordinal) or "<doc><TAB>WKT".
Blank lines and lines starting with '#' are skipped.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd, cctx, &f, args[0])
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&f.input, "input", "i", "-", "WKT input file, - for stdin")
	flags.StringVar(&f.field, "field", "shape", "shape field receiving the tessellated geometries")
	flags.StringVar(&f.pointField, "point-field", "", "also store POINT geometries as encoded points in this field")
	flags.BoolVar(&f.cartesian, "cartesian", false, "treat coordinates as cartesian x/y instead of lon/lat")
	flags.StringVar(&f.compression, "compression", "zstd", "column compression: none, lz4 or zstd")
	return cmd
}

func encodingFor(cartesian bool) geo.Encoding {
	if cartesian {
		return geo.Cartesian
	}
	return geo.Geographic
}

func runIndex(cmd *cobra.Command, cctx *cliContext, f *indexFlags, name string) error {
	compression, err := docvalues.ParseCompression(f.compression)
	if err != nil {
		return err
	}

	var in io.Reader = cmd.InOrStdin()
	if f.input != "-" {
		file, err := os.Open(f.input)
		if err != nil {
			return err
		}
		defer file.Close()
		in = file
	}

	b := docvalues.NewBuilder()
	n, err := readWKT(in, encodingFor(f.cartesian), f.field, f.pointField, b)
	if err != nil {
		return err
	}
	seg, err := b.Build()
	if err != nil {
		return err
	}

	store, err := cctx.openStore(cmd.Context())
	if err != nil {
		return err
	}
	s := cctx.newSearcher(cmd.ErrOrStderr())
	defer s.Close()

	size, err := s.SaveSegment(cmd.Context(), store, name, seg, compression)
	if err != nil {
		return err
	}
	if cctx.json {
		return cctx.printJSON(cmd.OutOrStdout(), struct {
			Name      string `json:"name"`
			Segment   string `json:"segment"`
			Documents int    `json:"documents"`
			Bytes     int64  `json:"bytes"`
		}{name, seg.ID(), n, size})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (segment %s): %d documents, %d bytes\n", name, seg.ID(), n, size)
	return nil
}

// readWKT adds every geometry of r to b and returns the number of documents.
func readWKT(r io.Reader, enc geo.Encoding, field, pointField string, b *docvalues.Builder) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16<<20)

	line, ordinal, docs := 0, 0, 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		doc := ordinal
		ordinal++
		if id, rest, ok := strings.Cut(text, "\t"); ok {
			v, err := strconv.Atoi(strings.TrimSpace(id))
			if err != nil {
				return 0, fmt.Errorf("line %d: bad document id %q", line, id)
			}
			doc, text = v, strings.TrimSpace(rest)
		}

		g, err := wkt.Unmarshal(text)
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", line, err)
		}
		if err := b.AddShape(doc, field, enc, g); err != nil {
			return 0, fmt.Errorf("line %d: %w", line, err)
		}
		if p, ok := g.(*geom.Point); ok && pointField != "" {
			if err := b.AddPoint(doc, pointField, enc, p.X(), p.Y()); err != nil {
				return 0, fmt.Errorf("line %d: %w", line, err)
			}
		}
		docs++
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	return docs, nil
}
