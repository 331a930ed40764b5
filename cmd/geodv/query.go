package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"

	"github.com/hupe1980/geodv"
)

type queryFlags struct {
	field     string
	relation  string
	cartesian bool
	points    bool
	count     bool
}

func newQueryCmd(cctx *cliContext) *cobra.Command {
	var f queryFlags
	cmd := &cobra.Command{
		Use:   "query <wkt> <segment>...",
		Short: "find documents by spatial relation",
		Long: `
Match the documents whose shape relates to the query geometry. With --points
the field is a point field and a document matches when one of its points lies
inside the geometry.
`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, cctx, &f, args[0], args[1:])
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&f.field, "field", "shape", "field to query")
	flags.StringVarP(&f.relation, "relation", "r", "intersects", "intersects, within, disjoint or contains")
	flags.BoolVar(&f.cartesian, "cartesian", false, "the field holds cartesian x/y coordinates")
	flags.BoolVar(&f.points, "points", false, "query a point field instead of a shape field")
	flags.BoolVarP(&f.count, "count", "c", false, "print only the number of matches")
	return cmd
}

func buildQuery(f *queryFlags, text string) (geodv.Query, error) {
	g, err := wkt.Unmarshal(text)
	if err != nil {
		return nil, fmt.Errorf("query geometry: %w", err)
	}
	enc := encodingFor(f.cartesian)
	if f.points {
		return geodv.NewGeomPointQuery(f.field, enc, g)
	}
	rel, err := geodv.ParseRelation(f.relation)
	if err != nil {
		return nil, err
	}
	geoms := []geom.T{g}
	if c, ok := g.(*geom.GeometryCollection); ok {
		geoms = c.Geoms()
	}
	return geodv.NewGeomShapeQuery(f.field, enc, rel, geoms...)
}

func runQuery(cmd *cobra.Command, cctx *cliContext, f *queryFlags, text string, names []string) error {
	q, err := buildQuery(f, text)
	if err != nil {
		return err
	}
	s, err := cctx.openSearcher(cmd, names)
	if err != nil {
		return err
	}
	defer s.Close()

	res, err := s.Match(cmd.Context(), q)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if f.count {
		if cctx.json {
			return cctx.printJSON(out, struct {
				Count int `json:"count"`
			}{res.Count()})
		}
		fmt.Fprintln(out, res.Count())
		return nil
	}

	type segmentDocs struct {
		Segment string   `json:"segment"`
		Docs    []uint32 `json:"docs"`
	}
	rows := make([]segmentDocs, 0, len(res.Segments))
	for _, m := range res.Segments {
		rows = append(rows, segmentDocs{Segment: m.Segment, Docs: m.Docs.ToArray()})
	}
	if cctx.json {
		return cctx.printJSON(out, rows)
	}
	for _, r := range rows {
		docs := make([]string, len(r.Docs))
		for i, d := range r.Docs {
			docs[i] = fmt.Sprint(d)
		}
		fmt.Fprintf(out, "%s\t%s\n", r.Segment, strings.Join(docs, " "))
	}
	return nil
}
