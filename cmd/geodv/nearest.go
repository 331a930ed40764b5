package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/geodv"
)

type nearestFlags struct {
	field       string
	cartesian   bool
	lat, lon    float64
	x, y        float64
	n           int
	filter      string
	filterField string
	after       string
}

func newNearestCmd(cctx *cliContext) *cobra.Command {
	var f nearestFlags
	cmd := &cobra.Command{
		Use:   "nearest <segment>...",
		Short: "find the documents closest to a point",
		Long: `
Sort the documents of a point field by distance to an origin and print the
first n. Geographic distances are in meters. Pass the last printed hit as
--after to fetch the next page.
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNearest(cmd, cctx, &f, args)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&f.field, "field", "point", "point field to sort by")
	flags.BoolVar(&f.cartesian, "cartesian", false, "the field holds cartesian x/y coordinates")
	flags.Float64Var(&f.lat, "lat", 0, "origin latitude")
	flags.Float64Var(&f.lon, "lon", 0, "origin longitude")
	flags.Float64Var(&f.x, "x", 0, "origin x (with --cartesian)")
	flags.Float64Var(&f.y, "y", 0, "origin y (with --cartesian)")
	flags.IntVarP(&f.n, "n", "n", 10, "number of hits")
	flags.StringVar(&f.filter, "filter", "", "only consider documents whose shape intersects this WKT geometry")
	flags.StringVar(&f.filterField, "filter-field", "shape", "shape field the filter applies to")
	flags.StringVar(&f.after, "after", "", "continue after <segment>:<doc>:<distance>")
	return cmd
}

func parseAfter(s string) (*geodv.Hit, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("--after: want <segment>:<doc>:<distance>, got %q", s)
	}
	doc, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, fmt.Errorf("--after: bad document %q", parts[1])
	}
	dist, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return nil, fmt.Errorf("--after: bad distance %q", parts[2])
	}
	return &geodv.Hit{Segment: parts[0], Doc: doc, Distance: dist}, nil
}

func (f *nearestFlags) request() (geodv.NearestRequest, error) {
	req := geodv.NearestLatLon(f.field, f.lat, f.lon, f.n)
	if f.cartesian {
		req = geodv.NearestXY(f.field, f.x, f.y, f.n)
	}
	if f.filter != "" {
		q, err := buildQuery(&queryFlags{field: f.filterField, relation: "intersects", cartesian: f.cartesian}, f.filter)
		if err != nil {
			return req, err
		}
		req.Filter = q
	}
	if f.after != "" {
		after, err := parseAfter(f.after)
		if err != nil {
			return req, err
		}
		req.After = after
	}
	return req, nil
}

func runNearest(cmd *cobra.Command, cctx *cliContext, f *nearestFlags, names []string) error {
	req, err := f.request()
	if err != nil {
		return err
	}
	s, err := cctx.openSearcher(cmd, names)
	if err != nil {
		return err
	}
	defer s.Close()

	hits, err := s.Nearest(cmd.Context(), req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if cctx.json {
		type hit struct {
			Segment  string  `json:"segment"`
			Doc      int     `json:"doc"`
			Distance float64 `json:"distance"`
		}
		rows := make([]hit, len(hits))
		for i, h := range hits {
			rows[i] = hit(h)
		}
		return cctx.printJSON(out, rows)
	}
	for _, h := range hits {
		fmt.Fprintf(out, "%s:%d:%s\n", h.Segment, h.Doc, strconv.FormatFloat(h.Distance, 'g', -1, 64))
	}
	return nil
}
