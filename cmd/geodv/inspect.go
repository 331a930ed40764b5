package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hupe1980/geodv/docvalues"
)

func newInspectCmd(cctx *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <segment>...",
		Short: "show segment catalogs",
		Long: `
Print the identity, document counts and field catalog of each segment.
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, cctx, args)
		},
	}
}

type segmentInfo struct {
	Name    string                `json:"name"`
	Segment string                `json:"segment"`
	MaxDoc  int                   `json:"maxDoc"`
	NumDocs int                   `json:"numDocs"`
	Bytes   int64                 `json:"bytes"`
	Fields  []docvalues.FieldInfo `json:"fields"`
}

func runInspect(cmd *cobra.Command, cctx *cliContext, names []string) error {
	s, err := cctx.openSearcher(cmd, names)
	if err != nil {
		return err
	}
	defer s.Close()

	// OpenSegments keeps the order of names.
	infos := make([]segmentInfo, 0, len(names))
	for i, seg := range s.Segments() {
		infos = append(infos, segmentInfo{
			Name:    names[i],
			Segment: seg.ID(),
			MaxDoc:  seg.MaxDoc(),
			NumDocs: seg.NumDocs(),
			Bytes:   seg.Size(),
			Fields:  seg.Fields(),
		})
	}

	out := cmd.OutOrStdout()
	if cctx.json {
		return cctx.printJSON(out, infos)
	}
	tw := tabwriter.NewWriter(out, 2, 1, 2, ' ', 0)
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\tsegment %s\tdocs %d/%d\t%d bytes\n", info.Name, info.Segment, info.NumDocs, info.MaxDoc, info.Bytes)
		for _, fi := range info.Fields {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%d docs\t%d values\n", fi.Name, fi.Type, fi.Kind, fi.Docs, fi.Values)
		}
	}
	return tw.Flush()
}
