package main

import (
	"strings"

	"github.com/spf13/cobra"

	"symgraph/internal/envelope"
	"symgraph/internal/pivot"
	"symgraph/internal/query"
	"symgraph/internal/snapshot"
)

func newPivotCmd() *cobra.Command {
	var dims, measures, kinds []string
	var compareTo string
	cmd := &cobra.Command{
		Use:   "pivot [repo-id]",
		Short: "Multi-dimensional pivot query over per-symbol feature vectors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repoID := args[0]
			s, err := openSnapshot(repoID)
			if err != nil {
				return printErr(repoID, err)
			}
			defer s.Close()

			var cmp *snapshot.Snapshot
			if compareTo != "" {
				cmp, err = openSnapshot(compareTo)
				if err != nil {
					return printErr(repoID, err)
				}
				defer cmp.Close()
			}

			req := pivot.Request{Dimensions: splitCSV(dims), Measures: splitCSV(measures), Kinds: splitCSV(kinds)}
			result, err := query.GetPivot(s, req, cmp)
			if err != nil {
				return printErr(repoID, err)
			}
			return printEnvelope(envelope.New(repoID, s.HasFeatures(), result))
		},
	}
	cmd.Flags().StringSliceVar(&dims, "dimensions", nil, "dimension tokens, e.g. module,risk:quartile")
	cmd.Flags().StringSliceVar(&measures, "measures", nil, "measure tokens, e.g. symbol_count,complexity:avg")
	cmd.Flags().StringSliceVar(&kinds, "kinds", nil, "restrict to these node kinds")
	cmd.Flags().StringVar(&compareTo, "compare-to", "", "repo id to diff-overlay against")
	return cmd
}

func splitCSV(parts []string) []string {
	var out []string
	for _, p := range parts {
		for _, s := range strings.Split(p, ",") {
			s = strings.TrimSpace(s)
			if s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
