package main

import (
	"github.com/spf13/cobra"

	"symgraph/internal/envelope"
	"symgraph/internal/query"
)

func newDiffCmd() *cobra.Command {
	var mode string
	var maxContext, maxNodes int
	cmd := &cobra.Command{
		Use:   "diff [repo-id-a] [repo-id-b]",
		Short: "Structural diff between two snapshots: summary, subgraph, or status map",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			repoA, repoB := args[0], args[1]
			a, err := openSnapshot(repoA)
			if err != nil {
				return printErr(repoA, err)
			}
			defer a.Close()
			b, err := openSnapshot(repoB)
			if err != nil {
				return printErr(repoB, err)
			}
			defer b.Close()

			switch mode {
			case "graph":
				result, err := query.GetDiffGraph(a, b, maxContext, maxNodes)
				if err != nil {
					return printErr(repoA, err)
				}
				return printEnvelope(envelope.New(repoA, a.HasFeatures(), result))
			case "status-map":
				result, err := query.GetDiffStatusMap(a, b)
				if err != nil {
					return printErr(repoA, err)
				}
				return printEnvelope(envelope.New(repoA, a.HasFeatures(), result))
			default:
				result, err := query.GetDiff(a, b)
				if err != nil {
					return printErr(repoA, err)
				}
				return printEnvelope(envelope.New(repoA, a.HasFeatures(), result))
			}
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "summary", "summary|graph|status-map")
	cmd.Flags().IntVar(&maxContext, "max-context", 10, "top-K neighbor context per changed node")
	cmd.Flags().IntVar(&maxNodes, "max-nodes", 500, "total node cap for the diff subgraph")
	return cmd
}
