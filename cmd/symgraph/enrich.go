package main

import (
	"context"

	"github.com/spf13/cobra"

	"symgraph/internal/enrich"
	"symgraph/internal/snapshot"
)

func newEnrichCmd() *cobra.Command {
	var resolution float64
	cmd := &cobra.Command{
		Use:   "enrich [repo-id]",
		Short: "Run the enrichment pipeline over the raw snapshot and publish a derived one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repoID := args[0]
			repoLogger := logger.WithRepo(repoID).WithOp("enrich")
			s, err := snapshot.Open(repoID, flagRepoRoot, repoLogger)
			if err != nil {
				return err
			}
			nodes, err := s.Nodes(snapshot.Filters{IncludeExternal: true})
			if err != nil {
				s.Close()
				return err
			}
			edges, err := s.Edges(snapshot.Filters{IncludeExternal: true})
			if err != nil {
				s.Close()
				return err
			}
			s.Close()

			features, runID, err := enrich.Run(context.Background(), nodes, edges, enrich.Options{Resolution: resolution}, repoLogger)
			if err != nil {
				return err
			}
			repoLogger.Info("enrichment complete", map[string]interface{}{
				"run_id": runID, "node_count": len(features),
			})
			return snapshot.WriteDerived(flagRepoRoot, repoID, repoLogger, features)
		},
	}
	cmd.Flags().Float64Var(&resolution, "resolution", 1.0, "Louvain resolution parameter")
	return cmd
}
