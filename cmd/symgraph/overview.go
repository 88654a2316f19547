package main

import (
	"github.com/spf13/cobra"

	"symgraph/internal/envelope"
	"symgraph/internal/query"
)

func newOverviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview [repo-id]",
		Short: "Counts, top modules and risk distribution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repoID := args[0]
			s, err := openSnapshot(repoID)
			if err != nil {
				return printErr(repoID, err)
			}
			defer s.Close()
			result, err := query.GetOverview(s)
			if err != nil {
				return printErr(repoID, err)
			}
			return printEnvelope(envelope.New(repoID, s.HasFeatures(), result))
		},
	}
}

func newModulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modules [repo-id]",
		Short: "Per-module coupling table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repoID := args[0]
			s, err := openSnapshot(repoID)
			if err != nil {
				return printErr(repoID, err)
			}
			defer s.Close()
			result, err := query.GetModules(s)
			if err != nil {
				return printErr(repoID, err)
			}
			return printEnvelope(envelope.New(repoID, s.HasFeatures(), result))
		},
	}
}

func newModuleEdgesCmd() *cobra.Command {
	var srcMod, tgtMod string
	cmd := &cobra.Command{
		Use:   "module-edges [repo-id]",
		Short: "Inter-module edges, or function-level detail between two modules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repoID := args[0]
			s, err := openSnapshot(repoID)
			if err != nil {
				return printErr(repoID, err)
			}
			defer s.Close()

			if srcMod != "" && tgtMod != "" {
				result, err := query.GetModuleEdgesDetail(s, srcMod, tgtMod)
				if err != nil {
					return printErr(repoID, err)
				}
				return printEnvelope(envelope.New(repoID, s.HasFeatures(), result))
			}
			result, err := query.GetModuleEdges(s)
			if err != nil {
				return printErr(repoID, err)
			}
			return printEnvelope(envelope.New(repoID, s.HasFeatures(), result))
		},
	}
	cmd.Flags().StringVar(&srcMod, "src-module", "", "source module for function-level detail")
	cmd.Flags().StringVar(&tgtMod, "tgt-module", "", "target module for function-level detail")
	return cmd
}

func newModuleGraphCmd() *cobra.Command {
	var depth int
	cmd := &cobra.Command{
		Use:   "module-graph [repo-id]",
		Short: "Rolled-up modules with coupling and inter-module edges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repoID := args[0]
			s, err := openSnapshot(repoID)
			if err != nil {
				return printErr(repoID, err)
			}
			defer s.Close()
			result, err := query.GetModuleGraph(s, depth)
			if err != nil {
				return printErr(repoID, err)
			}
			return printEnvelope(envelope.New(repoID, s.HasFeatures(), result))
		},
	}
	cmd.Flags().IntVar(&depth, "depth", 0, "cap to the busiest N modules (0 = unlimited)")
	return cmd
}
