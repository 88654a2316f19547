package main

import (
	"github.com/spf13/cobra"

	"symgraph/internal/envelope"
	"symgraph/internal/query"
)

func newDeadCodeCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "dead-code [repo-id]",
		Short: "Classify zero-caller internal nodes as safe/review/caution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repoID := args[0]
			s, err := openSnapshot(repoID)
			if err != nil {
				return printErr(repoID, err)
			}
			defer s.Close()
			result, err := query.GetDeadCode(s, limit)
			if err != nil {
				return printErr(repoID, err)
			}
			return printEnvelope(envelope.New(repoID, s.HasFeatures(), result))
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "cap nodes per file group (0 = unlimited)")
	return cmd
}

func newCentralityCmd() *cobra.Command {
	var topN int
	cmd := &cobra.Command{
		Use:   "centrality [repo-id]",
		Short: "Ranked nodes by betweenness (exact) or in-degree proxy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repoID := args[0]
			s, err := openSnapshot(repoID)
			if err != nil {
				return printErr(repoID, err)
			}
			defer s.Close()
			result, err := query.GetCentrality(s, topN)
			if err != nil {
				return printErr(repoID, err)
			}
			return printEnvelope(envelope.New(repoID, s.HasFeatures(), result))
		},
	}
	cmd.Flags().IntVar(&topN, "top-n", 20, "number of ranked nodes to return")
	return cmd
}

func newCyclesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cycles [repo-id]",
		Short: "Annotated strongly connected components of size >= 2",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repoID := args[0]
			s, err := openSnapshot(repoID)
			if err != nil {
				return printErr(repoID, err)
			}
			defer s.Close()
			result, err := query.GetCycles(s)
			if err != nil {
				return printErr(repoID, err)
			}
			return printEnvelope(envelope.New(repoID, s.HasFeatures(), result))
		},
	}
}

func newCommunitiesCmd() *cobra.Command {
	var resolution float64
	cmd := &cobra.Command{
		Use:   "communities [repo-id]",
		Short: "Louvain communities, inter-community edges and misalignment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repoID := args[0]
			s, err := openSnapshot(repoID)
			if err != nil {
				return printErr(repoID, err)
			}
			defer s.Close()
			result, err := query.GetCommunities(s, resolution)
			if err != nil {
				return printErr(repoID, err)
			}
			return printEnvelope(envelope.New(repoID, s.HasFeatures(), result))
		},
	}
	cmd.Flags().Float64Var(&resolution, "resolution", 1.0, "Louvain resolution parameter")
	return cmd
}

func newLoadBearingCmd() *cobra.Command {
	var threshold int
	var declareHash string
	cmd := &cobra.Command{
		Use:   "load-bearing [repo-id]",
		Short: "Declared vs. unexpected load-bearing nodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repoID := args[0]
			if declareHash != "" {
				if err := query.DeclareLoadBearing(repoID, flagRepoRoot, declareHash); err != nil {
					return printErr(repoID, err)
				}
				return printEnvelope(envelope.New(repoID, false, map[string]string{"declared": declareHash}))
			}
			s, err := openSnapshot(repoID)
			if err != nil {
				return printErr(repoID, err)
			}
			defer s.Close()
			result, err := query.GetLoadBearing(s, flagRepoRoot, threshold)
			if err != nil {
				return printErr(repoID, err)
			}
			return printEnvelope(envelope.New(repoID, s.HasFeatures(), result))
		},
	}
	cmd.Flags().IntVar(&threshold, "threshold", 3, "minimum distinct external-module callers")
	cmd.Flags().StringVar(&declareHash, "declare", "", "add this hash to declared_nodes and exit")
	return cmd
}

func newTriageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "triage [repo-id]",
		Short: "Severity-ranked issue list from load-bearing, coupling, cycles and dead code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repoID := args[0]
			s, err := openSnapshot(repoID)
			if err != nil {
				return printErr(repoID, err)
			}
			defer s.Close()
			result, err := query.GetTriage(s, flagRepoRoot)
			if err != nil {
				return printErr(repoID, err)
			}
			return printEnvelope(envelope.New(repoID, s.HasFeatures(), result))
		},
	}
}

func newPatternsCmd() *cobra.Command {
	var minConfidence float64
	cmd := &cobra.Command{
		Use:   "patterns [repo-id]",
		Short: "Detected structural design patterns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repoID := args[0]
			s, err := openSnapshot(repoID)
			if err != nil {
				return printErr(repoID, err)
			}
			defer s.Close()
			result, err := query.GetPatterns(s, minConfidence)
			if err != nil {
				return printErr(repoID, err)
			}
			return printEnvelope(envelope.New(repoID, s.HasFeatures(), result))
		},
	}
	cmd.Flags().Float64Var(&minConfidence, "min-confidence", 0.5, "confidence floor")
	return cmd
}
