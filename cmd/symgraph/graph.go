package main

import (
	"github.com/spf13/cobra"

	"symgraph/internal/envelope"
	"symgraph/internal/query"
)

func newGraphCmd() *cobra.Command {
	var module string
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "graph [repo-id]",
		Short: "Nodes and edges subgraph, optionally filtered to a module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repoID := args[0]
			s, err := openSnapshot(repoID)
			if err != nil {
				return printErr(repoID, err)
			}
			defer s.Close()
			result, err := query.GetGraph(s, module, limit, offset)
			if err != nil {
				return printErr(repoID, err)
			}
			return printEnvelope(envelope.New(repoID, s.HasFeatures(), result))
		},
	}
	cmd.Flags().StringVar(&module, "module", "", "restrict to one module")
	cmd.Flags().IntVar(&limit, "limit", 0, "max nodes returned (0 = unlimited)")
	cmd.Flags().IntVar(&offset, "offset", 0, "pagination offset")
	return cmd
}

func newNodeDetailCmd() *cobra.Command {
	var hash string
	cmd := &cobra.Command{
		Use:   "node-detail [repo-id]",
		Short: "A node plus its direct callers and callees",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repoID := args[0]
			s, err := openSnapshot(repoID)
			if err != nil {
				return printErr(repoID, err)
			}
			defer s.Close()
			result, err := query.GetNodeDetail(s, hash)
			if err != nil {
				return printErr(repoID, err)
			}
			return printEnvelope(envelope.New(repoID, s.HasFeatures(), result))
		},
	}
	cmd.Flags().StringVar(&hash, "hash", "", "target node hash")
	cmd.MarkFlagRequired("hash")
	return cmd
}

func newBlastRadiusCmd() *cobra.Command {
	var hash string
	var maxDepth int
	cmd := &cobra.Command{
		Use:   "blast-radius [repo-id]",
		Short: "BFS upstream from a target node over reverse adjacency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repoID := args[0]
			s, err := openSnapshot(repoID)
			if err != nil {
				return printErr(repoID, err)
			}
			defer s.Close()
			result, err := query.GetBlastRadius(s, hash, maxDepth)
			if err != nil {
				return printErr(repoID, err)
			}
			return printEnvelope(envelope.New(repoID, s.HasFeatures(), result))
		},
	}
	cmd.Flags().StringVar(&hash, "hash", "", "target node hash")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 5, "maximum BFS depth")
	cmd.MarkFlagRequired("hash")
	return cmd
}
