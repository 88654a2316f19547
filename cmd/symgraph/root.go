package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"symgraph/internal/appconfig"
	"symgraph/internal/envelope"
	"symgraph/internal/logging"
	"symgraph/internal/snapshot"
)

var (
	flagConfigPath string
	flagRepoRoot   string
	cfg            appconfig.Config
	logger         *logging.Logger
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "symgraph",
		Short: "Call graph analytics over an indexed repository snapshot",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := appconfig.Load(flagConfigPath)
			if err != nil {
				return err
			}
			cfg = loaded
			logger = logging.NewLogger(logging.Config{
				Format: cfg.LogFormatValue(),
				Level:  cfg.LogLevelValue(),
				Output: os.Stderr,
			})
			return nil
		},
	}
	root.PersistentFlags().StringVar(&flagConfigPath, "config", "", "path to symgraph.toml")
	root.PersistentFlags().StringVar(&flagRepoRoot, "repo-root", ".", "repository root containing .symgraph/")

	root.AddCommand(
		newEnrichCmd(),
		newOverviewCmd(),
		newModulesCmd(),
		newModuleEdgesCmd(),
		newGraphCmd(),
		newNodeDetailCmd(),
		newBlastRadiusCmd(),
		newDeadCodeCmd(),
		newCentralityCmd(),
		newCyclesCmd(),
		newCommunitiesCmd(),
		newLoadBearingCmd(),
		newModuleGraphCmd(),
		newDiffCmd(),
		newPivotCmd(),
		newPatternsCmd(),
		newTriageCmd(),
	)
	return root
}

func openSnapshot(repoID string) (*snapshot.Snapshot, error) {
	return snapshot.Open(repoID, flagRepoRoot, logger.WithRepo(repoID))
}

func printEnvelope(resp envelope.Response) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func printErr(repoID string, err error) error {
	_ = printEnvelope(envelope.Err(repoID, err.Error()))
	return err
}
