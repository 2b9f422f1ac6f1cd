package cmd

import (
	"context"
	"io"
	"os"

	"github.com/nchapman/prefetch/internal/config"
	"github.com/nchapman/prefetch/internal/hf"
	"github.com/nchapman/prefetch/internal/logs"
	"github.com/nchapman/prefetch/internal/provision"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "prefetch",
	Short: "Pre-download embedding models before first use",
	Long: `Prefetch downloads the embedding models the application needs into the
local Hugging Face cache, so the first real request does not wait on a
download. Models already cached are skipped.

Failed downloads are reported but never fail the command; those models are
fetched on first use instead.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logs.InitLogger(os.Stderr, verbose)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		runProvision(cmd.Context(), cfg, cmd.OutOrStdout())
		return nil
	},
}

func runProvision(ctx context.Context, cfg *config.Config, out io.Writer) provision.RunSummary {
	loader := hf.NewLoader(hf.NewClient(cfg), cfg.Cache.HubDir)
	cache := provision.StaticCache{
		Local: cfg.Cache.LocalDir,
		Hub:   cfg.Cache.HubDir,
	}
	return provision.New(modelSpecs(cfg), cache, loader, out).Run(ctx)
}

func modelSpecs(cfg *config.Config) []provision.ModelSpec {
	specs := make([]provision.ModelSpec, 0, len(cfg.Models))
	for _, m := range cfg.Models {
		specs = append(specs, provision.ModelSpec{
			Task:        m.Task,
			Model:       m.Model,
			DType:       m.DType,
			Description: m.Description,
		})
	}
	return specs
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}
