package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/framequiz/internal/config"
	"github.com/abhisek/framequiz/internal/logger"
	"github.com/abhisek/framequiz/internal/store"
)

var (
	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "framequiz",
	Short:         "Personality quiz that recommends a web framework",
	Long:          "framequiz serves LLM-generated multiple-choice questions that help you pick a web development framework.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd == versionCmd {
			return nil
		}

		configFile, _ := cmd.Flags().GetString("config")
		verbose, _ := cmd.Flags().GetBool("verbose")

		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return err
		}

		log, err = logger.New(cfg.IsDevelopment(), verbose)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		if log != nil {
			log.Error("command failed", zap.Error(err))
			_ = log.Sync()
		}
		return fmt.Errorf("%s: %w", rootCmd.Name(), err)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite request log (overrides store.path)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the request log path using --db (highest priority),
// then store.path, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.Store.Path != "" {
		return cfg.Store.Path, store.EnsureDir(cfg.Store.Path)
	}
	return store.DefaultDBPath()
}
