// plancli применяет пакетные операции к программе из JSON файла без бота и базы.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"planbot/internal/config"
	"planbot/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	file     string
	logLevel string
	logger   *zap.Logger
	cfg      *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "plancli",
		Short:        "Batch edits for training programs stored as JSON",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOptional()
			if err != nil {
				return err
			}
			opts.cfg = cfg
			level := opts.logLevel
			if level == "" {
				level = cfg.LogLevel
			}
			logger, err := logging.New(level)
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				opts.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&opts.file, "file", "f", "program.json", "program JSON file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug, info, warn, error (default from LOG_LEVEL)")

	root.AddCommand(
		newApplyCmd(opts, false),
		newApplyCmd(opts, true),
		newShowCmd(opts),
		newInitCmd(opts),
		newPresetsCmd(opts),
	)
	return root
}
