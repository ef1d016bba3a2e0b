package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wixtools/wixgen/internal/config"
	"github.com/wixtools/wixgen/internal/logger"
	"github.com/wixtools/wixgen/internal/service/compiler"
	"github.com/wixtools/wixgen/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// logLevel selects the logging verbosity.
	logLevel string

	// rootCmd represents the base command for compiling installer images.
	rootCmd = &cobra.Command{
		Use:   "msibuild <document.wxs>",
		Short: "Compile a merged installer document into an installer image",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if lvl, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(lvl)
			}

			options := &compiler.Options{
				ConfigPath:   configPath,
				DocumentPath: args[0],
			}

			return compiler.Run(ctx, options)
		},
	}
)

// Execute runs the msibuild CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "logging level (debug, info, warn, error, fatal)")
}
