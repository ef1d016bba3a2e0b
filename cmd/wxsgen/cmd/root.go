package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wixtools/wixgen/internal/config"
	"github.com/wixtools/wixgen/internal/logger"
	"github.com/wixtools/wixgen/internal/service/generator"
	"github.com/wixtools/wixgen/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// outputPath overrides the default .wxst → .wxs output location.
	outputPath string

	// logLevel selects the logging verbosity.
	logLevel string

	// rootCmd represents the base command for generating installer documents.
	rootCmd = &cobra.Command{
		Use:   "wxsgen <template.wxst> <artifact>...",
		Short: "Generate a merged installer document from a template and built artifacts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if lvl, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(lvl)
			}

			options := &generator.Options{
				ConfigPath: configPath,
				OutputPath: outputPath,
				Sources:    args,
			}

			return generator.Run(ctx, options)
		},
	}

	// scanCmd lists the source files a template refers to, one per line, so
	// build orchestration can track them as generation dependencies.
	scanCmd = &cobra.Command{
		Use:   "scan <template.wxst>",
		Short: "List the source files a template refers to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := generator.Scan(args[0])
			if err != nil {
				return err
			}

			for _, source := range sources {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), source)
			}

			return nil
		},
	}
)

// Execute runs the wxsgen CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)
	rootCmd.AddCommand(scanCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output document path (defaults to the template path with a .wxs suffix)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "logging level (debug, info, warn, error, fatal)")
}
