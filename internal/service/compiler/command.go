package compiler

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/wixtools/wixgen/internal/config"
	"github.com/wixtools/wixgen/internal/logger"
)

// Options contains inputs for the msibuild entry point.
type Options struct {
	// ConfigPath is the path to the generation settings YAML.
	ConfigPath string
	// DocumentPath is the merged installer document handed to the compiler.
	DocumentPath string
}

// Run invokes the external installer compiler with the document as its sole
// argument. Compiler failures are surfaced verbatim and never retried; the
// build orchestration owns any retry policy.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "msibuild")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Compiling installer image",
		"compiler", cfg.Compiler, "document", opts.DocumentPath)

	cmd := exec.CommandContext(ctx, cfg.Compiler, opts.DocumentPath)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err = cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w", cfg.Compiler, opts.DocumentPath, err)
	}

	return nil
}
