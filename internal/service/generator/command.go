package generator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/wixtools/wixgen/internal/config"
	"github.com/wixtools/wixgen/internal/depsolve"
	"github.com/wixtools/wixgen/internal/logger"
	"github.com/wixtools/wixgen/internal/wix"
)

// Options contains inputs for the wxsgen entry point.
type Options struct {
	// ConfigPath is the path to the generation settings YAML.
	ConfigPath string
	// OutputPath is where the merged document is written. When empty, the
	// template path with its suffix swapped to .wxs is used.
	OutputPath string
	// Sources is the full build-step input list: exactly one .wxst template
	// plus any number of binaries and auxiliary files.
	Sources []string
}

const (
	// templateSuffix marks the installer-definition template among the inputs.
	templateSuffix = ".wxst"
	// outputSuffix is the suffix of the merged document.
	outputSuffix = ".wxs"
)

var (
	// errNoTemplate is returned when the input list carries no template file.
	errNoTemplate = errors.New("exactly one .wxst template must be supplied")
	// errTooManyTemplates is returned when the input list carries several templates.
	errTooManyTemplates = errors.New("too many .wxst template files")
)

// generator turns a template plus built artifacts into a merged document.
type generator struct {
	// cfg holds search path, extra libraries, metadata and routing.
	cfg *config.Config
	// resolver finds the transitive runtime-library closure.
	resolver depsolve.Resolver
}

// inputs is the classified build-step input list.
type inputs struct {
	// template is the single .wxst file.
	template string
	// binaries are the .exe/.dll files whose dependencies must be resolved.
	binaries []string
	// aux are static files installed as-is.
	aux []string
}

// Run executes the generation workflow.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "wxsgen")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	gen := &generator{
		cfg:      cfg,
		resolver: depsolve.NewPEResolver(),
	}

	if err = gen.run(ctx, opts); err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	return nil
}

// Scan lists the source files the hand-written template refers to, for
// build-dependency tracking by the surrounding orchestration.
func Scan(templatePath string) ([]string, error) {
	tpl, err := wix.Load(templatePath)
	if err != nil {
		return nil, err
	}

	return tpl.Sources(), nil
}

// run classifies the inputs, resolves the dependency closure, merges the
// document and writes it once.
func (g *generator) run(ctx context.Context, opts *Options) error {
	in, err := classify(opts.Sources)
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Resolving dependency closure",
		"binaries", len(in.binaries), "extra_dlls", len(g.cfg.ExtraDLLs))

	closure, err := g.resolver.Resolve(ctx, in.binaries, g.cfg.ExtraDLLs, g.cfg.SearchPath)
	if err != nil {
		return fmt.Errorf("resolve dependencies: %w", err)
	}

	artifacts := assemble(in, closure)

	tpl, err := wix.Load(in.template)
	if err != nil {
		return err
	}

	merged, err := wix.Merge(tpl, wix.Metadata(g.cfg.Metadata), artifacts, wix.Routing(g.cfg.Routing))
	if err != nil {
		return err
	}

	output := opts.OutputPath
	if output == "" {
		output = strings.TrimSuffix(in.template, templateSuffix) + outputSuffix
	}

	if err = merged.WriteFile(output); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Generated installer document",
		"path", output, "components", len(artifacts))

	return nil
}

// classify splits the build-step inputs into the single template, the
// binaries handed to the resolver, and the auxiliary files.
func classify(sources []string) (*inputs, error) {
	in := new(inputs)

	for _, source := range sources {
		switch {
		case strings.HasSuffix(source, templateSuffix):
			if in.template != "" {
				return nil, errTooManyTemplates
			}

			in.template = source
		case strings.HasSuffix(source, ".exe"), strings.HasSuffix(source, ".dll"):
			in.binaries = append(in.binaries, source)
		default:
			in.aux = append(in.aux, source)
		}
	}

	if in.template == "" {
		return nil, errNoTemplate
	}

	return in, nil
}

// assemble produces the ordered artifact list: binaries first, then the
// dependency closure sorted by library name, then auxiliary files.
func assemble(in *inputs, closure map[string]string) []wix.Artifact {
	names := make([]string, 0, len(closure))
	for name := range closure {
		names = append(names, name)
	}

	sort.Strings(names)

	artifacts := make([]wix.Artifact, 0, len(in.binaries)+len(names)+len(in.aux))

	for _, binary := range in.binaries {
		artifacts = append(artifacts, wix.NewArtifact(binary))
	}

	for _, name := range names {
		artifacts = append(artifacts, wix.NewArtifact(closure[name]))
	}

	for _, aux := range in.aux {
		artifacts = append(artifacts, wix.NewArtifact(aux))
	}

	return artifacts
}
