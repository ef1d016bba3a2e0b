package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields and defaulting for Config.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Nil config.
	require.Error(t, Validate(nil))

	// Missing version.
	cfg := new(Config)

	err := Validate(cfg)
	require.Error(t, err)

	// Version present, compiler defaulted.
	cfg = &Config{
		Metadata: map[string]string{"version": "1.2.3"},
	}

	err = Validate(cfg)
	require.NoError(t, err)
	require.Equal(t, DefaultCompiler, cfg.Compiler)

	// Explicit compiler survives validation.
	cfg.Compiler = "wixl-heavy"
	require.NoError(t, Validate(cfg))
	require.Equal(t, "wixl-heavy", cfg.Compiler)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "wixgen.yaml")

	cfg := &Config{
		SearchPath: []string{"/usr/x86_64-w64-mingw32/bin", "deps/bin"},
		ExtraDLLs:  []string{"libwinpthread-1.dll"},
		Metadata:   map[string]string{"version": "2.3.1"},
		Routing:    map[string]string{"qwindows.dll": "qt-platforms-dir"},
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.SearchPath, loaded.SearchPath)
	require.Equal(t, cfg.ExtraDLLs, loaded.ExtraDLLs)
	require.Equal(t, cfg.Metadata, loaded.Metadata)
	require.Equal(t, cfg.Routing, loaded.Routing)
	require.Equal(t, DefaultCompiler, loaded.Compiler)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

// TestLoadMissingFile surfaces the read error instead of inventing defaults.
func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
