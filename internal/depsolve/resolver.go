package depsolve

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Resolver finds the transitive runtime-library closure of a set of binaries.
type Resolver interface {
	// Resolve returns a mapping from logical library name to resolved file
	// path covering every dependency of the root binaries plus the extras,
	// located by walking searchPath in order. Roots are assumed to be
	// already-resolved files and do not appear in the result.
	Resolve(ctx context.Context, roots, extras, searchPath []string) (map[string]string, error)
}

// UnresolvedLibraryError reports a required library that exists in no search
// directory. The resolver never substitutes a default for a missing library.
type UnresolvedLibraryError struct {
	// Name is the logical library name that could not be located.
	Name string
	// SearchPath lists the directories that were searched, in order.
	SearchPath []string
}

// Error names the missing library and the searched directories.
func (e *UnresolvedLibraryError) Error() string {
	return fmt.Sprintf("library %s not found in search path %v", e.Name, e.SearchPath)
}

// PEResolver resolves dependency closures by reading PE import tables.
type PEResolver struct {
	// importsOf reads the imported library names of one binary.
	// Tests substitute a stub so no real PE files are needed.
	importsOf func(path string) ([]string, error)
	// skip holds lower-cased library names never bundled into the installer.
	skip map[string]struct{}
}

var _ Resolver = (*PEResolver)(nil)

// NewPEResolver returns a resolver reading real PE import tables and
// skipping the built-in Windows system library set.
func NewPEResolver() *PEResolver {
	return &PEResolver{
		importsOf: peImports,
		skip:      systemLibraries(),
	}
}

// pending is one binary whose import table still awaits expansion.
type pending struct {
	name string
	path string
}

// Resolve walks the import closure breadth-first. Imports of each binary are
// expanded in sorted order so the traversal, and therefore any resolution
// error, is identical across runs and machines.
func (r *PEResolver) Resolve(ctx context.Context, roots, extras, searchPath []string) (map[string]string, error) {
	resolved := make(map[string]string)
	expanded := make(map[string]struct{})

	queue := make([]pending, 0, len(roots)+len(extras))
	for _, root := range roots {
		queue = append(queue, pending{name: filepath.Base(root), path: root})
	}

	// Extras are resolved unconditionally, whether or not anything imports them.
	for _, name := range extras {
		path, err := r.locate(name, searchPath)
		if err != nil {
			return nil, err
		}

		resolved[name] = path
		queue = append(queue, pending{name: name, path: path})
	}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		item := queue[0]
		queue = queue[1:]

		key := strings.ToLower(item.name)
		if _, done := expanded[key]; done {
			continue
		}

		expanded[key] = struct{}{}

		imports, err := r.importsOf(item.path)
		if err != nil {
			return nil, fmt.Errorf("read imports of %s: %w", item.path, err)
		}

		sort.Strings(imports)

		for _, dep := range imports {
			depKey := strings.ToLower(dep)
			if _, system := r.skip[depKey]; system || isSystemFamily(depKey) {
				continue
			}

			if _, done := expanded[depKey]; done {
				continue
			}

			if _, found := resolved[dep]; found {
				continue
			}

			path, err := r.locate(dep, searchPath)
			if err != nil {
				return nil, err
			}

			resolved[dep] = path
			queue = append(queue, pending{name: dep, path: path})
		}
	}

	return resolved, nil
}

// locate walks the search path in order and returns the first existing file
// matching the library name, trying the lower-case spelling as well.
func (r *PEResolver) locate(name string, searchPath []string) (string, error) {
	candidates := []string{name}
	if lower := strings.ToLower(name); lower != name {
		candidates = append(candidates, lower)
	}

	for _, dir := range searchPath {
		for _, candidate := range candidates {
			full := filepath.Join(dir, candidate)
			if info, err := os.Stat(full); err == nil && !info.IsDir() {
				return full, nil
			}
		}
	}

	return "", &UnresolvedLibraryError{Name: name, SearchPath: searchPath}
}

// isSystemFamily matches the versioned API-set DLL families that ship with
// Windows and are never bundled.
func isSystemFamily(lower string) bool {
	return strings.HasPrefix(lower, "api-ms-win-") || strings.HasPrefix(lower, "ext-ms-")
}

// systemLibraries returns the lower-cased names of libraries provided by the
// operating system.
func systemLibraries() map[string]struct{} {
	names := []string{
		"advapi32.dll", "bcrypt.dll", "comctl32.dll", "comdlg32.dll",
		"crypt32.dll", "d3d11.dll", "d3d9.dll", "dnsapi.dll", "dwmapi.dll",
		"dxgi.dll", "gdi32.dll", "imm32.dll", "iphlpapi.dll", "kernel32.dll",
		"mpr.dll", "msvcrt.dll", "ncrypt.dll", "netapi32.dll", "ntdll.dll",
		"ole32.dll", "oleaut32.dll", "opengl32.dll", "rpcrt4.dll",
		"secur32.dll", "setupapi.dll", "shell32.dll", "shlwapi.dll",
		"user32.dll", "userenv.dll", "uxtheme.dll", "version.dll",
		"winmm.dll", "wldap32.dll", "ws2_32.dll", "wtsapi32.dll",
	}

	skip := make(map[string]struct{}, len(names))
	for _, name := range names {
		skip[name] = struct{}{}
	}

	return skip
}
