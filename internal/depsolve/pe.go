package depsolve

import (
	"debug/pe"
	"fmt"
	"sort"
	"strings"
)

// peImports reads the imported library names from a PE binary.
//
// debug/pe does not implement ImportedLibraries, so the names are derived
// from the "symbol:library" pairs returned by ImportedSymbols.
func peImports(path string) ([]string, error) {
	f, err := pe.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open PE file: %w", err)
	}

	defer func() {
		_ = f.Close()
	}()

	symbols, err := f.ImportedSymbols()
	if err != nil {
		return nil, fmt.Errorf("read import table: %w", err)
	}

	set := make(map[string]struct{})

	for _, symbol := range symbols {
		if i := strings.LastIndex(symbol, ":"); i >= 0 && i+1 < len(symbol) {
			set[symbol[i+1:]] = struct{}{}
		}
	}

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}

	sort.Strings(names)

	return names, nil
}
