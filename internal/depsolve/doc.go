// Package depsolve finds the transitive closure of runtime libraries a set
// of built binaries needs at install time.
//
// The generator only depends on the Resolver interface; PEResolver is the
// bundled implementation, which walks PE import tables against an ordered
// search path. Well-known Windows system libraries are excluded from the
// closure since the installer never bundles them, and any other library that
// cannot be located fails the resolution outright.
package depsolve
