// Package generator implements the wxsgen workflow: it classifies the
// build-step inputs, resolves the transitive dependency closure of the
// binaries, merges everything into the installer template, and writes the
// generated document.
//
// The whole operation is pure and deterministic: the same template, settings
// and artifact list always produce the same document, and any error aborts
// before an output file exists.
package generator
