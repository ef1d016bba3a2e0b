// Package wix implements the installer-document core: a typed view over a
// WiX template, deterministic component identity derivation, the merge that
// appends one Component and one ComponentRef per installed artifact, and the
// scanner that lists the source files a hand-written template refers to.
//
// The template is an ordered XML tree in the WiX 2006 namespace. The merge
// never edits its input: it copies the parsed tree, verifies the anchor
// invariants (exactly one Product, one application DirectoryRef, one
// platform-plugin DirectoryRef, one Feature), and returns a new document, so
// a failed generation can never leave a half-edited result behind.
package wix
