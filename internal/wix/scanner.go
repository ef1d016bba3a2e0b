package wix

import "path"

// sourceRootPrefix reanchors template-relative paths at the conventional
// source root, two directory levels above the build output location.
const sourceRootPrefix = "../.."

// Sources lists the Source path of every File element already present in the
// hand-written template, in document order. Build orchestration feeds the
// result into its dependency tracking so edits to those files retrigger
// generation.
//
// Paths that are not slash-rooted are reinterpreted relative to the
// conventional source root; absolute paths pass through unchanged. No
// existence checks are performed.
func (d *Document) Sources() []string {
	var out []string

	for _, file := range d.elements(tagFile) {
		source := file.SelectAttrValue("Source", "")
		if source == "" {
			continue
		}

		if !path.IsAbs(source) {
			source = path.Join(sourceRootPrefix, source)
		}

		out = append(out, source)
	}

	return out
}
