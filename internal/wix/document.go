package wix

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/beevik/etree"
)

// Namespace is the WiX installer namespace all template elements live in.
const Namespace = "http://schemas.microsoft.com/wix/2006/wi"

const (
	// AppDirID is the anchor DirectoryRef holding the application files.
	AppDirID = "INSTALLDIR"
	// PlatformDirID is the anchor DirectoryRef holding Qt platform plugins.
	PlatformDirID = "qt-platforms-dir"

	tagProduct      = "Product"
	tagDirectoryRef = "DirectoryRef"
	tagFeature      = "Feature"
	tagComponent    = "Component"
	tagComponentRef = "ComponentRef"
	tagFile         = "File"

	// DefaultFilePermissions is used when writing generated documents.
	DefaultFilePermissions = 0o644
)

// Document is a parsed installer-definition document.
type Document struct {
	tree *etree.Document
}

// Load parses the template document at path.
func Load(path string) (*Document, error) {
	tree := etree.NewDocument()
	if err := tree.ReadFromFile(filepath.Clean(path)); err != nil {
		return nil, fmt.Errorf("parse template %s: %w", path, err)
	}

	return &Document{tree: tree}, nil
}

// Parse parses a template document from raw bytes.
func Parse(data []byte) (*Document, error) {
	tree := etree.NewDocument()
	if err := tree.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	return &Document{tree: tree}, nil
}

// Bytes serializes the document.
func (d *Document) Bytes() ([]byte, error) {
	data, err := d.tree.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serialize document: %w", err)
	}

	return data, nil
}

// WriteFile serializes the document and writes it to path in one shot.
func (d *Document) WriteFile(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write document: %w", err)
	}

	return nil
}

// clone returns a deep copy of the document so merges never touch their input.
func (d *Document) clone() *Document {
	return &Document{tree: d.tree.Copy()}
}

// StructuralError reports a template whose required anchors are missing or
// duplicated. Ambiguous anchors cannot be resolved silently, so generation
// stops before producing any output.
type StructuralError struct {
	// Tag is the local element name the query looked for.
	Tag string
	// Attr and Value narrow the query to one identifying attribute, if any.
	Attr  string
	Value string
	// Count is the number of matching elements actually found.
	Count int
}

// Error renders the violated invariant with the observed element count.
func (e *StructuralError) Error() string {
	if e.Attr != "" {
		return fmt.Sprintf("template must have exactly one <%s %s=%q> element, found %d",
			e.Tag, e.Attr, e.Value, e.Count)
	}

	return fmt.Sprintf("template must have exactly one <%s> element, found %d", e.Tag, e.Count)
}

// elements collects every element in document order whose local tag matches.
// Matching ignores the namespace prefix: the template carries a single fixed
// namespace, so local names are unambiguous whether it is declared as the
// default namespace or bound to a prefix.
func (d *Document) elements(tag string) []*etree.Element {
	var out []*etree.Element

	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		if el.Tag == tag {
			out = append(out, el)
		}

		for _, child := range el.ChildElements() {
			walk(child)
		}
	}

	if root := d.tree.Root(); root != nil {
		walk(root)
	}

	return out
}

// unique returns the single element with the given local tag,
// or a StructuralError when the template has zero or several.
func (d *Document) unique(tag string) (*etree.Element, error) {
	elems := d.elements(tag)
	if len(elems) != 1 {
		return nil, &StructuralError{Tag: tag, Count: len(elems)}
	}

	return elems[0], nil
}

// uniqueWithAttr returns the single element with the given local tag carrying
// attr=value, or a StructuralError when the template has zero or several.
func (d *Document) uniqueWithAttr(tag, attr, value string) (*etree.Element, error) {
	var matched []*etree.Element

	for _, el := range d.elements(tag) {
		if el.SelectAttrValue(attr, "") == value {
			matched = append(matched, el)
		}
	}

	if len(matched) != 1 {
		return nil, &StructuralError{Tag: tag, Attr: attr, Value: value, Count: len(matched)}
	}

	return matched[0], nil
}
