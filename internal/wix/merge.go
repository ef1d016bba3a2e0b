package wix

import (
	"fmt"
	"path/filepath"
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/beevik/etree"
)

// diskID is the fixed installer media index stamped on every generated File.
const diskID = "1"

// Artifact is one file to be installed.
type Artifact struct {
	// Source is the build-time location the installer compiler reads from.
	Source string
	// Base is the file's base name. It doubles as the component identifier
	// and the installed display name.
	Base string
}

// NewArtifact builds an Artifact from a source path.
func NewArtifact(source string) Artifact {
	return Artifact{Source: source, Base: filepath.Base(source)}
}

// Metadata maps product-level attributes stamped onto the Product element.
// Keys are lower-case ("version"); the stamped attribute name upper-cases
// the first rune ("Version").
type Metadata map[string]string

// Routing maps artifact base names to the DirectoryRef anchor they install
// under. Names absent from the table install into the application folder.
type Routing map[string]string

// DefaultRouting returns the built-in routing table: the Qt windows platform
// plugin must live in the platforms subfolder, everything else goes to the
// application folder.
func DefaultRouting() Routing {
	return Routing{"qwindows.dll": PlatformDirID}
}

// anchorFor returns the DirectoryRef id the base name installs under.
func (r Routing) anchorFor(base string) string {
	if id, ok := r[base]; ok {
		return id
	}

	return AppDirID
}

// DuplicateArtifactError reports two artifacts sharing one base name. The
// base name is the component identifier, and the target format rejects
// duplicated identifiers, so the whole generation fails.
type DuplicateArtifactError struct {
	// Base is the colliding base name.
	Base string
}

// Error names the colliding identity.
func (e *DuplicateArtifactError) Error() string {
	return fmt.Sprintf("duplicate component identity %q: artifact base names must be unique", e.Base)
}

// Merge returns a copy of the template document extended with one Component
// (holding one File) per artifact under its routed directory anchor, one
// ComponentRef per artifact under the feature, and the metadata stamped onto
// the Product element. The input document is left untouched and generated
// elements keep the artifact input order.
//
// A nil routing table selects DefaultRouting.
func Merge(tpl *Document, meta Metadata, artifacts []Artifact, routing Routing) (*Document, error) {
	if routing == nil {
		routing = DefaultRouting()
	}

	out := tpl.clone()

	product, err := out.unique(tagProduct)
	if err != nil {
		return nil, err
	}

	feature, err := out.unique(tagFeature)
	if err != nil {
		return nil, err
	}

	// Both conventional anchors are invariants of the template shape and are
	// verified up front, even when no artifact routes to one of them.
	anchors := map[string]*etree.Element{}
	for _, id := range []string{AppDirID, PlatformDirID} {
		anchor, err := out.uniqueWithAttr(tagDirectoryRef, "Id", id)
		if err != nil {
			return nil, err
		}

		anchors[id] = anchor
	}

	stampMetadata(product, meta)

	seen := make(map[string]struct{}, len(artifacts))

	for _, artifact := range artifacts {
		if _, dup := seen[artifact.Base]; dup {
			return nil, &DuplicateArtifactError{Base: artifact.Base}
		}

		seen[artifact.Base] = struct{}{}

		anchorID := routing.anchorFor(artifact.Base)

		anchor, ok := anchors[anchorID]
		if !ok {
			// Routing tables may name further anchors beyond the two
			// conventional ones; those are resolved on first use.
			anchor, err = out.uniqueWithAttr(tagDirectoryRef, "Id", anchorID)
			if err != nil {
				return nil, err
			}

			anchors[anchorID] = anchor
		}

		appendComponent(anchor, feature, artifact)
	}

	return out, nil
}

// stampMetadata sets one Product attribute per metadata entry,
// in sorted key order so repeated runs serialize identically.
func stampMetadata(product *etree.Element, meta Metadata) {
	keys := make([]string, 0, len(meta))
	for key := range meta {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		product.CreateAttr(attrName(key), meta[key])
	}
}

// attrName turns a lower-case metadata key into its attribute spelling.
func attrName(key string) string {
	r, size := utf8.DecodeRuneInString(key)
	if size == 0 {
		return key
	}

	return string(unicode.ToUpper(r)) + key[size:]
}

// appendComponent adds the Component/File pair under the directory anchor
// and the matching ComponentRef under the feature.
func appendComponent(anchor, feature *etree.Element, artifact Artifact) {
	identity := NewIdentity(artifact.Base)

	component := anchor.CreateElement(tagComponent)
	component.CreateAttr("Id", identity.ID)
	component.CreateAttr("Guid", identity.GUID.String())

	file := component.CreateElement(tagFile)
	file.CreateAttr("Id", identity.ID)
	file.CreateAttr("Name", artifact.Base)
	file.CreateAttr("DiskId", diskID)
	file.CreateAttr("Source", artifact.Source)
	file.CreateAttr("KeyPath", "yes")

	ref := feature.CreateElement(tagComponentRef)
	ref.CreateAttr("Id", identity.ID)
}
