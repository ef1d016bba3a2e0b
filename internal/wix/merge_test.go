package wix

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/require"
)

// templateXML is a minimal well-formed template carrying every required anchor.
const templateXML = `<?xml version="1.0" encoding="utf-8"?>
<Wix xmlns="http://schemas.microsoft.com/wix/2006/wi">
  <Product Id="*" Name="Ibex" Language="1033" Manufacturer="Example Co" UpgradeCode="12345678-1234-1234-1234-123456789012">
    <Package InstallerVersion="200" Compressed="yes"/>
    <Directory Id="TARGETDIR" Name="SourceDir">
      <Directory Id="ProgramFilesFolder">
        <Directory Id="INSTALLDIR" Name="Ibex">
          <Directory Id="qt-platforms-dir" Name="platforms"/>
        </Directory>
      </Directory>
    </Directory>
    <DirectoryRef Id="INSTALLDIR"/>
    <DirectoryRef Id="qt-platforms-dir"/>
    <Feature Id="MainFeature" Title="Ibex" Level="1"/>
  </Product>
</Wix>`

// mustParse parses the fixture template.
func mustParse(t *testing.T, xml string) *Document {
	t.Helper()

	doc, err := Parse([]byte(xml))
	require.NoError(t, err)

	return doc
}

// childTags lists the tags of an element's direct children.
func childTags(el *etree.Element) []string {
	var out []string
	for _, child := range el.ChildElements() {
		out = append(out, child.Tag)
	}

	return out
}

// TestMergeScenario covers the full merge: two artifacts under the
// application anchor, the platform plugin under the platforms anchor, one
// feature reference each, and the stamped version.
func TestMergeScenario(t *testing.T) {
	t.Parallel()

	tpl := mustParse(t, templateXML)
	artifacts := []Artifact{
		NewArtifact("build/app.exe"),
		NewArtifact("build/helper.dll"),
		NewArtifact("/mingw/plugins/platforms/qwindows.dll"),
	}

	merged, err := Merge(tpl, Metadata{"version": "2.3.1"}, artifacts, nil)
	require.NoError(t, err)

	appDir, err := merged.uniqueWithAttr(tagDirectoryRef, "Id", AppDirID)
	require.NoError(t, err)
	require.Equal(t, []string{tagComponent, tagComponent}, childTags(appDir))

	platformDir, err := merged.uniqueWithAttr(tagDirectoryRef, "Id", PlatformDirID)
	require.NoError(t, err)
	require.Equal(t, []string{tagComponent}, childTags(platformDir))

	// Input order is preserved under the application anchor.
	components := appDir.ChildElements()
	require.Equal(t, "app.exe", components[0].SelectAttrValue("Id", ""))
	require.Equal(t, "helper.dll", components[1].SelectAttrValue("Id", ""))

	// Component carries the deterministic identity and the File element
	// carries the fixed disk index, the source path and the key-path flag.
	first := components[0]
	require.Equal(t, NewIdentity("app.exe").GUID.String(), first.SelectAttrValue("Guid", ""))

	file := first.ChildElements()[0]
	require.Equal(t, tagFile, file.Tag)
	require.Equal(t, "app.exe", file.SelectAttrValue("Id", ""))
	require.Equal(t, "app.exe", file.SelectAttrValue("Name", ""))
	require.Equal(t, "1", file.SelectAttrValue("DiskId", ""))
	require.Equal(t, "build/app.exe", file.SelectAttrValue("Source", ""))
	require.Equal(t, "yes", file.SelectAttrValue("KeyPath", ""))

	// Exactly one ComponentRef per artifact, in input order.
	feature, err := merged.unique(tagFeature)
	require.NoError(t, err)

	var refs []string
	for _, ref := range feature.ChildElements() {
		require.Equal(t, tagComponentRef, ref.Tag)
		refs = append(refs, ref.SelectAttrValue("Id", ""))
	}

	require.Equal(t, []string{"app.exe", "helper.dll", "qwindows.dll"}, refs)
}

// TestMergeStampsMetadata checks the version lands as the Version attribute
// while the author's other Product attributes stay untouched.
func TestMergeStampsMetadata(t *testing.T) {
	t.Parallel()

	tpl := mustParse(t, templateXML)

	merged, err := Merge(tpl, Metadata{"version": "2.3.1"}, nil, nil)
	require.NoError(t, err)

	product, err := merged.unique(tagProduct)
	require.NoError(t, err)
	require.Equal(t, "2.3.1", product.SelectAttrValue("Version", ""))
	require.Equal(t, "Ibex", product.SelectAttrValue("Name", ""))
	require.Equal(t, "Example Co", product.SelectAttrValue("Manufacturer", ""))
}

// TestMergeLeavesInputUntouched verifies the immutable-input contract:
// the parsed template gains no components from a merge.
func TestMergeLeavesInputUntouched(t *testing.T) {
	t.Parallel()

	tpl := mustParse(t, templateXML)

	_, err := Merge(tpl, Metadata{"version": "1.0.0"}, []Artifact{NewArtifact("app.exe")}, nil)
	require.NoError(t, err)

	require.Empty(t, tpl.elements(tagComponent))

	product, err := tpl.unique(tagProduct)
	require.NoError(t, err)
	require.Empty(t, product.SelectAttrValue("Version", ""))
}

// TestMergeDuplicateIdentity rejects two artifacts sharing a base name even
// when their source paths differ, and produces no document.
func TestMergeDuplicateIdentity(t *testing.T) {
	t.Parallel()

	tpl := mustParse(t, templateXML)
	artifacts := []Artifact{
		NewArtifact("build/a.dll"),
		NewArtifact("deps/a.dll"),
	}

	merged, err := Merge(tpl, Metadata{"version": "1.0.0"}, artifacts, nil)
	require.Nil(t, merged)

	var dup *DuplicateArtifactError

	require.ErrorAs(t, err, &dup)
	require.Equal(t, "a.dll", dup.Base)
}

// TestMergeAnchorViolations fails generation when a required anchor is
// missing or duplicated, before any output exists.
func TestMergeAnchorViolations(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		xml  string
		tag  string
		want int
	}{
		"no application anchor": {
			xml: `<Wix xmlns="http://schemas.microsoft.com/wix/2006/wi">
  <Product Id="*" Name="x">
    <DirectoryRef Id="qt-platforms-dir"/>
    <Feature Id="f"/>
  </Product>
</Wix>`,
			tag:  tagDirectoryRef,
			want: 0,
		},
		"two application anchors": {
			xml: `<Wix xmlns="http://schemas.microsoft.com/wix/2006/wi">
  <Product Id="*" Name="x">
    <DirectoryRef Id="INSTALLDIR"/>
    <DirectoryRef Id="INSTALLDIR"/>
    <DirectoryRef Id="qt-platforms-dir"/>
    <Feature Id="f"/>
  </Product>
</Wix>`,
			tag:  tagDirectoryRef,
			want: 2,
		},
		"no feature": {
			xml: `<Wix xmlns="http://schemas.microsoft.com/wix/2006/wi">
  <Product Id="*" Name="x">
    <DirectoryRef Id="INSTALLDIR"/>
    <DirectoryRef Id="qt-platforms-dir"/>
  </Product>
</Wix>`,
			tag:  tagFeature,
			want: 0,
		},
		"no product": {
			xml: `<Wix xmlns="http://schemas.microsoft.com/wix/2006/wi">
  <Fragment>
    <DirectoryRef Id="INSTALLDIR"/>
    <DirectoryRef Id="qt-platforms-dir"/>
    <Feature Id="f"/>
  </Fragment>
</Wix>`,
			tag:  tagProduct,
			want: 0,
		},
	}

	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			tpl := mustParse(t, tc.xml)

			merged, err := Merge(tpl, Metadata{"version": "1.0.0"}, nil, nil)
			require.Nil(t, merged)

			var structural *StructuralError

			require.ErrorAs(t, err, &structural)
			require.Equal(t, tc.tag, structural.Tag)
			require.Equal(t, tc.want, structural.Count)
		})
	}
}

// TestMergeRoutingTable honors a configured routing rule and still defaults
// unlisted names to the application anchor regardless of input position.
func TestMergeRoutingTable(t *testing.T) {
	t.Parallel()

	tpl := mustParse(t, templateXML)
	routing := Routing{"helper.dll": PlatformDirID}
	artifacts := []Artifact{
		NewArtifact("qwindows.dll"),
		NewArtifact("helper.dll"),
		NewArtifact("app.exe"),
	}

	merged, err := Merge(tpl, Metadata{"version": "1.0.0"}, artifacts, routing)
	require.NoError(t, err)

	appDir, err := merged.uniqueWithAttr(tagDirectoryRef, "Id", AppDirID)
	require.NoError(t, err)

	platformDir, err := merged.uniqueWithAttr(tagDirectoryRef, "Id", PlatformDirID)
	require.NoError(t, err)

	// With the custom table, qwindows.dll is no longer special-cased.
	require.Equal(t, "qwindows.dll", appDir.ChildElements()[0].SelectAttrValue("Id", ""))
	require.Equal(t, "app.exe", appDir.ChildElements()[1].SelectAttrValue("Id", ""))
	require.Equal(t, "helper.dll", platformDir.ChildElements()[0].SelectAttrValue("Id", ""))
}

// TestMergeRoutingToUnknownAnchor fails when the routing table names an
// anchor the template does not declare.
func TestMergeRoutingToUnknownAnchor(t *testing.T) {
	t.Parallel()

	tpl := mustParse(t, templateXML)
	routing := Routing{"helper.dll": "missing-dir"}

	_, err := Merge(tpl, Metadata{"version": "1.0.0"}, []Artifact{NewArtifact("helper.dll")}, routing)

	var structural *StructuralError

	require.ErrorAs(t, err, &structural)
	require.Equal(t, "missing-dir", structural.Value)
}
