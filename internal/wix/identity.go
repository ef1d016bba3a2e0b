package wix

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"
)

// Identity is the stable installer identity of one component.
//
// Both fields are pure functions of the artifact's base name, so repeated
// generation runs on any machine assign the same identity to the same file.
// Installer upgrade and removal semantics key on GUID equality, which makes
// this stability a hard requirement rather than a convenience.
type Identity struct {
	// ID doubles as the Component and File identifier and the display name.
	ID string
	// GUID is the component's globally unique value.
	GUID uuid.UUID
}

// NewIdentity derives the component identity for an artifact base name.
// The GUID is the first 16 bytes of the SHAKE-128 digest of the name,
// reshaped into the standard UUID layout.
func NewIdentity(name string) Identity {
	var sum [16]byte

	sha3.ShakeSum128(sum[:], []byte(name))

	// FromBytes only fails on a length other than 16.
	guid, _ := uuid.FromBytes(sum[:])

	return Identity{ID: name, GUID: guid}
}
