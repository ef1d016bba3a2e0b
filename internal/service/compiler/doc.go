// Package compiler implements the msibuild workflow: handing a merged
// installer document to the external installer compiler (wixl by default)
// to produce the final installer image.
package compiler
