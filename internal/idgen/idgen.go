// Package idgen mints the short random IDs that tag persistence marker rows.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// MarkerPrefix starts every marker ID so stray rows are recognizable from a
// psql session.
const MarkerPrefix = "mk-"

const (
	alphabet   = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	randomPart = 10
)

// NewMarker returns a fresh marker ID such as "mk-Xq3f9Ka2bL".
func NewMarker() (string, error) {
	id, err := nanoid.Generate(alphabet, randomPart)
	if err != nil {
		return "", fmt.Errorf("minting marker id: %w", err)
	}
	return MarkerPrefix + id, nil
}
