package render

import (
	"github.com/goccy/go-json"
)

// JSON serializes the tree with two-space indentation.
func JSON(t *Tree) ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}
