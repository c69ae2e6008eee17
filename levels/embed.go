// Package levels embeds the tile maps the game starts from when the store
// has none.
package levels

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed *.json
var LevelsFS embed.FS

// Default is the level used when no name is given.
const Default = "default.json"

// Load returns the raw tile buffer JSON of an embedded level.
func Load(name string) (string, error) {
	if name == "" {
		name = Default
	}
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return "", fmt.Errorf("levels: read %s: %w", name, err)
	}
	return string(data), nil
}
