// Package assets bundles the narrative timelines shipped with the binary.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed narrative/*.yaml
var narrative embed.FS

// Narrative returns the bundled timelines rooted at the narrative directory.
func Narrative() fs.FS {
	sub, err := fs.Sub(narrative, "narrative")
	if err != nil {
		panic(err)
	}
	return sub
}
