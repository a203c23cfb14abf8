package content

import (
	"embed"
	"io/fs"
)

//go:embed starter/blog/*.md starter/projects/*.md
var starterFiles embed.FS

// Starter returns the bundled sample content rooted at blog/ and projects/.
func Starter() fs.FS {
	sub, err := fs.Sub(starterFiles, "starter")
	if err != nil {
		panic(err)
	}
	return sub
}
