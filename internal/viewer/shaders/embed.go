// Package shaders provides the embedded GLSL sources of the model viewer.
package shaders

import "embed"

// Names of the built-in model program sources within FS.
const (
	ModelVertex   = "model.vert"
	ModelFragment = "model.frag"
)

// FS holds the built-in shader sources.
//
//go:embed model.vert model.frag
var FS embed.FS
