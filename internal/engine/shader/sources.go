// Package shader holds the engine's embedded GLSL sources and the
// uniform names the renderer binds.
package shader

import _ "embed"

// Uniform names used by the flat program.
const (
	UniformWorldViewProjection = "worldViewProjection"
	UniformDiffuseTexture      = "diffuseTexture"
)

// FlatVertexShader transforms positions by worldViewProjection.
//
//go:embed glsl/flat.vert
var FlatVertexShader string

// FlatFragmentShader samples diffuseTexture.
//
//go:embed glsl/flat.frag
var FlatFragmentShader string
