package shader

import "strconv"

// Uniform names shared between generated shaders and the draw-time binder.
const (
	ModelMatrix      = "ModelMatrix"
	ViewMatrix       = "ViewMatrix"
	ModelViewMatrix  = "ModelViewMatrix"
	ProjectionMatrix = "ProjectionMatrix"
	NormalMatrix     = "NormalMatrix"

	NumLights    = "numLights"
	AmbientColor = "ambientColor"
	Transparency = "transparency"

	DiffuseMap   = "DiffuseMap"
	NormalMap    = "NormalMap"
	SpecularMap  = "SpecularMap"
	CharacterMap = "CharacterMap"
)

// Per-light uniform prefixes. The light index is appended, see LightUniform.
const (
	LightPositionViewSpace = "lightPositionViewSpace_"
	LightIntensity         = "lightIntensity_"
	LightAttenuation       = "lightAttenuation_"
	LightRadius            = "lightRadius_"
	LightDiffuseColor      = "lightDiffuseColor_"
	LightSpecularColor     = "lightSpecularColor_"
)

// Wavefront material keys, used unchanged as uniform names.
const (
	KeyAmbientColor     = "Ka"
	KeyDiffuseColor     = "Kd"
	KeySpecularColor    = "Ks"
	KeySpecularExponent = "Ns"
)

// Vertex attribute names.
const (
	AttribPosition  = "Position"
	AttribNormal    = "Normal"
	AttribTangent   = "Tangent"
	AttribBitangent = "Bitangent"
	AttribTexCoord  = "TexCoord"
)

// LightUniform returns the uniform name for light slot i, e.g. "lightIntensity_2".
func LightUniform(prefix string, i uint) string {
	return prefix + strconv.FormatUint(uint64(i), 10)
}
