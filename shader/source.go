package shader

import "strings"

// Macros substituted in shader files.
const (
	MacroVersion   = "$B_SHADER_VERSION"
	MacroMaxLights = "$B_SHADER_MAX_LIGHTS"
)

// File extensions of hand-written shader sources.
const (
	VertexExt   = ".vert"
	FragmentExt = ".frag"
)

// Preprocess substitutes the version and light count macros in a
// hand-written shader source. An embedded dialect also gets a default
// float precision after the version directive.
func Preprocess(src string, d Dialect, maxLights uint) string {
	version := Directive(d)
	if d.ES && strings.Contains(src, MacroVersion) && !strings.Contains(src, "precision ") {
		version += "\nprecision mediump float;"
	}
	return strings.NewReplacer(
		MacroVersion, version,
		MacroMaxLights, LightUniform("", maxLights),
	).Replace(src)
}
