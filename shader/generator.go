package shader

import (
	"fmt"
	"strings"
)

// Source is a vertex/fragment program pair.
type Source struct {
	Vertex   string
	Fragment string
}

// Generate builds a shader program for the given features. It is pure: the
// same input always yields byte-identical output.
func Generate(f Features, d Dialect) Source {
	g := generator{f: f, d: d}
	return Source{
		Vertex:   g.vertex(),
		Fragment: g.fragment(),
	}
}

type generator struct {
	f Features
	d Dialect
	b strings.Builder
}

func (g *generator) line(format string, args ...any) {
	if len(args) == 0 {
		g.b.WriteString(format)
	} else {
		fmt.Fprintf(&g.b, format, args...)
	}
	g.b.WriteByte('\n')
}

func (g *generator) header() {
	g.line("%s", Directive(g.d))
	if g.d.ES {
		g.line("precision mediump float;")
	}
	g.line("")
}

func (g *generator) attribute() string {
	if legacy(g.d) {
		return "attribute"
	}
	return "in"
}

func (g *generator) varyingOut() string {
	if legacy(g.d) {
		return "varying"
	}
	return "out"
}

func (g *generator) varyingIn() string {
	if legacy(g.d) {
		return "varying"
	}
	return "in"
}

func (g *generator) sample(sampler string) string {
	fn := "texture"
	if legacy(g.d) {
		fn = "texture2D"
	}
	return fmt.Sprintf("%s(%s, texCoordVarying.st)", fn, sampler)
}

func (g *generator) openGate(i uint) {
	if g.f.gated() {
		g.line("    if (%s >= %d.0) {", NumLights, i+1)
	}
}

func (g *generator) closeGate() {
	if g.f.gated() {
		g.line("    }")
	}
}

func (g *generator) vertex() string {
	f := g.f
	g.b.Reset()
	g.header()

	g.line("uniform mat4 %s;", ModelViewMatrix)
	g.line("uniform mat4 %s;", ProjectionMatrix)
	if f.gated() {
		g.line("uniform float %s;", NumLights)
	}
	if f.lit() {
		for i := uint(0); i < f.MaxLights; i++ {
			g.line("uniform vec4 %s;", LightUniform(LightPositionViewSpace, i))
			g.line("uniform float %s;", LightUniform(LightIntensity, i))
			g.line("uniform float %s;", LightUniform(LightAttenuation, i))
			g.line("uniform float %s;", LightUniform(LightRadius, i))
			g.line("%s vec3 lightVector%s_%d;", g.varyingOut(), f.space(), i)
			g.line("%s float intensityBasedOnDist_%d;", g.varyingOut(), i)
		}
	}
	g.line("")

	g.line("%s vec4 %s;", g.attribute(), AttribPosition)
	if f.lit() {
		g.line("%s vec3 %s;", g.attribute(), AttribNormal)
	}
	if f.tangentSpace() {
		g.line("%s vec3 %s;", g.attribute(), AttribTangent)
		g.line("%s vec3 %s;", g.attribute(), AttribBitangent)
	}
	if f.textured() {
		g.line("%s vec4 %s;", g.attribute(), AttribTexCoord)
		g.line("%s vec4 texCoordVarying;", g.varyingOut())
	}
	if f.lit() && !f.tangentSpace() {
		g.line("%s vec3 normalVaryingViewSpace;", g.varyingOut())
	}
	if f.specular() {
		g.line("%s vec3 surfaceToCamera%s;", g.varyingOut(), f.space())
	}
	g.line("")

	g.line("void main() {")
	g.line("    vec4 posViewSpace = %s * %s;", ModelViewMatrix, AttribPosition)
	if f.textured() {
		g.line("    texCoordVarying = %s;", AttribTexCoord)
	}
	if f.lit() {
		g.line("    float lightDistance = 0.0;")
		if f.tangentSpace() {
			g.line("    mat3 normalMatrix = mat3(%s);", ModelViewMatrix)
			g.line("    vec3 normalViewSpace = normalize(normalMatrix * %s);", AttribNormal)
			g.line("    vec3 tangentViewSpace = normalize(normalMatrix * %s);", AttribTangent)
			g.line("    vec3 bitangentViewSpace = normalize(normalMatrix * %s);", AttribBitangent)
			g.line("    mat3 TBN = mat3(tangentViewSpace.x, bitangentViewSpace.x, normalViewSpace.x,")
			g.line("                    tangentViewSpace.y, bitangentViewSpace.y, normalViewSpace.y,")
			g.line("                    tangentViewSpace.z, bitangentViewSpace.z, normalViewSpace.z);")
		} else {
			g.line("    normalVaryingViewSpace = mat3(%s) * %s;", ModelViewMatrix, AttribNormal)
		}
	}
	if f.specular() {
		if f.tangentSpace() {
			g.line("    surfaceToCameraTangentSpace = TBN * -posViewSpace.xyz;")
		} else {
			g.line("    surfaceToCameraViewSpace = -posViewSpace.xyz;")
		}
	}
	if f.lit() {
		for i := uint(0); i < f.MaxLights; i++ {
			g.vertexLight(i)
		}
	}
	g.line("    gl_Position = %s * posViewSpace;", ProjectionMatrix)
	g.line("}")
	return g.b.String()
}

func (g *generator) vertexLight(i uint) {
	f := g.f
	pos := LightUniform(LightPositionViewSpace, i)
	g.openGate(i)
	if f.tangentSpace() {
		g.line("    lightVectorTangentSpace_%d = TBN * (%s.xyz - posViewSpace.xyz);", i, pos)
	} else {
		g.line("    lightVectorViewSpace_%d = %s.xyz - posViewSpace.xyz;", i, pos)
	}
	g.line("    lightDistance = distance(posViewSpace, %s);", pos)
	g.line("    intensityBasedOnDist_%d = 0.0;", i)
	g.line("    if (lightDistance <= %s) {", LightUniform(LightRadius, i))
	g.line("        intensityBasedOnDist_%d = clamp(%s / (%s * lightDistance * lightDistance), 0.0, 1.0);",
		i, LightUniform(LightIntensity, i), LightUniform(LightAttenuation, i))
	g.line("    }")
	g.closeGate()
}

func (g *generator) fragment() string {
	f := g.f
	g.b.Reset()
	g.header()

	if f.gated() {
		g.line("uniform float %s;", NumLights)
	}
	if f.Ambient {
		g.line("uniform vec3 %s;", AmbientColor)
		if f.AmbientColor {
			g.line("uniform vec3 %s;", KeyAmbientColor)
		}
	}
	if f.DiffuseColor {
		g.line("uniform vec3 %s;", KeyDiffuseColor)
	}
	if f.specular() {
		if f.SpecularColor {
			g.line("uniform vec3 %s;", KeySpecularColor)
		}
		g.line("uniform float %s;", KeySpecularExponent)
	}
	if f.TransparencyValue {
		g.line("uniform float %s;", Transparency)
	}
	if f.DiffuseMap {
		g.line("uniform sampler2D %s;", DiffuseMap)
	}
	if f.tangentSpace() {
		g.line("uniform sampler2D %s;", NormalMap)
	}
	if f.specular() && f.SpecularMap {
		g.line("uniform sampler2D %s;", SpecularMap)
	}
	if f.Text {
		g.line("uniform sampler2D %s;", CharacterMap)
	}
	if f.lit() {
		for i := uint(0); i < f.MaxLights; i++ {
			if f.Diffuse {
				g.line("uniform vec3 %s;", LightUniform(LightDiffuseColor, i))
			}
			if f.specular() {
				g.line("uniform vec3 %s;", LightUniform(LightSpecularColor, i))
			}
			g.line("%s vec3 lightVector%s_%d;", g.varyingIn(), f.space(), i)
			g.line("%s float intensityBasedOnDist_%d;", g.varyingIn(), i)
		}
	}
	if f.textured() {
		g.line("%s vec4 texCoordVarying;", g.varyingIn())
	}
	if f.lit() && !f.tangentSpace() {
		g.line("%s vec3 normalVaryingViewSpace;", g.varyingIn())
	}
	if f.specular() {
		g.line("%s vec3 surfaceToCamera%s;", g.varyingIn(), f.space())
	}
	out := "gl_FragColor"
	if !legacy(g.d) {
		out = "fragColor"
		g.line("out vec4 fragColor;")
	}
	g.line("")

	g.line("void main() {")
	if f.Ambient {
		if f.AmbientColor {
			g.line("    vec4 ambient = vec4(clamp(%s * %s, 0.0, 1.0), 0.0);", AmbientColor, KeyAmbientColor)
		} else {
			g.line("    vec4 ambient = vec4(clamp(%s, 0.0, 1.0), 0.0);", AmbientColor)
		}
	}
	alpha := "1.0"
	if f.TransparencyValue {
		alpha = Transparency
	}
	if f.lit() && f.Diffuse {
		g.line("    vec4 diffuse = vec4(0.0, 0.0, 0.0, %s);", alpha)
	} else {
		g.line("    vec4 diffuse = vec4(1.0, 1.0, 1.0, %s);", alpha)
	}
	if f.Specular {
		g.line("    vec4 specular = vec4(0.0, 0.0, 0.0, 0.0);")
	}
	if f.lit() {
		g.line("    float intensity = 0.0;")
		if f.tangentSpace() {
			g.line("    vec3 surfaceNormal = normalize(%s.xyz * 2.0 - 1.0);", g.sample(NormalMap))
		} else {
			g.line("    vec3 surfaceNormal = normalize(normalVaryingViewSpace);")
		}
	}
	if f.specular() {
		g.line("    float specularCoefficient = 0.0;")
		g.line("    vec3 surfaceToCamera = normalize(surfaceToCamera%s);", f.space())
	}
	if f.lit() {
		for i := uint(0); i < f.MaxLights; i++ {
			g.fragmentLight(i)
		}
	}

	if f.DiffuseColor {
		g.line("    diffuse = diffuse * vec4(%s, 1.0);", KeyDiffuseColor)
	}
	if f.DiffuseMap {
		g.line("    diffuse = diffuse * %s;", g.sample(DiffuseMap))
	}
	if f.specular() && f.SpecularColor {
		g.line("    specular = specular * vec4(%s, 0.0);", KeySpecularColor)
	}
	if f.specular() && f.SpecularMap {
		g.line("    specular = specular * %s;", g.sample(SpecularMap))
	}

	terms := make([]string, 0, 3)
	if f.Ambient {
		terms = append(terms, "ambient")
	}
	terms = append(terms, "diffuse")
	if f.Specular {
		terms = append(terms, "specular")
	}
	g.line("    %s = clamp(%s, 0.0, 1.0);", out, strings.Join(terms, " + "))
	if f.Text {
		g.line("    %s.a *= %s.r;", out, g.sample(CharacterMap))
	}
	g.line("}")
	return g.b.String()
}

func (g *generator) fragmentLight(i uint) {
	f := g.f
	lightVector := fmt.Sprintf("lightVector%s_%d", f.space(), i)
	g.openGate(i)
	g.line("    intensity = max(dot(surfaceNormal, normalize(%s)), 0.0);", lightVector)
	g.line("    if (intensityBasedOnDist_%d > 0.0 && intensity > 0.0) {", i)
	if f.Diffuse {
		g.line("        diffuse += vec4(%s * (intensity * intensityBasedOnDist_%d), 0.0);",
			LightUniform(LightDiffuseColor, i), i)
	}
	if f.specular() {
		g.line("        specularCoefficient = pow(max(0.0, dot(surfaceToCamera, reflect(-normalize(%s), surfaceNormal))), %s);",
			lightVector, KeySpecularExponent)
		g.line("        specular += vec4(%s * (specularCoefficient * intensity * intensityBasedOnDist_%d), 0.0);",
			LightUniform(LightSpecularColor, i), i)
	}
	g.line("    }")
	g.closeGate()
}
