package shader

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
)

var gateRe = regexp.MustCompile(`if \(numLights >= (\d+)\.0\) \{`)
var diffuseRe = regexp.MustCompile(`diffuse \+= vec4\(lightDiffuseColor_(\d+)`)

// contributingLights walks a fragment source the way the GPU would for a
// given numLights and returns the light slots whose diffuse term is added.
func contributingLights(t *testing.T, src string, numLights int) []int {
	t.Helper()
	var active []int
	var skipped []bool
	skipping := func() bool {
		for _, s := range skipped {
			if s {
				return true
			}
		}
		return false
	}
	for _, line := range strings.Split(src, "\n") {
		if m := gateRe.FindStringSubmatch(line); m != nil {
			n, _ := strconv.Atoi(m[1])
			skipped = append(skipped, float64(numLights) < float64(n))
			continue
		}
		if strings.HasSuffix(line, "{") {
			skipped = append(skipped, false)
		}
		if m := diffuseRe.FindStringSubmatch(line); m != nil && !skipping() {
			n, _ := strconv.Atoi(m[1])
			active = append(active, n)
		}
		if strings.TrimSpace(line) == "}" {
			if len(skipped) == 0 {
				t.Fatalf("unbalanced braces in\n%s", src)
			}
			skipped = skipped[:len(skipped)-1]
		}
	}
	return active
}

func lightFeatures(n uint, variable bool) Features {
	return Features{
		MaxLights:          n,
		VariableLightCount: variable,
		Ambient:            true,
		Diffuse:            true,
		DiffuseColor:       true,
	}
}

func TestGenerateDeterministic(t *testing.T) {
	f := Features{
		MaxLights: 3, VariableLightCount: true, Ambient: true, Diffuse: true, Specular: true,
		AmbientColor: true, DiffuseColor: true, SpecularColor: true,
		DiffuseMap: true, NormalMap: true, SpecularMap: true, TransparencyValue: true,
	}
	a := Generate(f, DefaultDesktop)
	b := Generate(f, DefaultDesktop)
	if a != b {
		t.Errorf("Generate: expected identical output for identical input")
	}
	if c := Generate(f, DefaultEmbedded); c == a {
		t.Errorf("Generate: expected dialect to change output")
	}
}

func TestGenerateNoLights(t *testing.T) {
	src := Generate(Features{Ambient: true, Diffuse: true, DiffuseColor: true, Specular: true}, DefaultDesktop)
	for _, s := range []string{src.Vertex, src.Fragment} {
		for _, forbidden := range []string{"lightPositionViewSpace_", "lightDiffuseColor_", "intensityBasedOnDist_", "numLights", "Normal"} {
			if strings.Contains(s, forbidden) {
				t.Errorf("expected no %q without lights, got\n%s", forbidden, s)
			}
		}
	}
	if !strings.Contains(src.Fragment, "vec4 diffuse = vec4(1.0, 1.0, 1.0, 1.0);") {
		t.Errorf("expected unlit diffuse base, got\n%s", src.Fragment)
	}
	if !strings.Contains(src.Fragment, "vec4 specular = vec4(0.0, 0.0, 0.0, 0.0);") {
		t.Errorf("expected zero specular term, got\n%s", src.Fragment)
	}
	if strings.Contains(src.Fragment, "specular +=") || strings.Contains(src.Fragment, "uniform float Ns") {
		t.Errorf("expected no specular accumulation without lights, got\n%s", src.Fragment)
	}
}

func TestGenerateFixedLightCount(t *testing.T) {
	src := Generate(lightFeatures(2, false), DefaultDesktop)
	if strings.Contains(src.Vertex, "numLights") || strings.Contains(src.Fragment, "numLights") {
		t.Errorf("expected no numLights gate for a fixed light count")
	}
	for i := 0; i < 2; i++ {
		name := "lightVectorViewSpace_" + strconv.Itoa(i)
		if !strings.Contains(src.Vertex, name) || !strings.Contains(src.Fragment, name) {
			t.Errorf("expected %s in both stages", name)
		}
	}
	if strings.Contains(src.Fragment, "lightDiffuseColor_2") {
		t.Errorf("expected exactly two light blocks")
	}
	if got := contributingLights(t, src.Fragment, 0); len(got) != 2 {
		t.Errorf("expected both lights to always contribute, got %v", got)
	}
}

func TestGenerateVariableLightCount(t *testing.T) {
	src := Generate(lightFeatures(4, true), DefaultDesktop)
	for i := 1; i <= 4; i++ {
		gate := "if (numLights >= " + strconv.Itoa(i) + ".0) {"
		if !strings.Contains(src.Vertex, gate) || !strings.Contains(src.Fragment, gate) {
			t.Errorf("expected gate %q in both stages", gate)
		}
	}
	for n := 0; n <= 4; n++ {
		got := contributingLights(t, src.Fragment, n)
		if len(got) != n {
			t.Fatalf("numLights=%d: expected %d contributing lights, got %v", n, n, got)
		}
		for i, slot := range got {
			if slot != i {
				t.Errorf("numLights=%d: expected slot %d, got %d", n, i, slot)
			}
		}
	}
}

func TestGenerateNormalMapSwitchesToTangentSpace(t *testing.T) {
	f := lightFeatures(1, false)
	f.NormalMap = true
	f.Specular = true
	src := Generate(f, DefaultDesktop)
	for _, want := range []string{"in vec3 Tangent;", "in vec3 Bitangent;", "mat3 TBN", "lightVectorTangentSpace_0", "surfaceToCameraTangentSpace"} {
		if !strings.Contains(src.Vertex, want) {
			t.Errorf("expected %q in vertex stage", want)
		}
	}
	if strings.Contains(src.Vertex, "lightVectorViewSpace_0") || strings.Contains(src.Fragment, "normalVaryingViewSpace") {
		t.Errorf("expected no view-space light vectors with a normal map")
	}
	if !strings.Contains(src.Fragment, "texture(NormalMap, texCoordVarying.st).xyz * 2.0 - 1.0") {
		t.Errorf("expected normal to be read from the normal map, got\n%s", src.Fragment)
	}

	f.NormalMap = false
	src = Generate(f, DefaultDesktop)
	if strings.Contains(src.Vertex, "TBN") || !strings.Contains(src.Vertex, "lightVectorViewSpace_0") {
		t.Errorf("expected view-space lighting without a normal map")
	}
}

func TestGenerateFinalization(t *testing.T) {
	f := lightFeatures(1, false)
	f.Specular = true
	f.SpecularColor = true
	f.DiffuseMap = true
	f.SpecularMap = true
	f.AmbientColor = true
	f.TransparencyValue = true
	frag := Generate(f, DefaultDesktop).Fragment
	order := []string{
		"vec4 ambient = vec4(clamp(ambientColor * Ka, 0.0, 1.0), 0.0);",
		"vec4 diffuse = vec4(0.0, 0.0, 0.0, transparency);",
		"diffuse += vec4(lightDiffuseColor_0",
		"specular += vec4(lightSpecularColor_0",
		"diffuse = diffuse * vec4(Kd, 1.0);",
		"diffuse = diffuse * texture(DiffuseMap, texCoordVarying.st);",
		"specular = specular * vec4(Ks, 0.0);",
		"specular = specular * texture(SpecularMap, texCoordVarying.st);",
		"fragColor = clamp(ambient + diffuse + specular, 0.0, 1.0);",
	}
	last := -1
	for _, s := range order {
		i := strings.Index(frag, s)
		if i < 0 {
			t.Fatalf("expected %q in\n%s", s, frag)
		}
		if i < last {
			t.Errorf("expected %q after the previous step", s)
		}
		last = i
	}
}

func TestGenerateText(t *testing.T) {
	frag := Generate(Features{Text: true}, DefaultDesktop).Fragment
	if !strings.Contains(frag, "fragColor.a *= texture(CharacterMap, texCoordVarying.st).r;") {
		t.Errorf("expected character map alpha, got\n%s", frag)
	}
}

func TestGenerateDialects(t *testing.T) {
	f := lightFeatures(1, true)
	f.DiffuseMap = true

	es := Generate(f, DefaultEmbedded)
	if !strings.HasPrefix(es.Vertex, "#version 300 es\nprecision mediump float;\n") {
		t.Errorf("expected ES header, got\n%s", es.Vertex)
	}
	if !strings.HasPrefix(es.Fragment, "#version 300 es\nprecision mediump float;\n") {
		t.Errorf("expected ES header, got\n%s", es.Fragment)
	}

	desktop := Generate(f, DefaultDesktop)
	if !strings.HasPrefix(desktop.Vertex, "#version 410 core\n") || strings.Contains(desktop.Vertex, "precision") {
		t.Errorf("expected desktop header, got\n%s", desktop.Vertex)
	}

	legacyDesktop, err := ParseDialect("120")
	if err != nil {
		t.Fatal(err)
	}
	old := Generate(f, legacyDesktop)
	if !strings.HasPrefix(old.Vertex, "#version 120\n") {
		t.Errorf("expected legacy header, got\n%s", old.Vertex)
	}
	for _, want := range []string{"attribute vec4 Position;", "varying vec4 texCoordVarying;"} {
		if !strings.Contains(old.Vertex, want) {
			t.Errorf("expected %q in legacy vertex stage", want)
		}
	}
	if !strings.Contains(old.Fragment, "gl_FragColor = ") || !strings.Contains(old.Fragment, "texture2D(DiffuseMap") {
		t.Errorf("expected legacy fragment output, got\n%s", old.Fragment)
	}
}

func TestParseDialect(t *testing.T) {
	tests := []struct {
		in   string
		want Dialect
	}{
		{"410 core", DefaultDesktop},
		{"300 es", DefaultEmbedded},
		{"#version 330", Dialect{Major: 3, Minor: 30}},
		{"100", Dialect{Major: 1, Minor: 0, ES: true}},
	}
	for _, tt := range tests {
		got, err := ParseDialect(tt.in)
		if err != nil {
			t.Errorf("ParseDialect(%q): unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDialect(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
	for _, bad := range []string{"", "core", "410 vulkan"} {
		if _, err := ParseDialect(bad); err == nil {
			t.Errorf("ParseDialect(%q): expected error", bad)
		}
	}
	if got := Directive(Dialect{Major: 1, Minor: 0, ES: true}); got != "#version 100" {
		t.Errorf("Directive: expected #version 100, got %s", got)
	}
}

type keys map[string]bool

func (k keys) HasTexture(n string) bool { return k["tex:"+n] }
func (k keys) HasVector(n string) bool  { return k["vec:"+n] }
func (k keys) HasScalar(n string) bool  { return k["f:"+n] }

func TestFeaturesFor(t *testing.T) {
	m := keys{"vec:Kd": true, "tex:NormalMap": true, "f:Ns": true, "f:transparency": true}
	f := FeaturesFor(m, 2, true, true)
	if !f.Diffuse || !f.DiffuseColor || f.DiffuseMap {
		t.Errorf("expected diffuse from Kd only, got %+v", f)
	}
	if !f.Specular || f.SpecularColor {
		t.Errorf("expected specular lighting from Ns, got %+v", f)
	}
	if !f.NormalMap || !f.TransparencyValue || !f.Ambient || f.AmbientColor {
		t.Errorf("unexpected features %+v", f)
	}

	if f := FeaturesFor(m, 0, false, false); f.Specular {
		t.Errorf("expected no specular lighting without lights")
	}
}

func TestPreprocess(t *testing.T) {
	src := "$B_SHADER_VERSION\nuniform vec4 lights[$B_SHADER_MAX_LIGHTS];\n"
	got := Preprocess(src, DefaultDesktop, 4)
	want := "#version 410 core\nuniform vec4 lights[4];\n"
	if got != want {
		t.Errorf("Preprocess: expected %q, got %q", want, got)
	}
	got = Preprocess(src, DefaultEmbedded, 1)
	if !strings.HasPrefix(got, "#version 300 es\nprecision mediump float;\n") {
		t.Errorf("Preprocess: expected ES precision, got %q", got)
	}
}

func TestGenerateStartsWithDirective(t *testing.T) {
	for _, v := range []string{"100", "120", "300 es", "330", "410"} {
		d, err := ParseDialect(v)
		if err != nil {
			t.Fatal(err)
		}
		src := Generate(lightFeatures(2, false), d)
		for _, text := range []string{src.Vertex, src.Fragment} {
			first, _, _ := strings.Cut(text, "\n")
			if first != Directive(d) {
				t.Errorf("%s: expected first line %q, got %q", v, Directive(d), first)
			}
		}
	}
}
