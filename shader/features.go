package shader

// Features selects what a generated shader computes. Equal features and
// dialect always produce identical source.
type Features struct {
	MaxLights          uint
	VariableLightCount bool

	Ambient  bool
	Diffuse  bool
	Specular bool

	AmbientColor  bool // Ka
	DiffuseColor  bool // Kd
	SpecularColor bool // Ks

	DiffuseMap  bool
	NormalMap   bool
	SpecularMap bool

	TransparencyValue bool
	Text              bool
}

// MaterialKeys reports which textures, vectors and scalars a material holds.
type MaterialKeys interface {
	HasTexture(name string) bool
	HasVector(name string) bool
	HasScalar(name string) bool
}

// FeaturesFor derives the features needed to render material m.
func FeaturesFor(m MaterialKeys, maxLights uint, variableLightCount, ambient bool) Features {
	f := Features{
		MaxLights:          maxLights,
		VariableLightCount: variableLightCount,
		Ambient:            ambient,
		AmbientColor:       m.HasVector(KeyAmbientColor),
		DiffuseColor:       m.HasVector(KeyDiffuseColor),
		SpecularColor:      m.HasVector(KeySpecularColor),
		DiffuseMap:         m.HasTexture(DiffuseMap),
		NormalMap:          m.HasTexture(NormalMap),
		SpecularMap:        m.HasTexture(SpecularMap),
		TransparencyValue:  m.HasScalar(Transparency),
	}
	f.Diffuse = f.DiffuseColor || f.DiffuseMap
	f.Specular = maxLights > 0 && m.HasScalar(KeySpecularExponent)
	return f
}

func (f Features) lit() bool {
	return f.MaxLights > 0 && (f.Diffuse || f.Specular)
}

func (f Features) specular() bool {
	return f.MaxLights > 0 && f.Specular
}

func (f Features) tangentSpace() bool {
	return f.NormalMap && f.lit()
}

func (f Features) textured() bool {
	return f.DiffuseMap || f.tangentSpace() || (f.SpecularMap && f.specular()) || f.Text
}

func (f Features) gated() bool {
	return f.VariableLightCount && f.lit()
}

// space is the coordinate space lighting is computed in.
func (f Features) space() string {
	if f.tangentSpace() {
		return "TangentSpace"
	}
	return "ViewSpace"
}
