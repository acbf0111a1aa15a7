package resource

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"brender/core"
	"brender/gpu"
	"brender/internal/logger"
	"brender/loader"
	"brender/render"
	"brender/scene"
	"brender/shader"
)

// TextShaderName is the generated shader shared by text sprites.
const TextShaderName = "text"

// ShaderOptions select how the shader of a material is obtained.
type ShaderOptions struct {
	// FromFile loads <name>.vert and <name>.frag instead of generating source.
	FromFile           bool
	MaxLights          uint
	VariableLightCount bool
	Ambient            bool
}

// ModelOptions control model loading.
type ModelOptions struct {
	loader.Options
	Shader ShaderOptions
}

// Manager is the aggregate root of every named engine object. It is not
// safe for concurrent use.
//
// Create* and Get* return handles borrowed from the cache: the cache holds
// the only reference it took, and Remove* or Clear release it. A caller that
// keeps a handle past that point must Retain it and Release it when done.
// Objects that hold other objects (materials hold shaders, models hold
// materials) retain them, so removing a shared dependency never frees it
// under its holders.
type Manager struct {
	dev gpu.Device
	cfg core.Config

	ambient  mgl32.Vec3
	desktop  shader.Dialect
	embedded shader.Dialect

	shaders      *Cache[*render.Shader]
	textures     *Cache[*render.Texture]
	cubeMaps     *Cache[*render.CubeMap]
	depthMaps    *Cache[*render.DepthMap]
	fonts        *Cache[*render.Font]
	materials    *Cache[*render.Material]
	properties   *Cache[*render.Properties]
	models       *Cache[render.Drawable]
	textSprites  *Cache[*render.TextSprite]
	cameras      *Cache[*scene.Camera]
	matrixStacks *Cache[*scene.MatrixStack]
	lights       *Cache[*scene.Light]
	framebuffers *Cache[*render.Framebuffer]
}

// NewManager creates an empty manager. Files are resolved against
// cfg.DataPath, dialects and the ambient color come from cfg.
func NewManager(dev gpu.Device, cfg core.Config) (*Manager, error) {
	m := &Manager{
		dev:          dev,
		cfg:          cfg,
		shaders:      NewCache[*render.Shader]("shader"),
		textures:     NewCache[*render.Texture]("texture"),
		cubeMaps:     NewCache[*render.CubeMap]("cube map"),
		depthMaps:    NewCache[*render.DepthMap]("depth map"),
		fonts:        NewCache[*render.Font]("font"),
		materials:    NewCache[*render.Material]("material"),
		properties:   NewCache[*render.Properties]("properties"),
		models:       NewCache[render.Drawable]("model"),
		textSprites:  NewCache[*render.TextSprite]("text sprite"),
		cameras:      NewCache[*scene.Camera]("camera"),
		matrixStacks: NewCache[*scene.MatrixStack]("matrix stack"),
		lights:       NewCache[*scene.Light]("light"),
		framebuffers: NewCache[*render.Framebuffer]("framebuffer"),
	}
	m.resetDefaults()

	if cfg.Shader.Desktop != "" {
		d, err := shader.ParseDialect(cfg.Shader.Desktop)
		if err != nil {
			return nil, fmt.Errorf("desktop dialect: %w", err)
		}
		m.desktop = d
	}
	if cfg.Shader.Embedded != "" {
		d, err := shader.ParseDialect(cfg.Shader.Embedded)
		if err != nil {
			return nil, fmt.Errorf("embedded dialect: %w", err)
		}
		m.embedded = d
	}
	m.ambient = mgl32.Vec3(cfg.Ambient)
	return m, nil
}

func (m *Manager) resetDefaults() {
	m.ambient = mgl32.Vec3{}
	m.desktop = shader.DefaultDesktop
	m.embedded = shader.DefaultEmbedded
}

func (m *Manager) Device() gpu.Device  { return m.dev }
func (m *Manager) Config() core.Config { return m.cfg }

// ── Settings ────────────────────────────────────────────────────────────────

func (m *Manager) SetAmbientColor(c mgl32.Vec3) { m.ambient = c }
func (m *Manager) AmbientColor() mgl32.Vec3     { return m.ambient }

// SetDialects sets the GLSL versions used for desktop and embedded targets.
func (m *Manager) SetDialects(desktop, embedded shader.Dialect) {
	m.desktop = desktop
	m.embedded = embedded
}

func (m *Manager) Dialects() (desktop, embedded shader.Dialect) {
	return m.desktop, m.embedded
}

// Dialect is the GLSL version shaders are generated for on this target.
func (m *Manager) Dialect() shader.Dialect {
	if m.cfg.Shader.ES {
		return m.embedded
	}
	return m.desktop
}

// DefaultShaderOptions returns generated-shader options from the configuration.
func (m *Manager) DefaultShaderOptions() ShaderOptions {
	return ShaderOptions{
		MaxLights:          m.cfg.Shader.MaxLights,
		VariableLightCount: m.cfg.Shader.VariableLightCount,
		Ambient:            true,
	}
}

// Clear releases every cached object and restores the default ambient
// color and dialects.
func (m *Manager) Clear() {
	// Holders first so that owned objects are released by their last owner.
	m.textSprites.Clear()
	m.models.Clear()
	m.materials.Clear()
	m.shaders.Clear()
	m.textures.Clear()
	m.cubeMaps.Clear()
	m.depthMaps.Clear()
	m.fonts.Clear()
	m.framebuffers.Clear()
	m.properties.Clear()
	m.cameras.Clear()
	m.matrixStacks.Clear()
	m.lights.Clear()
	m.resetDefaults()
	logger.System("resources cleared")
}

// Len returns the number of cached objects over all categories.
func (m *Manager) Len() int {
	return m.shaders.Len() + m.textures.Len() + m.cubeMaps.Len() + m.depthMaps.Len() +
		m.fonts.Len() + m.materials.Len() + m.properties.Len() + m.models.Len() +
		m.textSprites.Len() + m.cameras.Len() + m.matrixStacks.Len() + m.lights.Len() +
		m.framebuffers.Len()
}

func (m *Manager) readFile(name string) ([]byte, error) {
	data, err := os.ReadFile(m.cfg.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
		}
		return nil, err
	}
	return data, nil
}

// ── Shaders ─────────────────────────────────────────────────────────────────

// CreateShader compiles src under name. The returned shader is borrowed; see
// Manager.
func (m *Manager) CreateShader(name string, src shader.Source, maxLights uint) (*render.Shader, error) {
	return m.shaders.GetOrCreate(name, func() (*render.Shader, error) {
		return render.NewShader(m.dev, src, maxLights)
	})
}

// LoadShaderFile compiles <name>.vert and <name>.frag from the data path
// after substituting the version and light count macros. The cache name is
// the raw file name.
func (m *Manager) LoadShaderFile(name string, maxLights uint) (*render.Shader, error) {
	return m.shaders.GetOrCreate(RawName(name), func() (*render.Shader, error) {
		vert, err := m.readFile(name + shader.VertexExt)
		if err != nil {
			return nil, err
		}
		frag, err := m.readFile(name + shader.FragmentExt)
		if err != nil {
			return nil, err
		}
		d := m.Dialect()
		src := shader.Source{
			Vertex:   shader.Preprocess(string(vert), d, maxLights),
			Fragment: shader.Preprocess(string(frag), d, maxLights),
		}
		return render.NewShader(m.dev, src, maxLights)
	})
}

// GenerateShader compiles the permutation selected by f.
func (m *Manager) GenerateShader(name string, f shader.Features) (*render.Shader, error) {
	return m.shaders.GetOrCreate(RawName(name), func() (*render.Shader, error) {
		return render.NewShader(m.dev, shader.Generate(f, m.Dialect()), f.MaxLights)
	})
}

// GenerateShaderForMaterial compiles the permutation a material needs.
func (m *Manager) GenerateShaderForMaterial(name string, opts ShaderOptions, data render.MaterialData, text bool) (*render.Shader, error) {
	f := shader.FeaturesFor(data, opts.MaxLights, opts.VariableLightCount, opts.Ambient)
	f.Text = text
	return m.GenerateShader(name, f)
}

func (m *Manager) GetShader(name string) (*render.Shader, bool) { return m.shaders.Get(name) }
func (m *Manager) AddShader(name string, s *render.Shader) bool { return m.shaders.Add(name, s) }

// RemoveShader drops the cache reference to name. The shader is deleted once
// no material or retained handle still holds it.
func (m *Manager) RemoveShader(name string) bool { return m.shaders.Remove(name) }

// ── Textures ────────────────────────────────────────────────────────────────

func (m *Manager) CreateTexture(name string, img gpu.Image) *render.Texture {
	t, _ := m.textures.GetOrCreate(name, func() (*render.Texture, error) {
		return render.NewTexture(m.dev, img), nil
	})
	return t
}

// LoadTexture decodes an image file from the data path.
func (m *Manager) LoadTexture(file string) (*render.Texture, error) {
	return m.textures.GetOrCreate(RawName(file), func() (*render.Texture, error) {
		img, err := m.loadImage(file)
		if err != nil {
			return nil, err
		}
		return render.NewTexture(m.dev, img), nil
	})
}

func (m *Manager) loadImage(file string) (gpu.Image, error) {
	data, err := m.readFile(file)
	if err != nil {
		return gpu.Image{}, err
	}
	img, err := loader.DecodeImageBytes(data)
	if err != nil {
		return gpu.Image{}, fmt.Errorf("image %q: %w", file, err)
	}
	return img, nil
}

func (m *Manager) GetTexture(name string) (*render.Texture, bool) { return m.textures.Get(name) }
func (m *Manager) AddTexture(name string, t *render.Texture) bool { return m.textures.Add(name, t) }
func (m *Manager) RemoveTexture(name string) bool                 { return m.textures.Remove(name) }

func (m *Manager) CreateCubeMap(name string, faces [6]gpu.Image) *render.CubeMap {
	c, _ := m.cubeMaps.GetOrCreate(name, func() (*render.CubeMap, error) {
		return render.NewCubeMap(m.dev, faces), nil
	})
	return c
}

// LoadCubeMap decodes six face images in the order +X, -X, +Y, -Y, +Z, -Z.
func (m *Manager) LoadCubeMap(name string, files [6]string) (*render.CubeMap, error) {
	return m.cubeMaps.GetOrCreate(name, func() (*render.CubeMap, error) {
		var faces [6]gpu.Image
		for i, file := range files {
			img, err := m.loadImage(file)
			if err != nil {
				return nil, err
			}
			faces[i] = img
		}
		return render.NewCubeMap(m.dev, faces), nil
	})
}

func (m *Manager) GetCubeMap(name string) (*render.CubeMap, bool) { return m.cubeMaps.Get(name) }
func (m *Manager) RemoveCubeMap(name string) bool                 { return m.cubeMaps.Remove(name) }

func (m *Manager) CreateDepthMap(name string, width, height int) *render.DepthMap {
	d, _ := m.depthMaps.GetOrCreate(name, func() (*render.DepthMap, error) {
		return render.NewDepthMap(m.dev, width, height), nil
	})
	return d
}

func (m *Manager) GetDepthMap(name string) (*render.DepthMap, bool) { return m.depthMaps.Get(name) }
func (m *Manager) RemoveDepthMap(name string) bool                  { return m.depthMaps.Remove(name) }

// ── Fonts ───────────────────────────────────────────────────────────────────

// LoadFont parses a TrueType or OpenType file from the data path.
func (m *Manager) LoadFont(file string, pixelSize float64) (*render.Font, error) {
	return m.fonts.GetOrCreate(RawName(file), func() (*render.Font, error) {
		f, err := loader.LoadFont(m.cfg.Path(file))
		if err != nil {
			return nil, err
		}
		return render.NewFont(RawName(file), f, pixelSize)
	})
}

// DefaultFont returns the bundled Go Regular face at pixelSize.
func (m *Manager) DefaultFont(pixelSize float64) (*render.Font, error) {
	name := fmt.Sprintf("goregular_%g", pixelSize)
	return m.fonts.GetOrCreate(name, func() (*render.Font, error) {
		return render.NewFont(name, loader.DefaultFont(), pixelSize)
	})
}

func (m *Manager) GetFont(name string) (*render.Font, bool) { return m.fonts.Get(name) }
func (m *Manager) RemoveFont(name string) bool              { return m.fonts.Remove(name) }

// ── Materials ───────────────────────────────────────────────────────────────

// CreateMaterial creates an empty material drawn with s.
func (m *Manager) CreateMaterial(name string, s *render.Shader) *render.Material {
	mat, _ := m.materials.GetOrCreate(name, func() (*render.Material, error) {
		return render.NewMaterial(name, s), nil
	})
	return mat
}

// CreateMaterialFromData creates a material from parsed values. Texture
// entries name image files in the data path.
func (m *Manager) CreateMaterialFromData(name string, data render.MaterialData, s *render.Shader) *render.Material {
	return m.createMaterial(name, data, s, nil, "")
}

// createMaterial resolves texture file names against images first, then
// against dir in the data path. A texture that cannot be loaded is logged
// and left out.
func (m *Manager) createMaterial(name string, data render.MaterialData, s *render.Shader, images map[string]gpu.Image, dir string) *render.Material {
	mat, _ := m.materials.GetOrCreate(name, func() (*render.Material, error) {
		mat := render.NewMaterial(name, s)
		for sampler, file := range data.Textures {
			var tex *render.Texture
			if img, ok := images[file]; ok {
				tex = m.CreateTexture(file, img)
			} else {
				var err error
				tex, err = m.LoadTexture(joinData(dir, file))
				if err != nil {
					logger.Log.Warn("material texture skipped",
						zap.String("material", name), zap.String("sampler", sampler), zap.Error(err))
					continue
				}
			}
			mat.SetTexture(sampler, tex)
		}
		for k, v := range data.Vectors {
			mat.SetVector(k, v)
		}
		for k, v := range data.Scalars {
			mat.SetScalar(k, v)
		}
		return mat, nil
	})
	return mat
}

func joinData(dir, file string) string {
	if dir == "" || dir == "." || path.IsAbs(file) {
		return file
	}
	return path.Join(dir, file)
}

// CreateMaterialShaderCombination creates a material together with the
// shader it needs, generated from its values or loaded from files named
// after the material.
func (m *Manager) CreateMaterialShaderCombination(name string, data render.MaterialData, opts ShaderOptions) (*render.Material, error) {
	return m.createMaterialShaderCombination(name, data, opts, nil, "")
}

func (m *Manager) createMaterialShaderCombination(name string, data render.MaterialData, opts ShaderOptions, images map[string]gpu.Image, dir string) (*render.Material, error) {
	if mat, ok := m.materials.Get(name); ok {
		return mat, nil
	}
	var (
		s   *render.Shader
		err error
	)
	if opts.FromFile {
		s, err = m.LoadShaderFile(name, opts.MaxLights)
	} else {
		s, err = m.GenerateShaderForMaterial(name, opts, data, false)
	}
	if err != nil {
		return nil, fmt.Errorf("material %q: %w", name, err)
	}
	return m.createMaterial(name, data, s, images, dir), nil
}

// LoadMaterial reads materialName from an MTL file in the data path and
// creates it with a matching shader.
func (m *Manager) LoadMaterial(mtlFile, materialName string, opts ShaderOptions) (*render.Material, error) {
	if mat, ok := m.materials.Get(materialName); ok {
		return mat, nil
	}
	mats, err := loader.LoadMTL(m.cfg.Path(mtlFile))
	if err != nil {
		logger.Log.Error("load material failed", zap.String("file", mtlFile), zap.Error(err))
		return nil, err
	}
	data, ok := mats[materialName]
	if !ok {
		err := fmt.Errorf("material %q in %q: %w", materialName, mtlFile, ErrNotFound)
		logger.Log.Error("load material failed", zap.Error(err))
		return nil, err
	}
	return m.createMaterialShaderCombination(materialName, data, opts, nil, path.Dir(mtlFile))
}

func (m *Manager) GetMaterial(name string) (*render.Material, bool) { return m.materials.Get(name) }
func (m *Manager) AddMaterial(name string, mat *render.Material) bool {
	return m.materials.Add(name, mat)
}
func (m *Manager) RemoveMaterial(name string) bool { return m.materials.Remove(name) }

// ── Properties ──────────────────────────────────────────────────────────────

// CreateProperties returns the properties stored under name. An empty name
// creates uniquely named properties.
func (m *Manager) CreateProperties(name string) *render.Properties {
	if name == "" {
		name = uuid.NewString()
	}
	p, _ := m.properties.GetOrCreate(name, func() (*render.Properties, error) {
		return render.NewProperties(name), nil
	})
	return p
}

func (m *Manager) GetProperties(name string) (*render.Properties, bool) {
	return m.properties.Get(name)
}
func (m *Manager) RemoveProperties(name string) bool { return m.properties.Remove(name) }

// ── Models and sprites ──────────────────────────────────────────────────────

// LoadModel parses an OBJ, glTF or GLB file from the data path and creates
// a model named after the file, with a generated or file shader per
// material.
func (m *Manager) LoadModel(file string, opts ModelOptions) (render.Drawable, error) {
	return m.models.GetOrCreate(RawName(file), func() (render.Drawable, error) {
		data, err := m.loadModelData(file, opts.Options)
		if err != nil {
			return nil, err
		}
		return m.buildModel(RawName(file), data, path.Dir(file), func(matName string, md render.MaterialData) (*render.Material, error) {
			return m.createMaterialShaderCombination(matName, md, opts.Shader, data.Images, path.Dir(file))
		})
	})
}

func (m *Manager) loadModelData(file string, opts loader.Options) (render.ModelData, error) {
	full := m.cfg.Path(file)
	switch ext := strings.ToLower(path.Ext(file)); ext {
	case ".obj":
		return loader.LoadOBJ(full, opts)
	case ".gltf", ".glb":
		return loader.LoadGLTF(full, opts)
	default:
		return render.ModelData{}, fmt.Errorf("model %q: unsupported format %q", file, ext)
	}
}

// CreateModel builds a model from parsed data. Each material the groups
// name is created with its own shader.
func (m *Manager) CreateModel(name string, data render.ModelData, opts ShaderOptions) (render.Drawable, error) {
	return m.models.GetOrCreate(name, func() (render.Drawable, error) {
		return m.buildModel(name, data, "", func(matName string, md render.MaterialData) (*render.Material, error) {
			return m.createMaterialShaderCombination(matName, md, opts, data.Images, "")
		})
	})
}

// CreateModelWithShader builds a model whose materials all use s.
func (m *Manager) CreateModelWithShader(name string, data render.ModelData, s *render.Shader) (render.Drawable, error) {
	return m.models.GetOrCreate(name, func() (render.Drawable, error) {
		return m.buildModel(name, data, "", func(matName string, md render.MaterialData) (*render.Material, error) {
			return m.createMaterial(matName, md, s, data.Images, ""), nil
		})
	})
}

// CreateModelWithMaterial builds a model whose groups all use mat.
func (m *Manager) CreateModelWithMaterial(name string, data render.ModelData, mat *render.Material) (render.Drawable, error) {
	return m.models.GetOrCreate(name, func() (render.Drawable, error) {
		return m.buildModel(name, data, "", func(string, render.MaterialData) (*render.Material, error) {
			return mat, nil
		})
	})
}

// buildModel uploads every group. Groups without a known material get an
// empty material named after the group.
func (m *Manager) buildModel(name string, data render.ModelData, dir string,
	material func(name string, md render.MaterialData) (*render.Material, error)) (*render.Model, error) {
	if len(data.Groups) == 0 {
		return nil, fmt.Errorf("model %q: %w", name, loader.ErrNoGeometry)
	}
	model := render.NewModel(name)
	for _, g := range data.Groups {
		matName := g.MaterialName
		if matName == "" {
			matName = g.Name
		}
		md, ok := data.Materials[g.MaterialName]
		if !ok {
			md = render.MaterialData{Name: matName}
		}
		mat, err := material(matName, md)
		if err != nil {
			model.Release()
			return nil, fmt.Errorf("model %q group %q: %w", name, g.Name, err)
		}
		model.AddGeometry(g.Name, render.NewGeometry(m.dev, g, mat))
	}
	logger.Log.Info("model created", zap.String("model", name), zap.String("dir", dir), zap.Int("groups", len(data.Groups)))
	return model, nil
}

// CreateSprite creates a quad textured with an image from the data path
// and a generated shader named after the sprite.
func (m *Manager) CreateSprite(name, textureFile string, opts ShaderOptions) (render.Drawable, error) {
	return m.models.GetOrCreate(name, func() (render.Drawable, error) {
		md := render.MaterialData{Name: name, Textures: map[string]string{shader.DiffuseMap: textureFile}}
		mat, err := m.createMaterialShaderCombination(name, md, opts, nil, "")
		if err != nil {
			return nil, err
		}
		return render.NewSprite(m.dev, name, mat), nil
	})
}

// CreateSpriteWithShader creates a textured quad drawn with s.
func (m *Manager) CreateSpriteWithShader(name, textureFile string, s *render.Shader) (render.Drawable, error) {
	return m.models.GetOrCreate(name, func() (render.Drawable, error) {
		md := render.MaterialData{Name: name, Textures: map[string]string{shader.DiffuseMap: textureFile}}
		return render.NewSprite(m.dev, name, m.createMaterial(name, md, s, nil, "")), nil
	})
}

func (m *Manager) CreateSpriteWithMaterial(name string, mat *render.Material) render.Drawable {
	d, _ := m.models.GetOrCreate(name, func() (render.Drawable, error) {
		return render.NewSprite(m.dev, name, mat), nil
	})
	return d
}

// GetModel returns the model or sprite stored under name.
func (m *Manager) GetModel(name string) (render.Drawable, bool) { return m.models.Get(name) }
func (m *Manager) AddModel(name string, d render.Drawable) bool { return m.models.Add(name, d) }
func (m *Manager) RemoveModel(name string) bool                 { return m.models.Remove(name) }

// ── Text sprites ────────────────────────────────────────────────────────────

// CreateTextSprite renders text in color with the shared text shader.
func (m *Manager) CreateTextSprite(name string, color mgl32.Vec3, text string, font *render.Font) (*render.TextSprite, error) {
	return m.textSprites.GetOrCreate(name, func() (*render.TextSprite, error) {
		s, err := m.GenerateShader(TextShaderName, shader.Features{
			Diffuse:      true,
			DiffuseColor: true,
			Text:         true,
		})
		if err != nil {
			return nil, err
		}
		return render.NewTextSprite(m.dev, name, s, color, text, font), nil
	})
}

// CreateTextSpriteWithShader renders text with s, which must sample the
// character map.
func (m *Manager) CreateTextSpriteWithShader(name string, s *render.Shader, color mgl32.Vec3, text string, font *render.Font) *render.TextSprite {
	ts, _ := m.textSprites.GetOrCreate(name, func() (*render.TextSprite, error) {
		return render.NewTextSprite(m.dev, name, s, color, text, font), nil
	})
	return ts
}

func (m *Manager) GetTextSprite(name string) (*render.TextSprite, bool) {
	return m.textSprites.Get(name)
}
func (m *Manager) RemoveTextSprite(name string) bool { return m.textSprites.Remove(name) }

// ── Scene objects ───────────────────────────────────────────────────────────

// CreateCamera creates a camera with default projection values.
func (m *Manager) CreateCamera(name string) *scene.Camera {
	c, _ := m.cameras.GetOrCreate(name, func() (*scene.Camera, error) {
		return scene.DefaultCamera(), nil
	})
	return c
}

// CreateCameraAt creates a camera at position rotated by the Euler angles
// in rotation (radians, applied X then Y then Z).
func (m *Manager) CreateCameraAt(name string, position, rotation mgl32.Vec3, fov, aspect, near, far float32) *scene.Camera {
	c, _ := m.cameras.GetOrCreate(name, func() (*scene.Camera, error) {
		c := scene.NewCamera(fov, aspect, near, far)
		c.Position = position
		c.SetRotation(mgl32.HomogRotate3DX(rotation.X()).
			Mul4(mgl32.HomogRotate3DY(rotation.Y())).
			Mul4(mgl32.HomogRotate3DZ(rotation.Z())))
		return c, nil
	})
	return c
}

func (m *Manager) GetCamera(name string) (*scene.Camera, bool) { return m.cameras.Get(name) }
func (m *Manager) RemoveCamera(name string) bool               { return m.cameras.Remove(name) }

func (m *Manager) CreateMatrixStack(name string) *scene.MatrixStack {
	s, _ := m.matrixStacks.GetOrCreate(name, func() (*scene.MatrixStack, error) {
		return scene.NewMatrixStack(), nil
	})
	return s
}

func (m *Manager) GetMatrixStack(name string) (*scene.MatrixStack, bool) {
	return m.matrixStacks.Get(name)
}
func (m *Manager) RemoveMatrixStack(name string) bool { return m.matrixStacks.Remove(name) }

// CreateLight creates a white light at position with default falloff.
func (m *Manager) CreateLight(name string, position mgl32.Vec3) *scene.Light {
	l, _ := m.lights.GetOrCreate(name, func() (*scene.Light, error) {
		return scene.NewLight(position), nil
	})
	return l
}

func (m *Manager) CreateColoredLight(name string, position, diffuse, specular mgl32.Vec3, intensity, attenuation, radius float32) *scene.Light {
	l, _ := m.lights.GetOrCreate(name, func() (*scene.Light, error) {
		return scene.NewColoredLight(position, diffuse, specular, intensity, attenuation, radius), nil
	})
	return l
}

func (m *Manager) GetLight(name string) (*scene.Light, bool) { return m.lights.Get(name) }
func (m *Manager) RemoveLight(name string) bool              { return m.lights.Remove(name) }

// LightNames returns the names of all lights in sorted order.
func (m *Manager) LightNames() []string { return m.lights.Names() }

// ── Framebuffers ────────────────────────────────────────────────────────────

// CreateFramebuffer creates a render target. A zero size follows the viewport.
func (m *Manager) CreateFramebuffer(name string, width, height int) *render.Framebuffer {
	f, _ := m.framebuffers.GetOrCreate(name, func() (*render.Framebuffer, error) {
		return render.NewFramebuffer(m.dev, width, height), nil
	})
	return f
}

func (m *Manager) GetFramebuffer(name string) (*render.Framebuffer, bool) {
	return m.framebuffers.Get(name)
}
func (m *Manager) RemoveFramebuffer(name string) bool { return m.framebuffers.Remove(name) }
