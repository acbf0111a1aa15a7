package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"brender/core"
	"brender/gpu"
	"brender/internal/logger"
	"brender/render"
	"brender/shader"
)

// LoadGLTF opens a .glb or .gltf file and flattens its default scene into
// geometry groups, one per mesh primitive instance, with node transforms
// applied to the vertices. Metallic-roughness materials are approximated
// with Phong values. Images stored inside the file are decoded into
// ModelData.Images and referenced by name from material textures.
func LoadGLTF(path string, opts Options) (render.ModelData, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return render.ModelData{}, fmt.Errorf("gltf open %q: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	data := render.ModelData{
		Name:      name,
		Materials: map[string]render.MaterialData{},
		Images:    map[string]gpu.Image{},
	}

	// ── Textures ─────────────────────────────────────────────────────────────
	textures := make([]string, len(doc.Textures))
	for i, gt := range doc.Textures {
		if gt.Source == nil || *gt.Source >= len(doc.Images) {
			continue
		}
		img := doc.Images[*gt.Source]
		switch {
		case img.BufferView != nil:
			raw, err := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
			if err != nil {
				logger.Log.Warn("gltf image buffer view", zap.String("file", path), zap.Int("image", *gt.Source), zap.Error(err))
				continue
			}
			decoded, err := DecodeImageBytes(raw)
			if err != nil {
				logger.Log.Warn("gltf image decode", zap.String("file", path), zap.Int("image", *gt.Source), zap.Error(err))
				continue
			}
			key := fmt.Sprintf("%s_image%d", name, *gt.Source)
			data.Images[key] = decoded
			textures[i] = key
		case img.IsEmbeddedResource():
			raw, err := img.MarshalData()
			if err != nil {
				logger.Log.Warn("gltf image data uri", zap.String("file", path), zap.Int("image", *gt.Source), zap.Error(err))
				continue
			}
			decoded, err := DecodeImageBytes(raw)
			if err != nil {
				logger.Log.Warn("gltf image decode", zap.String("file", path), zap.Int("image", *gt.Source), zap.Error(err))
				continue
			}
			key := fmt.Sprintf("%s_image%d", name, *gt.Source)
			data.Images[key] = decoded
			textures[i] = key
		case img.URI != "":
			textures[i] = img.URI
		}
	}
	texture := func(idx int) (string, bool) {
		if idx < 0 || idx >= len(textures) || textures[idx] == "" {
			return "", false
		}
		return textures[idx], true
	}

	// ── Materials ────────────────────────────────────────────────────────────
	materialNames := make([]string, len(doc.Materials))
	for i, gm := range doc.Materials {
		md := render.MaterialData{
			Name:     gm.Name,
			Textures: map[string]string{},
			Vectors:  map[string]mgl32.Vec3{},
			Scalars:  map[string]float32{},
		}
		if md.Name == "" {
			md.Name = fmt.Sprintf("%s_material%d", name, i)
		}
		md.Vectors[shader.KeyDiffuseColor] = mgl32.Vec3{1, 1, 1}
		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			cf := pbr.BaseColorFactorOrDefault()
			md.Vectors[shader.KeyDiffuseColor] = mgl32.Vec3{float32(cf[0]), float32(cf[1]), float32(cf[2])}
			if gm.AlphaMode == gltf.AlphaBlend || cf[3] < 1 {
				md.Scalars[shader.Transparency] = float32(cf[3])
			}
			if pbr.BaseColorTexture != nil {
				if tex, ok := texture(pbr.BaseColorTexture.Index); ok {
					md.Textures[shader.DiffuseMap] = tex
				}
			}
			// Smooth surfaces get a tight highlight, metals a bright one.
			roughness := float32(pbr.RoughnessFactorOrDefault())
			metallic := float32(pbr.MetallicFactorOrDefault())
			md.Scalars[shader.KeySpecularExponent] = (1-roughness)*(1-roughness)*128 + 1
			s := metallic * 0.7
			md.Vectors[shader.KeySpecularColor] = mgl32.Vec3{s, s, s}
		}
		if gm.NormalTexture != nil && gm.NormalTexture.Index != nil {
			if tex, ok := texture(*gm.NormalTexture.Index); ok {
				md.Textures[shader.NormalMap] = tex
			}
		}
		materialNames[i] = md.Name
		data.Materials[md.Name] = md
	}

	// ── Nodes ────────────────────────────────────────────────────────────────
	var visit func(node int, parent mgl32.Mat4) error
	visit = func(node int, parent mgl32.Mat4) error {
		gn := doc.Nodes[node]
		world := parent.Mul4(nodeMatrix(gn))
		if gn.Mesh != nil && *gn.Mesh < len(doc.Meshes) {
			gm := doc.Meshes[*gn.Mesh]
			nodeName := gn.Name
			if nodeName == "" {
				nodeName = fmt.Sprintf("node%d", node)
			}
			for pi, prim := range gm.Primitives {
				gd, err := loadPrimitive(doc, prim, world, opts)
				if err != nil {
					return fmt.Errorf("node %q primitive %d: %w", nodeName, pi, err)
				}
				gd.Name = fmt.Sprintf("%s_%d", nodeName, pi)
				if prim.Material != nil && *prim.Material < len(materialNames) {
					gd.MaterialName = materialNames[*prim.Material]
				}
				data.Groups = append(data.Groups, gd)
			}
		}
		for _, child := range gn.Children {
			if child < len(doc.Nodes) {
				if err := visit(child, world); err != nil {
					return err
				}
			}
		}
		return nil
	}
	for _, root := range sceneRoots(doc) {
		if err := visit(root, mgl32.Ident4()); err != nil {
			return render.ModelData{}, fmt.Errorf("gltf %q: %w", path, err)
		}
	}
	if len(data.Groups) == 0 {
		return render.ModelData{}, fmt.Errorf("gltf %q: %w", path, ErrNoGeometry)
	}
	return data, nil
}

// sceneRoots returns the root nodes of the default scene, or every
// parentless node when the file names none.
func sceneRoots(doc *gltf.Document) []int {
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	hasParent := make([]bool, len(doc.Nodes))
	for _, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c < len(hasParent) {
				hasParent[c] = true
			}
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !hasParent[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

var identityMatrix = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// nodeMatrix returns the node's local transform. glTF matrices are column-major like mgl32.
func nodeMatrix(gn *gltf.Node) mgl32.Mat4 {
	if gn.Matrix != [16]float64{} && gn.Matrix != identityMatrix {
		var m mgl32.Mat4
		for i, v := range gn.Matrix {
			m[i] = float32(v)
		}
		return m
	}
	t := gn.TranslationOrDefault()
	r := gn.RotationOrDefault() // [x, y, z, w]
	s := gn.ScaleOrDefault()
	q := mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}
	return mgl32.Translate3D(float32(t[0]), float32(t[1]), float32(t[2])).
		Mul4(q.Mat4()).
		Mul4(mgl32.Scale3D(float32(s[0]), float32(s[1]), float32(s[2])))
}

// loadPrimitive converts one glTF mesh primitive into world-space geometry.
func loadPrimitive(doc *gltf.Document, prim *gltf.Primitive, world mgl32.Mat4, opts Options) (render.GeometryData, error) {
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return render.GeometryData{}, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return render.GeometryData{}, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	var uvs [][2]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, _ = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
	}
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, _ = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
	}

	normalMatrix := world.Mat3().Inv().Transpose()
	verts := make([]core.Vertex, len(positions))
	for i, p := range positions {
		v := core.Vertex{Position: world.Mul4x1(mgl32.Vec4{p[0], p[1], p[2], 1}).Vec3()}
		if i < len(normals) {
			v.Normal = normalMatrix.Mul3x1(mgl32.Vec3(normals[i])).Normalize()
		}
		if i < len(uvs) {
			// glTF texture coordinates already start at the top row.
			v.TexCoord = mgl32.Vec2(uvs[i])
			if opts.FlipT {
				v.TexCoord[1] = 1 - v.TexCoord[1]
			}
		}
		if opts.FlipZ {
			v.Position[2] = -v.Position[2]
			v.Normal[2] = -v.Normal[2]
		}
		verts[i] = v
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return render.GeometryData{}, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(verts))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	gd := render.GeometryData{Vertices: verts, Indices: indices}
	if len(normals) == 0 {
		GenerateNormals(&gd)
	}
	if opts.ComputeTangents {
		ComputeTangents(&gd)
	}
	return gd, nil
}
