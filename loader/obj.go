// Package loader parses model, image and font files into engine data.
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"brender/core"
	"brender/render"
	"brender/shader"
)

// ErrNoGeometry is returned for model files without any faces.
var ErrNoGeometry = errors.New("no geometry")

// Options control how parsed geometry is converted.
type Options struct {
	// FlipT replaces texture coordinate t with 1-t.
	FlipT bool
	// FlipZ negates the z coordinate of positions and normals.
	FlipZ bool
	// ComputeTangents fills tangents and bitangents from texture coordinates.
	ComputeTangents bool
}

// objFace is an already-triangulated face (three vertex references).
type objFace struct {
	vIdx, vtIdx, vnIdx [3]int // 0-based position / UV / normal indices (-1 = absent)
}

type objGroup struct {
	name    string
	matName string
	faces   []objFace
}

// LoadOBJ parses a Wavefront .obj file into one geometry group per object or
// group. Material libraries referenced via "mtllib" are read from the same
// directory.
func LoadOBJ(path string, opts Options) (render.ModelData, error) {
	f, err := os.Open(path)
	if err != nil {
		return render.ModelData{}, fmt.Errorf("open obj %q: %w", path, err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ParseOBJ(f, name, filepath.Dir(path), opts)
}

// ParseOBJ reads OBJ text from r. dir resolves material libraries; an
// empty dir skips them.
func ParseOBJ(r io.Reader, name, dir string, opts Options) (render.ModelData, error) {
	var positions []mgl32.Vec3
	var normals []mgl32.Vec3
	var uvs []mgl32.Vec2

	data := render.ModelData{Name: name, Materials: map[string]render.MaterialData{}}

	var groups []objGroup
	cur := &objGroup{name: "default"}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				continue
			}
			positions = append(positions, parseVec3(fields[1:]))

		case "vn":
			if len(fields) < 4 {
				continue
			}
			normals = append(normals, parseVec3(fields[1:]))

		case "vt":
			if len(fields) < 3 {
				continue
			}
			u, _ := strconv.ParseFloat(fields[1], 32)
			v, _ := strconv.ParseFloat(fields[2], 32)
			uvs = append(uvs, mgl32.Vec2{float32(u), float32(v)})

		case "o", "g":
			if len(cur.faces) > 0 {
				groups = append(groups, *cur)
			}
			groupName := "default"
			if len(fields) > 1 {
				groupName = fields[1]
			}
			cur = &objGroup{name: groupName, matName: cur.matName}

		case "usemtl":
			if len(fields) > 1 {
				// A material switch inside a group starts a new group.
				if len(cur.faces) > 0 {
					groups = append(groups, *cur)
					cur = &objGroup{name: cur.name + "_" + fields[1]}
				}
				cur.matName = fields[1]
			}

		case "mtllib":
			if len(fields) > 1 && dir != "" {
				mats, err := LoadMTL(filepath.Join(dir, fields[1]))
				if err != nil {
					return render.ModelData{}, err
				}
				for k, v := range mats {
					data.Materials[k] = v
				}
			}

		case "f":
			if len(fields) < 4 {
				continue
			}
			type fv struct{ v, vt, vn int }
			var fverts []fv
			for _, tok := range fields[1:] {
				v, vt, vn := parseFaceVertex(tok, len(positions), len(uvs), len(normals))
				fverts = append(fverts, fv{v, vt, vn})
			}
			// Fan triangulation: 0-1-2, 0-2-3, 0-3-4, ...
			for i := 1; i+1 < len(fverts); i++ {
				f0, f1, f2 := fverts[0], fverts[i], fverts[i+1]
				cur.faces = append(cur.faces, objFace{
					vIdx:  [3]int{f0.v, f1.v, f2.v},
					vtIdx: [3]int{f0.vt, f1.vt, f2.vt},
					vnIdx: [3]int{f0.vn, f1.vn, f2.vn},
				})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return render.ModelData{}, fmt.Errorf("scan obj %q: %w", name, err)
	}

	if len(cur.faces) > 0 {
		groups = append(groups, *cur)
	}
	if len(groups) == 0 {
		return render.ModelData{}, fmt.Errorf("obj %q: %w", name, ErrNoGeometry)
	}

	seen := map[string]int{}
	for _, g := range groups {
		groupName := g.name
		if n := seen[groupName]; n > 0 {
			groupName = fmt.Sprintf("%s_%d", groupName, n)
		}
		seen[g.name]++

		gd := buildGeometry(groupName, g.faces, positions, normals, uvs, opts)
		gd.MaterialName = g.matName
		data.Groups = append(data.Groups, gd)
	}
	return data, nil
}

func parseVec3(fields []string) mgl32.Vec3 {
	x, _ := strconv.ParseFloat(fields[0], 32)
	y, _ := strconv.ParseFloat(fields[1], 32)
	z, _ := strconv.ParseFloat(fields[2], 32)
	return mgl32.Vec3{float32(x), float32(y), float32(z)}
}

// parseFaceVertex parses one face vertex token: "v", "v/vt", "v//vn", "v/vt/vn".
// Returns 0-based indices (-1 if absent). Negative OBJ indices are relative
// to the current end of each list.
func parseFaceVertex(tok string, nv, nvt, nvn int) (v, vt, vn int) {
	parseIdx := func(s string, n int) int {
		if s == "" {
			return -1
		}
		i, err := strconv.Atoi(s)
		switch {
		case err != nil:
			return -1
		case i > 0:
			return i - 1
		case i < 0:
			return n + i
		}
		return -1
	}
	parts := strings.Split(tok, "/")
	v, vt, vn = -1, -1, -1
	if len(parts) > 0 {
		v = parseIdx(parts[0], nv)
	}
	if len(parts) > 1 {
		vt = parseIdx(parts[1], nvt)
	}
	if len(parts) > 2 {
		vn = parseIdx(parts[2], nvn)
	}
	return v, vt, vn
}

// buildGeometry converts parsed face data into deduplicated vertices.
func buildGeometry(name string, faces []objFace, positions, normals []mgl32.Vec3, uvs []mgl32.Vec2, opts Options) render.GeometryData {
	type key struct{ v, vt, vn int }
	vertMap := map[key]uint32{}
	var vertices []core.Vertex
	var indices []uint32

	hasNormals := false
	for _, face := range faces {
		for c := range 3 {
			k := key{face.vIdx[c], face.vtIdx[c], face.vnIdx[c]}
			if idx, ok := vertMap[k]; ok {
				indices = append(indices, idx)
				continue
			}
			var v core.Vertex
			if k.v >= 0 && k.v < len(positions) {
				v.Position = positions[k.v]
			}
			if k.vn >= 0 && k.vn < len(normals) {
				v.Normal = normals[k.vn]
				hasNormals = true
			}
			if k.vt >= 0 && k.vt < len(uvs) {
				v.TexCoord = uvs[k.vt]
				if opts.FlipT {
					v.TexCoord[1] = 1 - v.TexCoord[1]
				}
			}
			if opts.FlipZ {
				v.Position[2] = -v.Position[2]
				v.Normal[2] = -v.Normal[2]
			}
			idx := uint32(len(vertices))
			vertices = append(vertices, v)
			vertMap[k] = idx
			indices = append(indices, idx)
		}
	}

	gd := render.GeometryData{Name: name, Vertices: vertices, Indices: indices}
	if !hasNormals {
		GenerateNormals(&gd)
	}
	if opts.ComputeTangents {
		ComputeTangents(&gd)
	}
	return gd
}

// ── MTL ──────────────────────────────────────────────────────────────────────

// mtlTextures maps MTL texture statements to sampler uniforms.
var mtlTextures = map[string]string{
	"map_Kd":   shader.DiffuseMap,
	"map_Ks":   shader.SpecularMap,
	"map_Bump": shader.NormalMap,
	"map_bump": shader.NormalMap,
	"bump":     shader.NormalMap,
}

// LoadMTL reads a Wavefront material library.
func LoadMTL(path string) (map[string]render.MaterialData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mtl %q: %w", path, err)
	}
	defer f.Close()
	mats, err := ParseMTL(f)
	if err != nil {
		return nil, fmt.Errorf("mtl %q: %w", path, err)
	}
	return mats, nil
}

// ParseMTL reads material definitions. Colors become vectors (Ka, Kd, Ks,
// Tf), exponents and factors become scalars (Ns, Ni, Illum, transparency)
// and texture statements become sampler entries holding the file name.
func ParseMTL(r io.Reader) (map[string]render.MaterialData, error) {
	mats := map[string]render.MaterialData{}
	var cur *render.MaterialData
	commit := func() {
		if cur != nil {
			mats[cur.Name] = *cur
		}
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		key := fields[0]

		if key == "newmtl" {
			commit()
			if len(fields) < 2 {
				cur = nil
				continue
			}
			cur = &render.MaterialData{
				Name:     fields[1],
				Textures: map[string]string{},
				Vectors:  map[string]mgl32.Vec3{},
				Scalars:  map[string]float32{},
			}
			continue
		}
		if cur == nil {
			continue
		}

		switch key {
		case "Ka", "Kd", "Ks", "Tf":
			if len(fields) >= 4 {
				cur.Vectors[key] = parseVec3(fields[1:])
			}
		case "Ns", "Ni":
			if len(fields) >= 2 {
				v, _ := strconv.ParseFloat(fields[1], 32)
				cur.Scalars[key] = float32(v)
			}
		case "illum":
			if len(fields) >= 2 {
				v, _ := strconv.ParseFloat(fields[1], 32)
				cur.Scalars["Illum"] = float32(v)
			}
		case "d":
			if len(fields) >= 2 {
				v, _ := strconv.ParseFloat(fields[1], 32)
				cur.Scalars[shader.Transparency] = float32(v)
			}
		default:
			if sampler, ok := mtlTextures[key]; ok && len(fields) >= 2 {
				// Options such as "-bm 1" precede the file name.
				cur.Textures[sampler] = fields[len(fields)-1]
			}
		}
	}
	commit()
	return mats, scanner.Err()
}
