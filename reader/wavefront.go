package reader

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Mu-L/nanort/bvh"
	"github.com/Mu-L/nanort/log"
	"github.com/Mu-L/nanort/scene"
	"github.com/Mu-L/nanort/types"
)

var logger = log.New("reader")

// Scene is the flattened result of parsing a Wavefront OBJ/MTL pair: a
// single triangle soup plus a per-triangle material index, ready to be
// handed to bvh.Accel.Build.
type Scene struct {
	Mesh            *bvh.TriangleMesh
	MaterialIndices []uint32
	Materials       []*Material
	Camera          *scene.Camera
}

type objReader struct {
	dir string

	vertices []types.Vec3
	normals  []types.Vec3
	uvs      []types.Vec2

	triVerts     []types.Vec3
	triMatIndex  []uint32
	materials    []*Material
	matNameToIdx map[string]int
	curMaterial  int

	camera *scene.Camera
}

// ReadOBJ parses a Wavefront OBJ file (and any mtllib it references,
// resolved relative to the OBJ's directory) into a Scene.
func ReadOBJ(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := &objReader{
		dir:          filepath.Dir(path),
		materials:    []*Material{defaultMaterial()},
		matNameToIdx: map[string]int{"default": 0},
		camera:       scene.NewCamera(45 * 3.1415926535 / 180),
	}

	if err := r.parse(path, f); err != nil {
		return nil, err
	}

	logger.Debugf("parsed %q: %d triangles, %d materials", path, len(r.triVerts)/3, len(r.materials))

	return &Scene{
		Mesh:            &bvh.TriangleMesh{Vertices: r.triVerts},
		MaterialIndices: r.triMatIndex,
		Materials:       r.materials,
		Camera:          r.camera,
	}, nil
}

func (r *objReader) parse(path string, f *os.File) error {
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 || strings.HasPrefix(tokens[0], "#") {
			continue
		}

		var err error
		switch tokens[0] {
		case "mtllib":
			err = r.handleMtllib(tokens, lineNum)
		case "usemtl":
			err = r.handleUsemtl(tokens, lineNum)
		case "v":
			err = r.handleVertexAppend(tokens, lineNum, &r.vertices)
		case "vn":
			err = r.handleVertexAppend(tokens, lineNum, &r.normals)
		case "vt":
			err = r.handleUV(tokens, lineNum)
		case "f":
			err = r.handleFace(tokens, lineNum)
		case "camera_fov":
			var fov float32
			fov, err = parseFloat32(tokens)
			if err == nil {
				r.camera.FOV = fov * 3.1415926535 / 180
			}
		case "camera_eye":
			r.camera.Position, err = parseVec3(tokens)
		case "camera_look":
			r.camera.LookAt, err = parseVec3(tokens)
		case "camera_up":
			r.camera.Up, err = parseVec3(tokens)
		}

		if err != nil {
			return fmt.Errorf("%s:%d: %w", path, lineNum, err)
		}
	}
	return scanner.Err()
}

func (r *objReader) handleVertexAppend(tokens []string, lineNum int, dst *[]types.Vec3) error {
	v, err := parseVec3(tokens)
	if err != nil {
		return err
	}
	*dst = append(*dst, v)
	return nil
}

func (r *objReader) handleUV(tokens []string, lineNum int) error {
	v, err := parseVec2(tokens)
	if err != nil {
		return err
	}
	r.uvs = append(r.uvs, v)
	return nil
}

func (r *objReader) handleMtllib(tokens []string, lineNum int) error {
	if len(tokens) != 2 {
		return fmt.Errorf("%w: mtllib expects 1 argument, got %d", ErrUnsupportedSyntax, len(tokens)-1)
	}
	return r.parseMaterials(filepath.Join(r.dir, tokens[1]))
}

func (r *objReader) handleUsemtl(tokens []string, lineNum int) error {
	if len(tokens) != 2 {
		return fmt.Errorf("%w: usemtl expects 1 argument, got %d", ErrUnsupportedSyntax, len(tokens)-1)
	}
	idx, ok := r.matNameToIdx[tokens[1]]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUndefinedMaterial, tokens[1])
	}
	r.curMaterial = idx
	return nil
}

// handleFace triangulates an n-gon face as a fan around its first vertex,
// matching the teacher's triangulation strategy for faces with more than
// 3 vertices.
func (r *objReader) handleFace(tokens []string, lineNum int) error {
	if len(tokens) < 4 {
		return fmt.Errorf("%w: face needs at least 3 vertices, got %d", ErrUnsupportedSyntax, len(tokens)-1)
	}

	indices := make([]int, len(tokens)-1)
	for i, tok := range tokens[1:] {
		vIdx, err := selectFaceCoordIndex(strings.Split(tok, "/")[0], len(r.vertices))
		if err != nil {
			return err
		}
		indices[i] = vIdx
	}

	for i := 1; i < len(indices)-1; i++ {
		r.triVerts = append(r.triVerts, r.vertices[indices[0]], r.vertices[indices[i]], r.vertices[indices[i+1]])
		r.triMatIndex = append(r.triMatIndex, uint32(r.curMaterial))
	}
	return nil
}

func (r *objReader) parseMaterials(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var cur *Material
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 || strings.HasPrefix(tokens[0], "#") {
			continue
		}
		switch tokens[0] {
		case "newmtl":
			if len(tokens) != 2 {
				return fmt.Errorf("%w: newmtl expects 1 argument", ErrUnsupportedSyntax)
			}
			cur = &Material{Name: tokens[1]}
			r.matNameToIdx[cur.Name] = len(r.materials)
			r.materials = append(r.materials, cur)
		case "Kd":
			if cur == nil {
				continue
			}
			v, err := parseVec3(tokens)
			if err != nil {
				return err
			}
			cur.Diffuse = v
		case "map_Kd":
			if cur == nil || len(tokens) != 2 {
				continue
			}
			cur.DiffuseTex = tokens[1]
		}
	}
	return scanner.Err()
}

func selectFaceCoordIndex(indexToken string, listLen int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}
	var idx int
	if index < 0 {
		idx = listLen + int(index)
	} else {
		idx = int(index) - 1
	}
	if idx < 0 || idx >= listLen {
		return -1, fmt.Errorf("%w: vertex index out of bounds", ErrUnsupportedSyntax)
	}
	return idx, nil
}

func parseFloat32(tokens []string) (float32, error) {
	if len(tokens) < 2 {
		return 0, fmt.Errorf(`%w: "%s" expects 1 argument`, ErrUnsupportedSyntax, tokens[0])
	}
	val, err := strconv.ParseFloat(tokens[1], 32)
	return float32(val), err
}

func parseVec3(tokens []string) (types.Vec3, error) {
	if len(tokens) < 4 {
		return types.Vec3{}, fmt.Errorf(`%w: "%s" expects 3 arguments`, ErrUnsupportedSyntax, tokens[0])
	}
	var v types.Vec3
	for i := 0; i < 3; i++ {
		coord, err := strconv.ParseFloat(tokens[i+1], 32)
		if err != nil {
			return v, err
		}
		v[i] = float32(coord)
	}
	return v, nil
}

func parseVec2(tokens []string) (types.Vec2, error) {
	if len(tokens) < 3 {
		return types.Vec2{}, fmt.Errorf(`%w: "%s" expects 2 arguments`, ErrUnsupportedSyntax, tokens[0])
	}
	var v types.Vec2
	for i := 0; i < 2; i++ {
		coord, err := strconv.ParseFloat(tokens[i+1], 32)
		if err != nil {
			return v, err
		}
		v[i] = float32(coord)
	}
	return v, nil
}
