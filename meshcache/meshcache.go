// Package meshcache serialises a parsed mesh (vertices, material indices,
// materials and camera) to a zip-compressed gob dictionary, letting a
// repeat render skip the OBJ parse. This is the ESON equivalent
// mentioned as an external collaborator by the core spec; the format
// itself is adapted unchanged from the teacher's scene/io/binary.go.
package meshcache

import (
	"archive/zip"
	"encoding/gob"
	"fmt"
	"os"
	"time"

	"github.com/Mu-L/nanort/bvh"
	"github.com/Mu-L/nanort/log"
	"github.com/Mu-L/nanort/reader"
	"github.com/Mu-L/nanort/scene"
	"github.com/Mu-L/nanort/types"
)

var logger = log.New("meshcache")

const (
	verticesFile   = "vertices.bin"
	matIndicesFile = "matIndices.bin"
	materialsFile  = "materials.bin"
	cameraFile     = "camera.bin"
)

// Entry is the cached form of a reader.Scene, with the live
// bvh.TriangleMesh pointer replaced by its vertex slice so it gob-encodes
// cleanly.
type Entry struct {
	Vertices        []types.Vec3
	MaterialIndices []uint32
	Materials       []*reader.Material
	Camera          *scene.Camera
}

// Write stores sc to path as a zip-compressed gob dictionary.
func Write(path string, sc *reader.Scene) error {
	start := time.Now()

	zipFile, err := os.Create(path)
	if err != nil {
		return err
	}
	defer zipFile.Close()

	zw := zip.NewWriter(zipFile)
	defer zw.Close()

	fields := map[string]interface{}{
		verticesFile:   sc.Mesh.Vertices,
		matIndicesFile: sc.MaterialIndices,
		materialsFile:  sc.Materials,
		cameraFile:     sc.Camera,
	}
	for name, value := range fields {
		cw, err := zw.Create(name)
		if err != nil {
			return err
		}
		if err := gob.NewEncoder(cw).Encode(value); err != nil {
			return fmt.Errorf("meshcache: encoding %s: %w", name, err)
		}
	}

	logger.Debugf("wrote mesh cache %q in %s", path, time.Since(start))
	return nil
}

// Read loads a mesh cache previously written by Write.
func Read(path string) (*reader.Scene, error) {
	start := time.Now()

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	entry := &Entry{}
	for _, f := range zr.File {
		var target interface{}
		switch f.Name {
		case verticesFile:
			target = &entry.Vertices
		case matIndicesFile:
			target = &entry.MaterialIndices
		case materialsFile:
			target = &entry.Materials
		case cameraFile:
			target = &entry.Camera
		default:
			logger.Warningf("unknown entry %q in mesh cache %q; skipping", f.Name, path)
			continue
		}

		if err := decodeEntry(f, target); err != nil {
			return nil, fmt.Errorf("meshcache: loading %s: %w", f.Name, err)
		}
	}

	logger.Debugf("loaded mesh cache %q in %s", path, time.Since(start))

	return toScene(entry), nil
}

func decodeEntry(f *zip.File, target interface{}) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return gob.NewDecoder(rc).Decode(target)
}

func toScene(entry *Entry) *reader.Scene {
	return &reader.Scene{
		Mesh:            &bvh.TriangleMesh{Vertices: entry.Vertices},
		MaterialIndices: entry.MaterialIndices,
		Materials:       entry.Materials,
		Camera:          entry.Camera,
	}
}
