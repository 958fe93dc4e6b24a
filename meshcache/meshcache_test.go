package meshcache

import (
	"path/filepath"
	"testing"

	"github.com/Mu-L/nanort/bvh"
	"github.com/Mu-L/nanort/reader"
	"github.com/Mu-L/nanort/scene"
	"github.com/Mu-L/nanort/types"
)

func TestWriteReadRoundTrip(t *testing.T) {
	sc := &reader.Scene{
		Mesh: &bvh.TriangleMesh{Vertices: []types.Vec3{
			{0, 0, 0}, {1, 0, 0}, {0, 1, 0},
		}},
		MaterialIndices: []uint32{0},
		Materials:       []*reader.Material{{Name: "default", Diffuse: types.XYZ(0.5, 0.5, 0.5)}},
		Camera:          scene.NewCamera(0.7),
	}

	path := filepath.Join(t.TempDir(), "cache.bin")
	if err := Write(path, sc); err != nil {
		t.Fatalf("Write: %v", err)
	}

	loaded, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if len(loaded.Mesh.Vertices) != 3 {
		t.Fatalf("got %d vertices, want 3", len(loaded.Mesh.Vertices))
	}
	if len(loaded.Materials) != 1 || loaded.Materials[0].Name != "default" {
		t.Fatalf("materials round-trip mismatch: %+v", loaded.Materials)
	}
	if loaded.Camera.FOV != sc.Camera.FOV {
		t.Errorf("camera FOV = %v, want %v", loaded.Camera.FOV, sc.Camera.FOV)
	}
}
