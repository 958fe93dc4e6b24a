package reader

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempOBJ(t *testing.T, dir string) string {
	t.Helper()
	mtl := "newmtl red\nKd 1 0 0\n"
	if err := os.WriteFile(filepath.Join(dir, "scene.mtl"), []byte(mtl), 0o644); err != nil {
		t.Fatal(err)
	}

	obj := `
mtllib scene.mtl
camera_fov 45
camera_eye 0 0 5
v 0 0 0
v 1 0 0
v 0 1 0
v 1 1 0
usemtl red
f 1 2 3
f 2 4 3
`
	objPath := filepath.Join(dir, "scene.obj")
	if err := os.WriteFile(objPath, []byte(obj), 0o644); err != nil {
		t.Fatal(err)
	}
	return objPath
}

func TestReadOBJ(t *testing.T) {
	dir := t.TempDir()
	path := writeTempOBJ(t, dir)

	sc, err := ReadOBJ(path)
	if err != nil {
		t.Fatalf("ReadOBJ: %v", err)
	}

	if got := len(sc.Mesh.Vertices) / 3; got != 2 {
		t.Fatalf("got %d triangles, want 2", got)
	}
	if len(sc.MaterialIndices) != 2 {
		t.Fatalf("got %d material indices, want 2", len(sc.MaterialIndices))
	}
	if len(sc.Materials) != 2 {
		t.Fatalf("got %d materials (default + red), want 2", len(sc.Materials))
	}
	if sc.Materials[sc.MaterialIndices[0]].Name != "red" {
		t.Errorf("triangle 0 material = %q, want %q", sc.Materials[sc.MaterialIndices[0]].Name, "red")
	}
}

func TestReadOBJMissingFile(t *testing.T) {
	if _, err := ReadOBJ(filepath.Join(t.TempDir(), "missing.obj")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
