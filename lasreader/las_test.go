package lasreader

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// writeMinimalLAS writes a header + point records sufficient for Read to
// parse, without reproducing the full LAS 1.2 header block byte-for-byte
// (unused fields between signature and offsetToPointData are zeroed).
func writeMinimalLAS(t *testing.T, path string, points [][3]int32) {
	t.Helper()

	const headerLen = 227
	const recordLen = 20

	buf := make([]byte, headerLen+len(points)*recordLen)
	copy(buf[0:4], "LASF")

	binary.LittleEndian.PutUint32(buf[96:100], headerLen)
	buf[104] = 0
	binary.LittleEndian.PutUint16(buf[105:107], recordLen)
	binary.LittleEndian.PutUint32(buf[107:111], uint32(len(points)))

	putF64 := func(offset int, v float64) {
		binary.LittleEndian.PutUint64(buf[offset:offset+8], math.Float64bits(v))
	}
	putF64(131, 1.0) // scale X
	putF64(139, 1.0) // scale Y
	putF64(147, 1.0) // scale Z
	putF64(155, 0.0) // offset X
	putF64(163, 0.0) // offset Y
	putF64(171, 0.0) // offset Z

	for i, p := range points {
		rec := buf[headerLen+i*recordLen : headerLen+(i+1)*recordLen]
		binary.LittleEndian.PutUint32(rec[0:4], uint32(p[0]))
		binary.LittleEndian.PutUint32(rec[4:8], uint32(p[1]))
		binary.LittleEndian.PutUint32(rec[8:12], uint32(p[2]))
	}

	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestReadMinimalLAS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.las")
	writeMinimalLAS(t, path, [][3]int32{{1, 2, 3}, {-1, -2, -3}})

	spheres, err := Read(path, DefaultPointRadius)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if len(spheres.Centers) != 2 {
		t.Fatalf("got %d points, want 2", len(spheres.Centers))
	}
	if spheres.Centers[0] != [3]float32{1, 2, 3} {
		t.Errorf("point 0 = %v, want (1,2,3)", spheres.Centers[0])
	}
	if spheres.Radii[0] != DefaultPointRadius {
		t.Errorf("radius = %v, want %v", spheres.Radii[0], DefaultPointRadius)
	}
}

func TestReadBadSignature(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.las")
	if err := os.WriteFile(path, []byte("XXXX"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path, DefaultPointRadius); err == nil {
		t.Fatalf("expected an error for a bad signature")
	}
}
