// Package lasreader decodes LAS LiDAR point-cloud files into a
// bvh.SphereSet, matching the point-splatting approach used by nanort's
// own LAS example renderer (each point becomes a small sphere of a fixed
// radius). There is no Go LAS-parsing library anywhere in the reference
// pack, so this reads the (well-documented, binary-stable) LAS 1.2 public
// header block and point data records 0/1 directly with encoding/binary.
package lasreader

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/Mu-L/nanort/bvh"
	"github.com/Mu-L/nanort/log"
	"github.com/Mu-L/nanort/types"
)

var logger = log.New("lasreader")

// ErrBadSignature is returned when the file does not start with the LAS
// magic bytes "LASF".
var ErrBadSignature = fmt.Errorf("lasreader: missing LASF signature")

// DefaultPointRadius is the splat radius assigned to every point when the
// caller does not override it.
const DefaultPointRadius float32 = 0.01

type header struct {
	offsetToPointData    uint32
	pointDataFormat      uint8
	pointDataRecordLen   uint16
	numPointRecords      uint32
	scaleX, scaleY, scaleZ float64
	offX, offY, offZ       float64
}

// Read parses path and returns a SphereSet with one sphere per LAS point,
// all sharing radius. Color/intensity fields present in the point records
// are not surfaced (no shading model; see Non-goals).
func Read(path string, radius float32) (*bvh.SphereSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	hdr, err := readHeader(f)
	if err != nil {
		return nil, err
	}

	if _, err := f.Seek(int64(hdr.offsetToPointData), io.SeekStart); err != nil {
		return nil, err
	}

	centers := make([]types.Vec3, hdr.numPointRecords)
	radii := make([]float32, hdr.numPointRecords)

	rec := make([]byte, hdr.pointDataRecordLen)
	for i := uint32(0); i < hdr.numPointRecords; i++ {
		if _, err := io.ReadFull(f, rec); err != nil {
			return nil, fmt.Errorf("lasreader: reading point record %d: %w", i, err)
		}

		rawX := int32(binary.LittleEndian.Uint32(rec[0:4]))
		rawY := int32(binary.LittleEndian.Uint32(rec[4:8]))
		rawZ := int32(binary.LittleEndian.Uint32(rec[8:12]))

		centers[i] = types.XYZ(
			float32(float64(rawX)*hdr.scaleX+hdr.offX),
			float32(float64(rawY)*hdr.scaleY+hdr.offY),
			float32(float64(rawZ)*hdr.scaleZ+hdr.offZ),
		)
		radii[i] = radius
	}

	logger.Debugf("lasreader: read %d points from %q (format %d)", hdr.numPointRecords, path, hdr.pointDataFormat)

	return &bvh.SphereSet{Centers: centers, Radii: radii}, nil
}

// readHeader parses the fields of the LAS 1.x public header block needed
// to locate and decode point records; unused header fields (GUID, bounding
// box, VLR count, ...) are skipped via absolute offsets rather than a
// full struct decode.
func readHeader(f *os.File) (header, error) {
	var sig [4]byte
	if _, err := io.ReadFull(f, sig[:]); err != nil {
		return header{}, err
	}
	if string(sig[:]) != "LASF" {
		return header{}, ErrBadSignature
	}

	buf := make([]byte, 227-4)
	if _, err := io.ReadFull(f, buf); err != nil {
		return header{}, err
	}

	// Offsets below are relative to the start of buf, i.e. absolute
	// offset - 4, per the LAS 1.2 public header block layout.
	h := header{
		offsetToPointData:  binary.LittleEndian.Uint32(buf[96-4 : 100-4]),
		pointDataFormat:    buf[104-4],
		pointDataRecordLen: binary.LittleEndian.Uint16(buf[105-4 : 107-4]),
		numPointRecords:    binary.LittleEndian.Uint32(buf[107-4 : 111-4]),
		scaleX:             readFloat64(buf, 131-4),
		scaleY:             readFloat64(buf, 139-4),
		scaleZ:             readFloat64(buf, 147-4),
		offX:               readFloat64(buf, 155-4),
		offY:               readFloat64(buf, 163-4),
		offZ:               readFloat64(buf, 171-4),
	}

	if h.pointDataRecordLen == 0 {
		return header{}, fmt.Errorf("lasreader: zero-length point data record")
	}

	return h, nil
}

func readFloat64(buf []byte, offset int) float64 {
	bits := binary.LittleEndian.Uint64(buf[offset : offset+8])
	return math.Float64frombits(bits)
}
