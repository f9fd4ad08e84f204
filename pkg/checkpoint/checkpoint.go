// Package checkpoint persists a progressive render's accumulation buffer in
// a badger key-value store so an interrupted render can resume.
package checkpoint

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash"
	"github.com/dgraph-io/badger"
	"github.com/golang/glog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/xerrors"

	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
	"github.com/scifi6546/ray-tracing-sub001/pkg/renderer"
)

// ErrNotFound is returned by Load when no checkpoint exists for the key
var ErrNotFound = xerrors.New("checkpoint not found")

// Key prefixes that denote different tables in the key-value store.
const (
	KeyTypeAccumulation uint32 = 0
)

// formatVersion is stored in every value and bumped on layout changes
const formatVersion uint32 = 2

// headerSize is the encoded size of the value header
const headerSize = 4*4 + 8

// pixelRecordSize is the encoded size of one PixelStats
const pixelRecordSize = 5*8 + 2*8

// Identity describes the world a buffer was accumulated for. A checkpoint
// only resumes a render whose Identity matches exactly.
type Identity struct {
	Scene         string
	Width, Height int
	Seed          int64
	TexturePath   string
	MaxDepth      int
}

// Fingerprint hashes the settings that change what the scene builds or how
// its paths are traced
func (id Identity) Fingerprint() uint64 {
	h := xxhash.New()
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[0:8], uint64(id.Seed))
	binary.BigEndian.PutUint64(buf[8:16], uint64(id.MaxDepth))
	h.Write(buf[:])
	h.Write([]byte(id.TexturePath))
	return h.Sum64()
}

// AccumulationKey identifies the buffer of one world at one resolution
func AccumulationKey(id Identity) []byte {
	key := make([]byte, 20+len(id.Scene))
	binary.BigEndian.PutUint32(key[0:4], KeyTypeAccumulation)
	binary.BigEndian.PutUint32(key[4:8], uint32(id.Width))
	binary.BigEndian.PutUint32(key[8:12], uint32(id.Height))
	binary.BigEndian.PutUint64(key[12:20], id.Fingerprint())
	copy(key[20:], id.Scene)
	return key
}

// Store is a checkpoint database
type Store struct {
	DB *badger.DB
}

// Open opens or creates the store in dir
func Open(dir string) (*Store, error) {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(badgerLogger{}))
	if err != nil {
		return nil, xerrors.Errorf("while opening badger kv dir %q: %w", dir, err)
	}
	return &Store{DB: db}, nil
}

// Close flushes and closes the store
func (s *Store) Close() error {
	if err := s.DB.Close(); err != nil {
		return xerrors.Errorf("while closing checkpoint store: %w", err)
	}
	return nil
}

// Save stores acc for id, replacing any earlier checkpoint
func (s *Store) Save(ctx context.Context, id Identity, acc renderer.Accumulation) error {
	tracer := otel.Tracer("ray-tracing/checkpoint")
	var span trace.Span
	_, span = tracer.Start(ctx, "Store.Save")
	defer span.End()
	span.SetAttributes(attribute.String("scene", id.Scene), attribute.Int("pass", acc.Pass))

	if acc.Width != id.Width || acc.Height != id.Height {
		return xerrors.Errorf("checkpoint for %q is %dx%d, want %dx%d", id.Scene, acc.Width, acc.Height, id.Width, id.Height)
	}
	value, err := encodeAccumulation(acc, id.Fingerprint())
	if err != nil {
		return xerrors.Errorf("while encoding checkpoint for %q: %w", id.Scene, err)
	}

	key := AccumulationKey(id)
	err = s.DB.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
	if err != nil {
		return xerrors.Errorf("while writing checkpoint for %q: %w", id.Scene, err)
	}

	glog.V(1).Infof("Saved checkpoint for %q at pass %d (%d bytes)", id.Scene, acc.Pass, len(value))
	return nil
}

// Load returns the checkpoint for id, or ErrNotFound
func (s *Store) Load(ctx context.Context, id Identity) (renderer.Accumulation, error) {
	tracer := otel.Tracer("ray-tracing/checkpoint")
	var span trace.Span
	_, span = tracer.Start(ctx, "Store.Load")
	defer span.End()
	span.SetAttributes(attribute.String("scene", id.Scene))

	var value []byte
	err := s.DB.View(func(txn *badger.Txn) error {
		item, err := txn.Get(AccumulationKey(id))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if xerrors.Is(err, badger.ErrKeyNotFound) {
		return renderer.Accumulation{}, ErrNotFound
	} else if err != nil {
		return renderer.Accumulation{}, xerrors.Errorf("while reading checkpoint for %q: %w", id.Scene, err)
	}

	acc, fingerprint, err := decodeAccumulation(value)
	if err != nil {
		return renderer.Accumulation{}, xerrors.Errorf("while decoding checkpoint for %q: %w", id.Scene, err)
	}
	if want := id.Fingerprint(); fingerprint != want {
		return renderer.Accumulation{}, xerrors.Errorf("checkpoint for %q has world fingerprint %016x, want %016x", id.Scene, fingerprint, want)
	}
	if acc.Width != id.Width || acc.Height != id.Height {
		return renderer.Accumulation{}, xerrors.Errorf("checkpoint for %q is %dx%d, want %dx%d", id.Scene, acc.Width, acc.Height, id.Width, id.Height)
	}
	return acc, nil
}

// Delete removes the checkpoint for id
func (s *Store) Delete(id Identity) error {
	err := s.DB.Update(func(txn *badger.Txn) error {
		return txn.Delete(AccumulationKey(id))
	})
	if err != nil {
		return xerrors.Errorf("while deleting checkpoint for %q: %w", id.Scene, err)
	}
	return nil
}

// encodeAccumulation writes a fixed header followed by one record per pixel
// in row-major order
func encodeAccumulation(acc renderer.Accumulation, fingerprint uint64) ([]byte, error) {
	if len(acc.Pixels) != acc.Height {
		return nil, xerrors.Errorf("buffer has %d rows, want %d", len(acc.Pixels), acc.Height)
	}

	buf := bytes.NewBuffer(make([]byte, 0, headerSize+acc.Width*acc.Height*pixelRecordSize))
	header := [4]uint32{formatVersion, uint32(acc.Width), uint32(acc.Height), uint32(acc.Pass)}
	if err := binary.Write(buf, binary.BigEndian, header); err != nil {
		return nil, err
	}
	if err := binary.Write(buf, binary.BigEndian, fingerprint); err != nil {
		return nil, err
	}

	for y, row := range acc.Pixels {
		if len(row) != acc.Width {
			return nil, xerrors.Errorf("row %d has %d pixels, want %d", y, len(row), acc.Width)
		}
		for _, p := range row {
			record := [7]uint64{
				math.Float64bits(p.ColorAccum.R),
				math.Float64bits(p.ColorAccum.G),
				math.Float64bits(p.ColorAccum.B),
				math.Float64bits(p.LuminanceAccum),
				math.Float64bits(p.LuminanceSqAccum),
				uint64(p.SampleCount),
				uint64(p.Rejected),
			}
			if err := binary.Write(buf, binary.BigEndian, record); err != nil {
				return nil, err
			}
		}
	}
	return buf.Bytes(), nil
}

// decodeAccumulation returns the buffer and the world fingerprint it was
// saved with
func decodeAccumulation(value []byte) (renderer.Accumulation, uint64, error) {
	r := bytes.NewReader(value)

	var header [4]uint32
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return renderer.Accumulation{}, 0, xerrors.Errorf("while reading header: %w", err)
	}
	if header[0] != formatVersion {
		return renderer.Accumulation{}, 0, xerrors.Errorf("unsupported checkpoint version %d", header[0])
	}
	var fingerprint uint64
	if err := binary.Read(r, binary.BigEndian, &fingerprint); err != nil {
		return renderer.Accumulation{}, 0, xerrors.Errorf("while reading fingerprint: %w", err)
	}

	width, height := int(header[1]), int(header[2])
	if want := width * height * pixelRecordSize; r.Len() != want {
		return renderer.Accumulation{}, 0, xerrors.Errorf("body has %d bytes, want %d", r.Len(), want)
	}

	acc := renderer.Accumulation{
		Width:  width,
		Height: height,
		Pass:   int(header[3]),
		Pixels: renderer.NewPixelBuffer(width, height),
	}
	for y := range acc.Pixels {
		for x := range acc.Pixels[y] {
			var record [7]uint64
			if err := binary.Read(r, binary.BigEndian, &record); err != nil {
				return renderer.Accumulation{}, 0, xerrors.Errorf("while reading pixel (%d,%d): %w", x, y, err)
			}
			acc.Pixels[y][x] = renderer.PixelStats{
				ColorAccum: core.NewColor(
					math.Float64frombits(record[0]),
					math.Float64frombits(record[1]),
					math.Float64frombits(record[2]),
				),
				LuminanceAccum:   math.Float64frombits(record[3]),
				LuminanceSqAccum: math.Float64frombits(record[4]),
				SampleCount:      int(record[5]),
				Rejected:         int(record[6]),
			}
		}
	}
	return acc, fingerprint, nil
}

// badgerLogger routes badger's logs to glog, demoting its chatter to V(2)
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{})   { glog.Errorf(format, args...) }
func (badgerLogger) Warningf(format string, args ...interface{}) { glog.Warningf(format, args...) }
func (badgerLogger) Infof(format string, args ...interface{})    { glog.V(2).Infof(format, args...) }
func (badgerLogger) Debugf(format string, args ...interface{})   { glog.V(3).Infof(format, args...) }
