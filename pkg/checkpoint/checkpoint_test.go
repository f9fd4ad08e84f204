package checkpoint

import (
	"context"
	"math/rand"
	"testing"

	"github.com/dgraph-io/badger"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/xerrors"

	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
	"github.com/scifi6546/ray-tracing-sub001/pkg/renderer"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Failed to close store: %v", err)
		}
	})
	return store
}

func randomAccumulation(width, height, pass int) renderer.Accumulation {
	random := rand.New(rand.NewSource(42))
	acc := renderer.Accumulation{Width: width, Height: height, Pass: pass, Pixels: renderer.NewPixelBuffer(width, height)}
	for y := range acc.Pixels {
		for x := range acc.Pixels[y] {
			ps := &acc.Pixels[y][x]
			n := 1 + random.Intn(5)
			for i := 0; i < n; i++ {
				ps.AddSample(core.NewColor(random.Float64(), random.Float64()*3, random.Float64()))
			}
			ps.Rejected = random.Intn(2)
		}
	}
	return acc
}

func testIdentity(scene string, width, height int) Identity {
	return Identity{Scene: scene, Width: width, Height: height, Seed: 1, MaxDepth: 50}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	acc := randomAccumulation(7, 5, 3)
	id := testIdentity("cornell", 7, 5)

	if err := store.Save(ctx, id, acc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(got, acc); diff != "" {
		t.Errorf("Accumulation mismatch (-got +want):\n%s", diff)
	}
}

func TestStore_LoadMissing(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	saved := testIdentity("cornell", 7, 5)
	if _, err := store.Load(ctx, saved); !xerrors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for an empty store, got %v", err)
	}

	if err := store.Save(ctx, saved, randomAccumulation(7, 5, 1)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	tests := []struct {
		name   string
		modify func(*Identity)
	}{
		{"Other scene", func(id *Identity) { id.Scene = "spheres" }},
		{"Other width", func(id *Identity) { id.Width = 8 }},
		{"Other height", func(id *Identity) { id.Height = 6 }},
		{"Other seed", func(id *Identity) { id.Seed = 2 }},
		{"Other texture", func(id *Identity) { id.TexturePath = "earth.png" }},
		{"Other depth", func(id *Identity) { id.MaxDepth = 10 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := saved
			tt.modify(&id)
			if _, err := store.Load(ctx, id); !xerrors.Is(err, ErrNotFound) {
				t.Errorf("Expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestStore_SaveOverwritesAndDelete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id := testIdentity("final", 4, 4)

	if err := store.Save(ctx, id, randomAccumulation(4, 4, 1)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(ctx, id, randomAccumulation(4, 4, 2)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load(ctx, id)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Pass != 2 {
		t.Errorf("Expected the later checkpoint (pass 2), got pass %d", got.Pass)
	}

	if err := store.Delete(id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Load(ctx, id); !xerrors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestStore_SaveRejectsWrongSize(t *testing.T) {
	store := openTestStore(t)
	if err := store.Save(context.Background(), testIdentity("final", 4, 4), randomAccumulation(3, 4, 1)); err == nil {
		t.Error("Expected an error saving a buffer that does not match the identity")
	}
}

func TestStore_LoadRejectsForeignFingerprint(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	id := testIdentity("spheres", 4, 4)
	other := id
	other.Seed = 2

	value, err := encodeAccumulation(randomAccumulation(4, 4, 1), other.Fingerprint())
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	err = store.DB.Update(func(txn *badger.Txn) error {
		return txn.Set(AccumulationKey(id), value)
	})
	if err != nil {
		t.Fatalf("Failed to write value: %v", err)
	}

	if _, err := store.Load(ctx, id); err == nil || xerrors.Is(err, ErrNotFound) {
		t.Errorf("Expected a fingerprint mismatch error, got %v", err)
	}
}

func TestDecodeAccumulation_RejectsCorruptValues(t *testing.T) {
	value, err := encodeAccumulation(randomAccumulation(3, 2, 1), 7)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	tests := map[string][]byte{
		"empty":     nil,
		"truncated": value[:len(value)-8],
		"header":    value[:headerSize-4],
		"version":   append([]byte{0, 0, 0, 9}, value[4:]...),
	}
	for name, corrupt := range tests {
		t.Run(name, func(t *testing.T) {
			if _, _, err := decodeAccumulation(corrupt); err == nil {
				t.Error("Expected an error for a corrupt value")
			}
		})
	}
}

func TestEncodeAccumulation_RejectsRaggedBuffer(t *testing.T) {
	acc := randomAccumulation(3, 2, 1)
	acc.Pixels[1] = acc.Pixels[1][:2]
	if _, err := encodeAccumulation(acc, 0); err == nil {
		t.Error("Expected an error for a ragged buffer")
	}
}

func TestAccumulationKey_Distinct(t *testing.T) {
	a := AccumulationKey(testIdentity("cornell", 100, 50))
	b := AccumulationKey(testIdentity("cornell", 50, 100))
	if string(a) == string(b) {
		t.Error("Expected keys to differ when width and height are swapped")
	}

	seeded := testIdentity("cornell", 100, 50)
	seeded.Seed = 0
	if string(AccumulationKey(seeded)) == string(a) {
		t.Error("Expected keys to differ when only the seed changes")
	}
}
