package memory

import (
	"context"
	"testing"

	"metalwatch/internal/metals"
)

// go test -v --run TestSaveAndLoad
func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	if _, ok, _ := store.Load(ctx); ok {
		t.Fatal("expected empty store")
	}

	want := metals.Snapshot{Gold: 6250, Silver: 74500}
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok, err := store.Load(ctx)
	if err != nil || !ok || got != want {
		t.Fatalf("load: got %+v ok=%v err=%v", got, ok, err)
	}
	if saves := store.Saves(); len(saves) != 1 {
		t.Errorf("expected 1 save, got %d", len(saves))
	}
}
