package session

import (
	"context"
	"errors"
	"testing"

	"github.com/amanmoon/my-stocks/internal/model"
)

func TestSessionRoundtrip(t *testing.T) {
	store := NewMemorySession()
	ctx := context.Background()

	if _, err := store.GetSession(ctx, "42"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing session: got %v, want ErrNotFound", err)
	}

	want := model.Session{State: model.ExpectingBuyOrder, Bucket: model.BucketPositions}
	if err := store.SetSession(ctx, "42", want); err != nil {
		t.Fatalf("SetSession error: %v", err)
	}

	got, err := store.GetSession(ctx, "42")
	if err != nil {
		t.Fatalf("GetSession error: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
