package invalidation

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"testing"

	"github.com/digitallabs/icp-engine/cache"
	"github.com/digitallabs/icp-engine/pkg/testsupport"
)

func TestEventKeys(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want []string
	}{
		{
			name: "company write clears list, profiles and analysis",
			ev:   Event{Kind: KindCompany, OwnerID: "u1", CompanyID: 9},
			want: []string{"analysis:9", "company:u1", "icp:9"},
		},
		{
			name: "profile write clears profile and company lists",
			ev:   Event{Kind: KindProfile, OwnerID: "u1", CompanyID: 9},
			want: []string{"company:u1", "icp:9"},
		},
		{
			name: "campaign write clears only the campaign list",
			ev:   Event{Kind: KindCampaign, ICPID: "p-1"},
			want: []string{"campaign:p-1"},
		},
		{
			name: "unknown kind has no keys",
			ev:   Event{Kind: "mystery"},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.ev.Keys()
			sort.Strings(got)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestInvalidateDeletesAllScopeKeys(t *testing.T) {
	backend := testsupport.NewFakeBackend()
	store := cache.NewStore(backend, slog.Default(), nil)
	co := NewCoordinator(store, slog.Default())
	ctx := context.Background()

	store.Set(ctx, "company:u1", []byte("x"), 0)
	store.Set(ctx, "icp:9", []byte("x"), 0)
	store.Set(ctx, "analysis:9", []byte("x"), 0)
	store.Set(ctx, "campaign:p-1", []byte("x"), 0)

	co.Invalidate(ctx, Event{Kind: KindCompany, OwnerID: "u1", CompanyID: 9})

	for _, key := range []string{"company:u1", "icp:9", "analysis:9"} {
		if backend.Has(key) {
			t.Errorf("key %q should be gone", key)
		}
	}
	if !backend.Has("campaign:p-1") {
		t.Error("campaign list is outside the company scope and must survive")
	}
}

func TestInvalidateIsIdempotent(t *testing.T) {
	backend := testsupport.NewFakeBackend()
	co := NewCoordinator(cache.NewStore(backend, slog.Default(), nil), slog.Default())
	ctx := context.Background()

	ev := Event{Kind: KindProfile, OwnerID: "u1", CompanyID: 9}
	co.Invalidate(ctx, ev)
	co.Invalidate(ctx, ev)

	if len(backend.Deletes) != 4 {
		t.Fatalf("deletes = %d, want 4 (2 keys x 2 rounds)", len(backend.Deletes))
	}
}

func TestInvalidateNeverFails(t *testing.T) {
	backend := testsupport.NewFakeBackend()
	backend.DelErr = errors.New("connection refused")
	co := NewCoordinator(cache.NewStore(backend, slog.Default(), nil), slog.Default())

	// No error channel to assert on: the call just must not panic or block.
	co.Invalidate(context.Background(), Event{Kind: KindCompany, OwnerID: "u1", CompanyID: 9})
	if len(backend.Deletes) != 3 {
		t.Fatalf("all deletes must still be attempted, got %d", len(backend.Deletes))
	}
}
