package likes_test

import (
	"context"
	"slices"
	"testing"

	"github.com/Hardrivetech/wavebeat/internal/identity"
	"github.com/Hardrivetech/wavebeat/internal/likes"
	"github.com/Hardrivetech/wavebeat/internal/shared"
	"github.com/Hardrivetech/wavebeat/internal/store"
	tu "github.com/Hardrivetech/wavebeat/internal/testing"
)

func seedUser(t *testing.T, docs store.Store, uid string) {
	t.Helper()
	fields := map[string]any{
		"displayName": "Ada",
		"email":       uid + "@example.com",
		"liked_songs": []string{},
	}
	if err := docs.Set(context.Background(), identity.CollectionUsers, uid, fields); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
}

func TestLikes(t *testing.T) {
	ctx := context.Background()

	t.Run("Like Is Idempotent", func(t *testing.T) {
		docs := tu.MustOpenStore(t)
		seedUser(t, docs, "u1")
		svc := likes.NewService(docs, shared.NewLogger(nil))

		if err := svc.Like(ctx, "u1", "t1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := svc.Like(ctx, "u1", "t1"); err != nil {
			t.Fatalf("repeat like should succeed, got %v", err)
		}

		liked, err := svc.Liked(ctx, "u1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !slices.Equal(liked, []string{"t1"}) {
			t.Errorf("expected [t1], got %v", liked)
		}
	})

	t.Run("Unlike Absent Track Is A No-Op", func(t *testing.T) {
		docs := tu.MustOpenStore(t)
		seedUser(t, docs, "u1")
		svc := likes.NewService(docs, shared.NewLogger(nil))

		if err := svc.Unlike(ctx, "u1", "never-liked"); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("Like Then Unlike", func(t *testing.T) {
		docs := tu.MustOpenStore(t)
		seedUser(t, docs, "u1")
		svc := likes.NewService(docs, shared.NewLogger(nil))

		for _, id := range []string{"t1", "t2"} {
			if err := svc.Like(ctx, "u1", id); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		}
		if err := svc.Unlike(ctx, "u1", "t1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		liked, err := svc.Liked(ctx, "u1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !slices.Equal(liked, []string{"t2"}) {
			t.Errorf("expected [t2], got %v", liked)
		}
	})

	t.Run("Requires User And Track", func(t *testing.T) {
		docs := tu.MustOpenStore(t)
		svc := likes.NewService(docs, shared.NewLogger(nil))

		if err := svc.Like(ctx, "", "t1"); err == nil {
			t.Error("expected error for missing user")
		}
		if err := svc.Unlike(ctx, "u1", ""); err == nil {
			t.Error("expected error for missing track")
		}
	})

	t.Run("Liked For Missing Profile", func(t *testing.T) {
		docs := tu.MustOpenStore(t)
		svc := likes.NewService(docs, shared.NewLogger(nil))

		liked, err := svc.Liked(ctx, "no-profile")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if liked != nil {
			t.Errorf("expected nil, got %v", liked)
		}
	})
}
