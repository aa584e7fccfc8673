// package likes maintains the per-user liked-tracks set
package likes

import (
	"context"
	"errors"
	"fmt"

	"github.com/Hardrivetech/wavebeat/internal/identity"
	"github.com/Hardrivetech/wavebeat/internal/shared"
	"github.com/Hardrivetech/wavebeat/internal/store"
	"github.com/charmbracelet/log"
)

// likedField is the array field on the profile document holding liked tracks.
const likedField = "liked_songs"

// Service toggles membership in a user's liked-tracks set.
//
// Both operations ride the store's atomic set primitives and are idempotent:
// liking an already-liked track or unliking an absent one is a no-op success.
type Service struct {
	docs   store.Store
	logger *log.Logger
}

// NewService creates a likes Service.
func NewService(docs store.Store, logger *log.Logger) *Service {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Service{docs: docs, logger: logger}
}

// Like adds trackID to the user's liked set.
func (s *Service) Like(ctx context.Context, uid, trackID string) error {
	if uid == "" || trackID == "" {
		return fmt.Errorf("%w: user and track are required", shared.ErrMissingArgument)
	}
	return s.docs.ArrayUnion(ctx, identity.CollectionUsers, uid, likedField, trackID)
}

// Unlike removes trackID from the user's liked set.
func (s *Service) Unlike(ctx context.Context, uid, trackID string) error {
	if uid == "" || trackID == "" {
		return fmt.Errorf("%w: user and track are required", shared.ErrMissingArgument)
	}
	return s.docs.ArrayRemove(ctx, identity.CollectionUsers, uid, likedField, trackID)
}

// Liked returns the user's liked-track identifiers. A missing profile
// document yields an empty set, matching the profile-lookup contract.
func (s *Service) Liked(ctx context.Context, uid string) ([]string, error) {
	doc, err := s.docs.Get(ctx, identity.CollectionUsers, uid)
	if errors.Is(err, shared.ErrDocumentNotFound) {
		s.logger.Warn("no profile document for account", "uid", uid)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch liked tracks: %w", err)
	}
	return doc.Strings(likedField), nil
}
