// package playlists manages playlist lifecycle, membership and track ordering
//
// Durable state lives in the document store; every Playlist value returned
// here is a projection fetched on demand, never an authoritative cache.
package playlists

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Hardrivetech/wavebeat/internal/shared"
	"github.com/Hardrivetech/wavebeat/internal/store"
	"github.com/charmbracelet/log"
)

// CollectionPlaylists holds playlist documents keyed by store-assigned ID.
const CollectionPlaylists = "playlists"

// Playlist is the local projection of a playlist document.
//
// TrackIDs is ordered and may contain duplicates; Collaborators is a set that
// always contains the owner at creation time.
type Playlist struct {
	ID            string
	OwnerID       string
	Name          string
	TrackIDs      []string
	Collaborators []string
	CreatedAt     time.Time
}

// PlaylistPatch enumerates the playlist fields an update may touch.
type PlaylistPatch struct {
	Name *string
}

func (p PlaylistPatch) fields() map[string]any {
	out := make(map[string]any)
	if p.Name != nil {
		out["name"] = *p.Name
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Store provides playlist operations over the document store.
type Store struct {
	docs   store.Store
	logger *log.Logger
}

// NewStore creates a playlist Store.
func NewStore(docs store.Store, logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Store{docs: docs, logger: logger}
}

// Create writes a new playlist document with no tracks and the owner as its
// first collaborator, and returns the locally constructed projection without
// re-reading the document.
func (s *Store) Create(ctx context.Context, ownerID, name string) (*Playlist, error) {
	if ownerID == "" || name == "" {
		return nil, fmt.Errorf("%w: owner and name are required", shared.ErrMissingArgument)
	}

	now := time.Now()
	fields := map[string]any{
		"ownerId":       ownerID,
		"name":          name,
		"trackIds":      []string{},
		"collaborators": []string{ownerID},
		"createdAt":     store.Timestamp(now),
	}

	id, err := s.docs.Create(ctx, CollectionPlaylists, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}

	return &Playlist{
		ID:            id,
		OwnerID:       ownerID,
		Name:          name,
		TrackIDs:      []string{},
		Collaborators: []string{ownerID},
		CreatedAt:     now,
	}, nil
}

// Get returns the playlist with the given ID, or nil when it does not exist.
func (s *Store) Get(ctx context.Context, id string) (*Playlist, error) {
	if id == "" {
		return nil, nil
	}

	doc, err := s.docs.Get(ctx, CollectionPlaylists, id)
	if errors.Is(err, shared.ErrDocumentNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist: %w", err)
	}

	return fromDocument(doc), nil
}

// ListForUser returns every playlist whose collaborator set contains uid.
// Order is store-defined and not guaranteed stable across calls.
func (s *Store) ListForUser(ctx context.Context, uid string) ([]*Playlist, error) {
	if uid == "" {
		return nil, nil
	}

	docs, err := s.docs.FindArrayContains(ctx, CollectionPlaylists, "collaborators", uid)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}

	playlists := make([]*Playlist, len(docs))
	for i, doc := range docs {
		playlists[i] = fromDocument(doc)
	}
	return playlists, nil
}

// AddTrack atomically adds trackID to the playlist's track list.
//
// The store primitive is a set union over the ordered list: a track already
// present anywhere in the list is not added again. Callers needing duplicate
// entries must go through SetTrackOrder.
func (s *Store) AddTrack(ctx context.Context, id, trackID string) error {
	return s.docs.ArrayUnion(ctx, CollectionPlaylists, id, "trackIds", trackID)
}

// RemoveTrack atomically removes trackID from the playlist's track list.
//
// Set semantics again: every occurrence of the track is removed, not one.
func (s *Store) RemoveTrack(ctx context.Context, id, trackID string) error {
	return s.docs.ArrayRemove(ctx, CollectionPlaylists, id, "trackIds", trackID)
}

// SetTrackOrder overwrites the full track list with orderedTrackIDs.
//
// This is a non-atomic full overwrite: two concurrent reorders race
// last-write-wins with no merge or conflict detection.
func (s *Store) SetTrackOrder(ctx context.Context, id string, orderedTrackIDs []string) error {
	if orderedTrackIDs == nil {
		orderedTrackIDs = []string{}
	}
	if err := s.docs.Merge(ctx, CollectionPlaylists, id, map[string]any{"trackIds": orderedTrackIDs}); err != nil {
		return fmt.Errorf("failed to set track order: %w", err)
	}
	return nil
}

// AddCollaborator atomically adds uid to the playlist's collaborator set.
func (s *Store) AddCollaborator(ctx context.Context, id, uid string) error {
	return s.docs.ArrayUnion(ctx, CollectionPlaylists, id, "collaborators", uid)
}

// RemoveCollaborator atomically removes uid from the playlist's collaborator
// set. Removing the owner is not prevented here; owner membership is a
// creation-time guarantee only.
func (s *Store) RemoveCollaborator(ctx context.Context, id, uid string) error {
	return s.docs.ArrayRemove(ctx, CollectionPlaylists, id, "collaborators", uid)
}

// Delete removes the playlist unconditionally. Authorization, if any, lives
// in the store's access-control layer, not here.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.docs.Delete(ctx, CollectionPlaylists, id); err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	return nil
}

// Update merges the patch into the playlist document.
func (s *Store) Update(ctx context.Context, id string, patch PlaylistPatch) error {
	fields := patch.fields()
	if fields == nil {
		return fmt.Errorf("%w: empty playlist patch", shared.ErrMissingArgument)
	}

	if err := s.docs.Merge(ctx, CollectionPlaylists, id, fields); err != nil {
		return fmt.Errorf("failed to update playlist: %w", err)
	}
	return nil
}

func fromDocument(doc *store.Document) *Playlist {
	trackIDs := doc.Strings("trackIds")
	if trackIDs == nil {
		trackIDs = []string{}
	}

	return &Playlist{
		ID:            doc.Key,
		OwnerID:       doc.String("ownerId"),
		Name:          doc.String("name"),
		TrackIDs:      trackIDs,
		Collaborators: doc.Strings("collaborators"),
		CreatedAt:     doc.Time("createdAt"),
	}
}
