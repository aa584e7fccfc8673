// package identity manages accounts, profiles and the authenticated session
//
// Accounts are a credential document plus a profile document. The two writes
// are not transactional: a signup whose credential write lands but whose
// profile write fails leaves an account without a profile, surfaced as
// [shared.ProfileWriteError] and repairable by the caller.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Hardrivetech/wavebeat/internal/shared"
	"github.com/Hardrivetech/wavebeat/internal/store"
	"github.com/alexedwards/argon2id"
	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
)

const (
	// CollectionUsers holds profile documents keyed by account UID.
	CollectionUsers = "users"
	// CollectionCredentials holds credential documents keyed by lowercased email.
	CollectionCredentials = "credentials"
)

// User is the local projection of a profile document.
type User struct {
	UID         string
	DisplayName string
	Email       string
	CreatedAt   time.Time
	LikedSongs  []string
}

// ProfilePatch enumerates the profile fields an update may touch. Nil fields
// are left untouched. Anything else cannot reach the store from here.
type ProfilePatch struct {
	DisplayName *string
	Email       *string
}

// fields returns the patch as document fields, or nil when the patch is empty.
func (p ProfilePatch) fields() map[string]any {
	out := make(map[string]any)
	if p.DisplayName != nil {
		out["displayName"] = *p.DisplayName
	}
	if p.Email != nil {
		out["email"] = *p.Email
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// signupInput carries signup arguments through validation.
type signupInput struct {
	Email       string `validate:"required,email"`
	Password    string `validate:"required,min=8"`
	DisplayName string `validate:"required"`
}

// Manager owns signup, login, logout and profile access, and transitions the
// injected [SessionState].
type Manager struct {
	store    store.Store
	sessions *SessionState
	validate *validator.Validate
	logger   *log.Logger
}

// NewManager creates a Manager over the given store and session state.
func NewManager(s store.Store, sessions *SessionState, logger *log.Logger) *Manager {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Manager{
		store:    s,
		sessions: sessions,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// Sessions returns the session state this manager transitions.
func (m *Manager) Sessions() *SessionState {
	return m.sessions
}

// Signup creates a credential, opens a session, then writes the initial
// profile document with an empty liked-songs set.
//
// The profile write is a second, non-transactional step. When it fails the
// account already exists and is authenticated; the returned
// [shared.ProfileWriteError] carries the UID so the caller can repair the
// missing profile.
func (m *Manager) Signup(ctx context.Context, email, password, displayName string) (*Session, error) {
	in := signupInput{Email: email, Password: password, DisplayName: displayName}
	if err := m.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrWeakCredential, err)
	}

	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	uid := shared.GenerateID()
	now := time.Now()

	credential := map[string]any{
		"uid":           uid,
		"email":         email,
		"password_hash": hash,
		"created_at":    store.Timestamp(now),
	}

	// The insert is the duplicate check. Two racing signups for one email
	// cannot both claim the credential key.
	if err := m.store.Insert(ctx, CollectionCredentials, credentialKey(email), credential); err != nil {
		if errors.Is(err, shared.ErrDocumentExists) {
			return nil, fmt.Errorf("%w: %s", shared.ErrDuplicateEmail, email)
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	session := &Session{UID: uid, Email: email, DisplayName: displayName, StartedAt: now}
	m.sessions.set(session)

	profile := map[string]any{
		"displayName": displayName,
		"email":       email,
		"createdAt":   store.Timestamp(now),
		"liked_songs": []string{},
	}
	if err := m.store.Set(ctx, CollectionUsers, uid, profile); err != nil {
		m.logger.Error("account created without profile", "uid", uid, "error", err)
		return session, &shared.ProfileWriteError{UID: uid, Err: err}
	}

	return session, nil
}

// Login authenticates an email/password pair and opens a session.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, error) {
	doc, err := m.store.Get(ctx, CollectionCredentials, credentialKey(email))
	if err != nil {
		// Indistinguishable from a bad password on purpose.
		return nil, fmt.Errorf("%w for %s", shared.ErrAuthFailed, email)
	}

	match, err := argon2id.ComparePasswordAndHash(password, doc.String("password_hash"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	if !match {
		return nil, fmt.Errorf("%w for %s", shared.ErrAuthFailed, email)
	}

	uid := doc.String("uid")
	session := &Session{UID: uid, Email: doc.String("email"), StartedAt: time.Now()}

	if profile, err := m.GetProfile(ctx, uid); err == nil && profile != nil {
		session.DisplayName = profile.DisplayName
	}

	m.sessions.set(session)
	return session, nil
}

// Logout clears the session. It always succeeds locally.
func (m *Manager) Logout() {
	m.sessions.set(nil)
}

// ExpireSession clears the session in response to an external expiry signal.
func (m *Manager) ExpireSession() {
	if m.sessions.Current() != nil {
		m.logger.Warn("session expired externally")
	}
	m.sessions.set(nil)
}

// ObserveSession registers fn on the session state. See [SessionState.Observe].
func (m *Manager) ObserveSession(fn func(*Session)) (unsubscribe func()) {
	return m.sessions.Observe(fn)
}

// GetProfile returns the profile for uid, or nil when the account has no
// profile document. The missing-profile case is loggable but recoverable,
// so it is not an error.
func (m *Manager) GetProfile(ctx context.Context, uid string) (*User, error) {
	if uid == "" {
		return nil, nil
	}

	doc, err := m.store.Get(ctx, CollectionUsers, uid)
	if errors.Is(err, shared.ErrDocumentNotFound) {
		m.logger.Warn("no profile document for account", "uid", uid)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	return userFromDocument(doc), nil
}

// UpdateProfile merges the patch into the profile document.
func (m *Manager) UpdateProfile(ctx context.Context, uid string, patch ProfilePatch) error {
	fields := patch.fields()
	if fields == nil {
		return fmt.Errorf("%w: empty profile patch", shared.ErrMissingArgument)
	}

	if err := m.store.Merge(ctx, CollectionUsers, uid, fields); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// FindUserByEmail returns the profile whose email field matches, or nil when
// no such user exists. Used to resolve collaborators by address.
func (m *Manager) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	doc, err := m.store.FindFieldEquals(ctx, CollectionUsers, "email", email)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	if doc == nil {
		return nil, nil
	}
	return userFromDocument(doc), nil
}

func userFromDocument(doc *store.Document) *User {
	return &User{
		UID:         doc.Key,
		DisplayName: doc.String("displayName"),
		Email:       doc.String("email"),
		CreatedAt:   doc.Time("createdAt"),
		LikedSongs:  doc.Strings("liked_songs"),
	}
}

// credentialKey normalizes an email address into a credential document key.
func credentialKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
