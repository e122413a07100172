package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/bluesky-social/indigo/atproto/auth/oauth"
	"github.com/bluesky-social/indigo/atproto/syntax"
)

const (
	sessionsCollection = "sessions"
	requestsCollection = "requests"
	browsersCollection = "browsers"
	pendingCollection  = "pending"
)

// var _ ensures that FileStore implements the oauth.ClientAuthStore interface at compile time.
var _ oauth.ClientAuthStore = (*FileStore)(nil)

// BrowserBinding records which OAuth session a browser last used.
type BrowserBinding struct {
	BrowserID string    `json:"browser_id"`
	DID       string    `json:"did"`
	SessionID string    `json:"session_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PendingSignIn records an interactive flow the browser left for and has not
// yet come back from.
type PendingSignIn struct {
	BrowserID    string    `json:"browser_id"`
	ProviderHint string    `json:"provider_hint"`
	StartedAt    time.Time `json:"started_at"`
}

// FileStore persists OAuth client sessions, pending authorization requests
// and browser bindings as JSON documents.
type FileStore struct {
	docs *AferoStore
	now  func() time.Time
}

// NewFileStore creates a FileStore on top of the given document store.
func NewFileStore(docs *AferoStore) *FileStore {
	return &FileStore{
		docs: docs,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func sessionKey(did syntax.DID, sessionID string) string {
	return did.String() + "_" + sessionID
}

// GetSession implements oauth.ClientAuthStore.
func (s *FileStore) GetSession(ctx context.Context, did syntax.DID, sessionID string) (*oauth.ClientSessionData, error) {
	var sess oauth.ClientSessionData
	if err := s.docs.Read(sessionsCollection, sessionKey(did, sessionID), &sess); err != nil {
		return nil, fmt.Errorf("failed to load oauth session: %w", err)
	}
	return &sess, nil
}

// SaveSession implements oauth.ClientAuthStore.
func (s *FileStore) SaveSession(ctx context.Context, sess oauth.ClientSessionData) error {
	return s.docs.Write(sessionsCollection, sessionKey(sess.AccountDID, sess.SessionID), sess)
}

// DeleteSession implements oauth.ClientAuthStore.
func (s *FileStore) DeleteSession(ctx context.Context, did syntax.DID, sessionID string) error {
	return s.docs.Delete(sessionsCollection, sessionKey(did, sessionID))
}

// GetAuthRequestInfo implements oauth.ClientAuthStore.
func (s *FileStore) GetAuthRequestInfo(ctx context.Context, state string) (*oauth.AuthRequestData, error) {
	var info oauth.AuthRequestData
	if err := s.docs.Read(requestsCollection, state, &info); err != nil {
		return nil, fmt.Errorf("failed to load auth request: %w", err)
	}
	return &info, nil
}

// SaveAuthRequestInfo implements oauth.ClientAuthStore.
func (s *FileStore) SaveAuthRequestInfo(ctx context.Context, info oauth.AuthRequestData) error {
	return s.docs.Write(requestsCollection, info.State, info)
}

// DeleteAuthRequestInfo implements oauth.ClientAuthStore.
func (s *FileStore) DeleteAuthRequestInfo(ctx context.Context, state string) error {
	return s.docs.Delete(requestsCollection, state)
}

// GetBinding returns the session the browser last used, or an error wrapping
// domain.ErrNotFound.
func (s *FileStore) GetBinding(ctx context.Context, browserID string) (*BrowserBinding, error) {
	var b BrowserBinding
	if err := s.docs.Read(browsersCollection, browserID, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// SaveBinding binds the browser to an OAuth session.
func (s *FileStore) SaveBinding(ctx context.Context, browserID, did, sessionID string) error {
	return s.docs.Write(browsersCollection, browserID, BrowserBinding{
		BrowserID: browserID,
		DID:       did,
		SessionID: sessionID,
		UpdatedAt: s.now(),
	})
}

// DeleteBinding forgets the browser's session.
func (s *FileStore) DeleteBinding(ctx context.Context, browserID string) error {
	return s.docs.Delete(browsersCollection, browserID)
}

// GetPending returns the browser's outstanding sign-in, or an error wrapping
// domain.ErrNotFound.
func (s *FileStore) GetPending(ctx context.Context, browserID string) (*PendingSignIn, error) {
	var p PendingSignIn
	if err := s.docs.Read(pendingCollection, browserID, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SavePending records that the browser was sent to the identity provider.
func (s *FileStore) SavePending(ctx context.Context, browserID, providerHint string) error {
	return s.docs.Write(pendingCollection, browserID, PendingSignIn{
		BrowserID:    browserID,
		ProviderHint: providerHint,
		StartedAt:    s.now(),
	})
}

// DeletePending clears the browser's outstanding sign-in. Deleting a missing
// record is not an error.
func (s *FileStore) DeletePending(ctx context.Context, browserID string) error {
	return s.docs.Delete(pendingCollection, browserID)
}
