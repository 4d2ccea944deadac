package services

import (
	"bytes"
	"context"
	"errors"
	"maps"
	"sync"

	"github.com/dmitrijs2005/bikebed/internal/client/models"
	"github.com/dmitrijs2005/bikebed/internal/common"
)

var errBoom = errors.New("boom")

// memStore is an in-memory metadata.Repository with injectable failures.
type memStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
	setErr error
	delErr error
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (m *memStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return bytes.Clone(v), nil
}

func (m *memStore) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = bytes.Clone(value)
	return nil
}

func (m *memStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.delErr != nil {
		return m.delErr
	}
	delete(m.data, key)
	return nil
}

func (m *memStore) List(ctx context.Context) (map[string][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.data), nil
}

func (m *memStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.data)
	return nil
}

func (m *memStore) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

// fakeClient is a scripted gateway.
type fakeClient struct {
	mu sync.Mutex

	signInSession *models.Session
	signInErr     error
	signUpErr     error
	signOutErr    error
	resetErr      error

	lastProfile map[string]any
	lastEmail   string
	signOuts    int

	// block, when set, is waited on inside SignIn.
	block chan struct{}
}

func (f *fakeClient) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastEmail = email
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return f.signInSession.Clone(), nil
}

func (f *fakeClient) SignUp(ctx context.Context, email, password string, profile map[string]any) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastEmail = email
	f.lastProfile = profile
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	md := models.Metadata{common.RoleMetadataKey: common.RoleGuestUser}
	maps.Copy(md, profile)
	return &models.Session{ID: "new-id", Email: email, Metadata: md}, nil
}

func (f *fakeClient) SignOut(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signOuts++
	return f.signOutErr
}

func (f *fakeClient) ResetPassword(ctx context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastEmail = email
	return f.resetErr
}

func (f *fakeClient) Ping(ctx context.Context) error { return nil }
func (f *fakeClient) Close() error                   { return nil }

// remoteClient adds the optional remote capabilities.
type remoteClient struct {
	fakeClient

	updateErr   error
	updated     map[string]any
	uploadURL   string
	publicURL   string
	urlErr      error
	contentType string

	access, refresh string
	resumed         []string
}

func (r *remoteClient) UpdateProfile(ctx context.Context, md map[string]any) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updated = maps.Clone(md)
	r.access = "rotated-access"
	return nil
}

func (r *remoteClient) AvatarUploadURL(ctx context.Context, contentType string) (string, string, error) {
	r.contentType = contentType
	return r.uploadURL, r.publicURL, r.urlErr
}

func (r *remoteClient) Resume(access, refresh string) {
	r.access, r.refresh = access, refresh
	r.resumed = append(r.resumed, access)
}

func (r *remoteClient) Tokens() (string, string) {
	return r.access, r.refresh
}

func demoSession() *models.Session {
	return &models.Session{
		ID:    "u-1",
		Email: "ana@example.com",
		Metadata: models.Metadata{
			common.RoleMetadataKey: common.RoleHost,
			"name":                 "Ana",
			"phone":                "+34 600 000 000",
		},
	}
}
