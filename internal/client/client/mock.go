package client

import (
	"context"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/bikebed/internal/client/models"
	"github.com/dmitrijs2005/bikebed/internal/common"
	"github.com/google/uuid"
)

// DefaultMockDelay imitates network latency.
const DefaultMockDelay = 500 * time.Millisecond

// Demo accounts available on every MockClient.
const (
	DemoGuestEmail    = "guest@bikebed.app"
	DemoGuestPassword = "guest123"
	DemoHostEmail     = "host@bikebed.app"
	DemoHostPassword  = "host123"
)

type mockAccount struct {
	password string
	session  models.Session
}

// MockClient is an in-memory gateway. Sign-ups are kept for the lifetime of
// the value only.
type MockClient struct {
	mu       sync.Mutex
	delay    time.Duration
	accounts map[string]*mockAccount
}

func NewMockClient(delay time.Duration) *MockClient {
	c := &MockClient{delay: delay, accounts: make(map[string]*mockAccount)}
	c.add(DemoGuestEmail, DemoGuestPassword, models.Metadata{
		common.RoleMetadataKey: common.RoleGuestUser,
		"name":                 "Alex Rider",
		"phone":                "+34 600 111 222",
		"avatar":               "https://i.pravatar.cc/150?u=guest",
	})
	c.add(DemoHostEmail, DemoHostPassword, models.Metadata{
		common.RoleMetadataKey: common.RoleHost,
		"name":                 "Maria Lopez",
		"phone":                "+34 600 333 444",
		"address":              "Carrer de Mallorca 12, Girona",
		"avatar":               "https://i.pravatar.cc/150?u=host",
	})
	return c
}

func (c *MockClient) add(email, password string, md models.Metadata) *mockAccount {
	a := &mockAccount{
		password: password,
		session:  models.Session{ID: uuid.NewString(), Email: email, Metadata: md},
	}
	c.accounts[normalizeEmail(email)] = a
	return a
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (c *MockClient) wait(ctx context.Context) error {
	if c.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(c.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (c *MockClient) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	a, ok := c.accounts[normalizeEmail(email)]
	if !ok || a.password != password {
		return nil, common.ErrInvalidCredentials
	}
	return a.session.Clone(), nil
}

func (c *MockClient) SignUp(ctx context.Context, email, password string, profile map[string]any) (*models.Session, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.accounts[normalizeEmail(email)]; ok {
		return nil, common.ErrUserAlreadyExists
	}
	md := models.Metadata{}
	maps.Copy(md, profile)
	if r, _ := md[common.RoleMetadataKey].(string); r == "" {
		md[common.RoleMetadataKey] = common.RoleGuestUser
	}
	a := c.add(strings.TrimSpace(email), password, md)
	return a.session.Clone(), nil
}

func (c *MockClient) SignOut(ctx context.Context) error {
	return c.wait(ctx)
}

func (c *MockClient) ResetPassword(ctx context.Context, email string) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.accounts[normalizeEmail(email)]; !ok {
		return common.ErrUserNotFound
	}
	return nil
}

func (c *MockClient) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (c *MockClient) Close() error {
	return nil
}
