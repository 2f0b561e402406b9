package services

import (
	"context"
	"fmt"

	"github.com/orcha-labs/orchactl/internal/client/api"
	"github.com/orcha-labs/orchactl/internal/client/models"
	"github.com/orcha-labs/orchactl/internal/client/store"
	"github.com/orcha-labs/orchactl/internal/common"
	"github.com/orcha-labs/orchactl/internal/logging"
)

// AdminMachine is the dashboard-side twin of Machine: same pattern, two
// transitions, no onboarding pipeline. It owns its own API client because
// the admin token must not leak onto user-endpoint requests.
//
// Like Machine, it is not safe for concurrent use.
type AdminMachine struct {
	api   api.AdminAPI
	store *store.Store
	log   logging.Logger

	session *models.AdminSession
}

// NewAdminMachine hydrates the admin session from the store.
func NewAdminMachine(ctx context.Context, apiClient api.AdminAPI, st *store.Store, log logging.Logger) (*AdminMachine, error) {
	snap, err := st.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session store: %w", err)
	}

	m := &AdminMachine{api: apiClient, store: st, log: log.With("component", "admin")}
	if snap.Admin != nil {
		m.session = snap.Admin
		m.api.SetToken(snap.Admin.Token)
	}
	return m, nil
}

func (m *AdminMachine) IsAuthenticated() bool { return m.session != nil }

// Admin returns the logged-in admin's username, or "".
func (m *AdminMachine) Admin() string {
	if m.session == nil {
		return ""
	}
	return m.session.Admin
}

// Login authenticates against the admin endpoints and persists the session.
func (m *AdminMachine) Login(ctx context.Context, username, password string) error {
	session, err := m.api.AdminLogin(ctx, username, password)
	if err != nil {
		return err
	}

	if err := m.store.SaveAdminSession(ctx, session); err != nil {
		return err
	}

	m.session = session
	m.api.SetToken(session.Token)
	return nil
}

// Logout clears the admin session. Memory always resets; a store error is
// still reported.
func (m *AdminMachine) Logout(ctx context.Context) error {
	err := m.store.ClearAdmin(ctx)

	m.session = nil
	m.api.ClearToken()

	if err != nil {
		m.log.Error(ctx, "failed to clear admin session on logout", "error", err)
	}
	return err
}

// ListUsers returns the user listing with aggregate stats.
func (m *AdminMachine) ListUsers(ctx context.Context) (*api.AdminUsersPage, error) {
	if m.session == nil {
		return nil, fmt.Errorf("not authenticated: %w", common.ErrUnauthorized)
	}
	return m.api.ListUsers(ctx)
}

// DeleteUser removes a user by id.
func (m *AdminMachine) DeleteUser(ctx context.Context, id int64) error {
	if m.session == nil {
		return fmt.Errorf("not authenticated: %w", common.ErrUnauthorized)
	}
	return m.api.DeleteUser(ctx, id)
}

// UpdateCredentials changes the admin's own username and/or password. On a
// username change the cached session record is updated to match.
func (m *AdminMachine) UpdateCredentials(ctx context.Context, currentPassword, newUsername, newPassword string) error {
	if m.session == nil {
		return fmt.Errorf("not authenticated: %w", common.ErrUnauthorized)
	}

	if err := m.api.UpdateCredentials(ctx, currentPassword, newUsername, newPassword); err != nil {
		return err
	}

	if newUsername != "" && newUsername != m.session.Admin {
		updated := &models.AdminSession{Token: m.session.Token, Admin: newUsername}
		if err := m.store.SaveAdminSession(ctx, updated); err != nil {
			return err
		}
		m.session = updated
	}
	return nil
}
