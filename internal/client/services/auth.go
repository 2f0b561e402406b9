// Package services contains the application services of the ORCHA client.
// This file defines the authentication/onboarding state machine: the single
// authority for "is this device authenticated" and for the position in the
// registration pipeline (credentials → invitation → job title → done).
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

// State is the machine's position. Illegal flag combinations are
// unrepresentable: the draft exists exactly in the three pipeline states,
// the session exactly in StateAuthenticated.
type State string

const (
	StateAnonymous State = "anonymous"

	// StatePendingRegistration is the hydration fallback: a persisted draft
	// whose stage flags are missing or contradictory. The pipeline resumes
	// at the invitation step.
	StatePendingRegistration State = "pending-registration"

	StateAwaitingInvitation State = "awaiting-invitation"
	StateAwaitingJobTitle   State = "awaiting-job-title"
	StateAuthenticated      State = "authenticated"
)

// Snapshot is the read surface consumers gate screens on.
type Snapshot struct {
	State             State
	IsAuthenticated   bool
	PendingInvitation bool
	PendingJobTitle   bool
	User              *models.User
	Token             string
}

// Machine is the auth state machine. It hydrates once from the session store
// and, on every successful operation, updates the in-memory state and the
// store together; on failure both are left untouched.
//
// Machine is not safe for concurrent use: callers must not overlap
// operations (the REPL runs one command at a time).
type Machine struct {
	api   api.AuthAPI
	store *store.Store
	log   logging.Logger

	state             State
	session           *models.Session
	draft             *models.PendingRegistration
	pendingInvitation bool
	pendingJobTitle   bool
}

// NewMachine loads the session store and computes the initial state.
func NewMachine(ctx context.Context, apiClient api.AuthAPI, st *store.Store, log logging.Logger) (*Machine, error) {
	snap, err := st.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session store: %w", err)
	}

	m := &Machine{api: apiClient, store: st, log: log.With("component", "auth")}
	m.hydrate(ctx, snap)
	return m, nil
}

// hydrate maps store contents to a state. A draft wins over a co-present
// session; that combination means the store was tampered with, and a
// half-finished registration is the safer reading.
func (m *Machine) hydrate(ctx context.Context, snap *store.Snapshot) {
	switch {
	case snap.Draft != nil:
		if snap.Session != nil {
			m.log.Warn(ctx, "both session and registration draft persisted, preferring draft")
		}
		m.draft = snap.Draft
		switch {
		case snap.PendingJobTitle && !snap.PendingInvitation:
			m.state = StateAwaitingJobTitle
			m.pendingJobTitle = true
		case snap.PendingInvitation && !snap.PendingJobTitle:
			m.state = StateAwaitingInvitation
			m.pendingInvitation = true
		default:
			m.state = StatePendingRegistration
			m.pendingInvitation = true
		}

	case snap.Session != nil:
		m.session = snap.Session
		m.pendingJobTitle = snap.PendingJobTitle
		m.state = StateAuthenticated
		m.api.SetToken(snap.Session.Token)

	default:
		m.state = StateAnonymous
	}

	m.log.Info(ctx, "session hydrated", "state", m.state)
}

// Snapshot returns a copy of the readable state.
func (m *Machine) Snapshot() Snapshot {
	s := Snapshot{
		State:             m.state,
		IsAuthenticated:   m.state == StateAuthenticated,
		PendingInvitation: m.pendingInvitation,
		PendingJobTitle:   m.pendingJobTitle,
	}
	if m.session != nil {
		u := m.session.User
		s.User = &u
		s.Token = m.session.Token
	}
	return s
}

// StartRegistration captures a registration draft and enters the invitation
// stage. Local only, no network call.
func (m *Machine) StartRegistration(ctx context.Context, username, email, password, fullName string) error {
	if m.state != StateAnonymous {
		return fmt.Errorf("start registration from %s: %w", m.state, common.ErrInvalidTransition)
	}

	draft := &models.PendingRegistration{Username: username, Email: email, Password: password, FullName: fullName}
	if err := m.store.SaveDraft(ctx, draft, true, false); err != nil {
		return err
	}

	m.draft = draft
	m.pendingInvitation = true
	m.pendingJobTitle = false
	m.state = StateAwaitingInvitation
	return nil
}

// CompleteInvitation advances the pipeline past the invitation stage. The
// invitation code itself, if the deployment uses one, is verified by the
// backend at registration time; this transition only records the position.
func (m *Machine) CompleteInvitation(ctx context.Context) error {
	if m.state != StateAwaitingInvitation && m.state != StatePendingRegistration {
		return fmt.Errorf("complete invitation from %s: %w", m.state, common.ErrInvalidTransition)
	}

	if err := m.store.SaveFlags(ctx, false, true); err != nil {
		return err
	}

	m.pendingInvitation = false
	m.pendingJobTitle = true
	m.state = StateAwaitingJobTitle
	return nil
}

// CompleteRegistration submits the draft plus the chosen job title to the
// backend. On success the draft is discarded and the returned session is
// adopted. Passing JobTitleNone registers without a title; the session then
// still owes one (PendingJobTitle stays true) and UpdateJobTitle settles it.
func (m *Machine) CompleteRegistration(ctx context.Context, jobTitle models.JobTitle) error {
	if m.state != StateAwaitingJobTitle {
		return fmt.Errorf("complete registration from %s: %w", m.state, common.ErrInvalidTransition)
	}
	if m.draft == nil {
		return common.ErrNoDraft
	}
	if !jobTitle.Valid() {
		return fmt.Errorf("%q: %w", jobTitle, common.ErrInvalidJobTitle)
	}

	req := api.RegisterRequest{
		Username: m.draft.Username,
		Email:    m.draft.Email,
		Password: m.draft.Password,
		FullName: m.draft.FullName,
		JobTitle: jobTitle,
	}
	session, err := m.api.Register(ctx, req)
	if err != nil {
		return err
	}

	stillOwesTitle := jobTitle == models.JobTitleNone
	if err := m.store.SaveSession(ctx, session, stillOwesTitle); err != nil {
		return err
	}

	m.adopt(session, stillOwesTitle)
	return nil
}

// Login is a universal reset: valid from any state, and on success any
// half-finished registration is abandoned along with its flags.
func (m *Machine) Login(ctx context.Context, username, password string) error {
	session, err := m.api.Login(ctx, username, password)
	if err != nil {
		return err
	}

	if err := m.store.SaveSession(ctx, session, false); err != nil {
		return err
	}

	m.adopt(session, false)
	return nil
}

// UpdateJobTitle sets the job title on an existing session. With no active
// session it fails before any network call.
func (m *Machine) UpdateJobTitle(ctx context.Context, jobTitle models.JobTitle) error {
	if m.state != StateAuthenticated || m.session == nil {
		return fmt.Errorf("not authenticated: %w", common.ErrUnauthorized)
	}
	if !jobTitle.Valid() || jobTitle == models.JobTitleNone {
		return fmt.Errorf("%q: %w", jobTitle, common.ErrInvalidJobTitle)
	}

	user, err := m.api.UpdateJobTitle(ctx, jobTitle)
	if err != nil {
		return err
	}

	if err := m.store.SetUser(ctx, user, false); err != nil {
		return err
	}

	m.session.User = *user
	m.pendingJobTitle = false
	return nil
}

// Logout clears the session, the draft and both flags, from any state. The
// in-memory state always resets; a store error is still reported.
func (m *Machine) Logout(ctx context.Context) error {
	err := m.store.Clear(ctx)

	m.api.ClearToken()
	m.session = nil
	m.draft = nil
	m.pendingInvitation = false
	m.pendingJobTitle = false
	m.state = StateAnonymous

	if err != nil {
		m.log.Error(ctx, "failed to clear session store on logout", "error", err)
	}
	return err
}

// RefreshUser fetches a fresh copy of the current user. Any failure is
// treated as "session invalid" and forces a logout; transport failures and
// token rejection are deliberately collapsed into that one path.
func (m *Machine) RefreshUser(ctx context.Context) error {
	if m.state != StateAuthenticated || m.session == nil {
		return fmt.Errorf("not authenticated: %w", common.ErrUnauthorized)
	}

	user, err := m.api.Me(ctx)
	if err != nil {
		m.log.Warn(ctx, "refresh failed, forcing logout", "error", err)
		_ = m.Logout(ctx)
		return err
	}

	if err := m.store.SetUser(ctx, user, m.pendingJobTitle); err != nil {
		return err
	}

	m.session.User = *user
	return nil
}

// adopt installs a freshly returned session after the store write succeeded.
func (m *Machine) adopt(session *models.Session, pendingJobTitle bool) {
	m.session = session
	m.draft = nil
	m.pendingInvitation = false
	m.pendingJobTitle = pendingJobTitle
	m.state = StateAuthenticated
	m.api.SetToken(session.Token)
}
