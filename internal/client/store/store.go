// Package store is the durable session store: a small key/value table in a
// local sqlite database that survives restarts. It holds the bearer token,
// the cached user, the onboarding flags and the registration draft, plus the
// admin session under its own keys.
//
// Values that fail to parse are deleted and reported as absent; Load never
// returns a partially hydrated branch and never fails on bad data.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/orcha-labs/orchactl/internal/client/models"
	"github.com/orcha-labs/orchactl/internal/client/store/migrations"
	"github.com/orcha-labs/orchactl/internal/dbx"
	"github.com/orcha-labs/orchactl/internal/logging"

	_ "modernc.org/sqlite"
)

const (
	keyToken               = "token"
	keyUser                = "user"
	keyPendingInvitation   = "pending_invitation"
	keyPendingJobTitle     = "pending_job_title"
	keyPendingRegistration = "pending_registration"
	keyAdminToken          = "admin_token"
	keyAdminUser           = "admin_user"
)

// Store owns the state database. It has no network side effects.
type Store struct {
	db  *sql.DB
	log logging.Logger
}

// Snapshot is everything the store holds, already parsed. Session and Draft
// may both be non-nil if the database was tampered with; the state machine
// resolves that in favor of the draft.
type Snapshot struct {
	Session           *models.Session
	Draft             *models.PendingRegistration
	PendingInvitation bool
	PendingJobTitle   bool
	Admin             *models.AdminSession
}

// Open opens (creating if needed) the state database at dsn and applies
// migrations.
func Open(ctx context.Context, dsn string, log logging.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate state db: %w", err)
	}
	return &Store{db: db, log: log.With("component", "store")}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (s *Store) Close() error { return s.db.Close() }

// Load reads and parses every key. Unparseable values are deleted and
// treated as absent.
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}

	token, err := s.get(ctx, keyToken)
	if err != nil {
		return nil, err
	}
	userRaw, err := s.get(ctx, keyUser)
	if err != nil {
		return nil, err
	}
	if token != nil && userRaw != nil {
		var u models.User
		if err := json.Unmarshal(userRaw, &u); err != nil {
			s.discard(ctx, keyUser, err)
			s.discard(ctx, keyToken, nil)
		} else {
			snap.Session = &models.Session{Token: string(token), User: u}
		}
	} else if token != nil || userRaw != nil {
		// Half a session is no session.
		s.discard(ctx, keyToken, nil)
		s.discard(ctx, keyUser, nil)
	}

	draftRaw, err := s.get(ctx, keyPendingRegistration)
	if err != nil {
		return nil, err
	}
	if draftRaw != nil {
		var d models.PendingRegistration
		if err := json.Unmarshal(draftRaw, &d); err != nil {
			s.discard(ctx, keyPendingRegistration, err)
		} else {
			snap.Draft = &d
		}
	}

	if snap.PendingInvitation, err = s.loadFlag(ctx, keyPendingInvitation); err != nil {
		return nil, err
	}
	if snap.PendingJobTitle, err = s.loadFlag(ctx, keyPendingJobTitle); err != nil {
		return nil, err
	}

	adminToken, err := s.get(ctx, keyAdminToken)
	if err != nil {
		return nil, err
	}
	adminUser, err := s.get(ctx, keyAdminUser)
	if err != nil {
		return nil, err
	}
	if adminToken != nil && adminUser != nil {
		snap.Admin = &models.AdminSession{Token: string(adminToken), Admin: string(adminUser)}
	} else if adminToken != nil || adminUser != nil {
		s.discard(ctx, keyAdminToken, nil)
		s.discard(ctx, keyAdminUser, nil)
	}

	return snap, nil
}

// SaveSession stores the session and removes the registration draft and the
// invitation flag in the same transaction. pendingJobTitle survives a save
// only when the caller says the user still owes a job title.
func (s *Store) SaveSession(ctx context.Context, session *models.Session, pendingJobTitle bool) error {
	userJSON, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := set(ctx, tx, keyToken, []byte(session.Token)); err != nil {
			return err
		}
		if err := set(ctx, tx, keyUser, userJSON); err != nil {
			return err
		}
		if err := del(ctx, tx, keyPendingRegistration); err != nil {
			return err
		}
		if err := del(ctx, tx, keyPendingInvitation); err != nil {
			return err
		}
		return setFlag(ctx, tx, keyPendingJobTitle, pendingJobTitle)
	})
}

// SaveDraft stores the registration draft and the pipeline flags, removing
// any session keys in the same transaction.
func (s *Store) SaveDraft(ctx context.Context, draft *models.PendingRegistration, pendingInvitation, pendingJobTitle bool) error {
	draftJSON, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := set(ctx, tx, keyPendingRegistration, draftJSON); err != nil {
			return err
		}
		if err := del(ctx, tx, keyToken); err != nil {
			return err
		}
		if err := del(ctx, tx, keyUser); err != nil {
			return err
		}
		if err := setFlag(ctx, tx, keyPendingInvitation, pendingInvitation); err != nil {
			return err
		}
		return setFlag(ctx, tx, keyPendingJobTitle, pendingJobTitle)
	})
}

// SaveFlags updates both onboarding flags.
func (s *Store) SaveFlags(ctx context.Context, pendingInvitation, pendingJobTitle bool) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := setFlag(ctx, tx, keyPendingInvitation, pendingInvitation); err != nil {
			return err
		}
		return setFlag(ctx, tx, keyPendingJobTitle, pendingJobTitle)
	})
}

// SetUser overwrites the cached user record (fresher copy from the backend)
// and updates the job-title flag in the same transaction.
func (s *Store) SetUser(ctx context.Context, user *models.User, pendingJobTitle bool) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := set(ctx, tx, keyUser, userJSON); err != nil {
			return err
		}
		return setFlag(ctx, tx, keyPendingJobTitle, pendingJobTitle)
	})
}

// Clear removes every user-branch key: token, user, flags, draft. Admin keys
// are untouched.
func (s *Store) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, k := range []string{keyToken, keyUser, keyPendingInvitation, keyPendingJobTitle, keyPendingRegistration} {
			if err := del(ctx, tx, k); err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveAdminSession stores the admin token and username.
func (s *Store) SaveAdminSession(ctx context.Context, session *models.AdminSession) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := set(ctx, tx, keyAdminToken, []byte(session.Token)); err != nil {
			return err
		}
		return set(ctx, tx, keyAdminUser, []byte(session.Admin))
	})
}

// ClearAdmin removes the admin keys.
func (s *Store) ClearAdmin(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := del(ctx, tx, keyAdminToken); err != nil {
			return err
		}
		return del(ctx, tx, keyAdminUser)
	})
}

// loadFlag reads a boolean key. "1" is true, "0" or absent is false,
// anything else is corrupt and gets discarded.
func (s *Store) loadFlag(ctx context.Context, key string) (bool, error) {
	v, err := s.get(ctx, key)
	if err != nil {
		return false, err
	}
	switch {
	case v == nil, string(v) == "0":
		return false, nil
	case string(v) == "1":
		return true, nil
	default:
		s.discard(ctx, key, fmt.Errorf("unexpected flag value %q", v))
		return false, nil
	}
}

// discard deletes a key holding unusable data. The condition is recovered
// from silently; it is logged and never surfaced to callers.
func (s *Store) discard(ctx context.Context, key string, cause error) {
	if cause != nil {
		s.log.Warn(ctx, "discarding unparseable state key", "key", key, "error", cause)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM state WHERE key = ?`, key); err != nil {
		s.log.Error(ctx, "failed to discard state key", "key", key, "error", err)
	}
}

func (s *Store) get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get state[%s]: %w", key, err)
	}
	return value, nil
}

func set(ctx context.Context, tx dbx.DBTX, key string, value []byte) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set state[%s]: %w", key, err)
	}
	return nil
}

func del(ctx context.Context, tx dbx.DBTX, key string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM state WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete state[%s]: %w", key, err)
	}
	return nil
}

func setFlag(ctx context.Context, tx dbx.DBTX, key string, v bool) error {
	if !v {
		return del(ctx, tx, key)
	}
	return set(ctx, tx, key, []byte("1"))
}
