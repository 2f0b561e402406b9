package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orcha-labs/orchactl/internal/client/models"
	"github.com/orcha-labs/orchactl/internal/logging"
)

var dbSeq int

// openStore opens a fresh in-memory state database plus a raw handle on the
// same shared cache for seeding and inspection.
func openStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()
	dbSeq++
	dsn := fmt.Sprintf("file:storetest%d?mode=memory&cache=shared", dbSeq)

	raw, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, raw.Ping())
	t.Cleanup(func() { _ = raw.Close() })

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	st, err := Open(context.Background(), dsn, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	return st, raw
}

func rawSet(t *testing.T, db *sql.DB, key string, value []byte) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO state(key,value) VALUES(?,?) ON CONFLICT(key) DO UPDATE SET value=excluded.value`, key, value)
	require.NoError(t, err)
}

func rawHas(t *testing.T, db *sql.DB, key string) bool {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM state WHERE key=?`, key).Scan(&n))
	return n > 0
}

func testUser() models.User {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return models.User{
		ID:        1,
		Username:  "alice",
		Email:     "a@x.com",
		JobTitle:  models.JobTitleEngineer,
		IsActive:  true,
		PlanType:  "free",
		CreatedAt: created,
	}
}

func TestLoad_FreshDatabaseIsEmpty(t *testing.T) {
	st, _ := openStore(t)

	snap, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap.Session)
	assert.Nil(t, snap.Draft)
	assert.Nil(t, snap.Admin)
	assert.False(t, snap.PendingInvitation)
	assert.False(t, snap.PendingJobTitle)
}

func TestSaveSession_RoundTrip(t *testing.T) {
	ctx := context.Background()
	st, _ := openStore(t)

	sess := &models.Session{Token: "T1", User: testUser()}
	require.NoError(t, st.SaveSession(ctx, sess, false))

	snap, err := st.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap.Session)
	assert.Equal(t, "T1", snap.Session.Token)
	assert.Equal(t, sess.User, snap.Session.User)
	assert.False(t, snap.PendingJobTitle)
}

func TestSaveSession_RemovesDraftAndInvitationFlag(t *testing.T) {
	ctx := context.Background()
	st, raw := openStore(t)

	draft := &models.PendingRegistration{Username: "alice", Email: "a@x.com", Password: "pw123"}
	require.NoError(t, st.SaveDraft(ctx, draft, true, false))

	require.NoError(t, st.SaveSession(ctx, &models.Session{Token: "T1", User: testUser()}, false))

	snap, err := st.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap.Session)
	assert.Nil(t, snap.Draft)
	assert.False(t, snap.PendingInvitation)
	assert.False(t, rawHas(t, raw, keyPendingRegistration))
	assert.False(t, rawHas(t, raw, keyPendingInvitation))
}

func TestSaveDraft_RemovesSession(t *testing.T) {
	ctx := context.Background()
	st, raw := openStore(t)

	require.NoError(t, st.SaveSession(ctx, &models.Session{Token: "T1", User: testUser()}, false))

	draft := &models.PendingRegistration{Username: "bob", Email: "b@x.com", Password: "pw"}
	require.NoError(t, st.SaveDraft(ctx, draft, true, false))

	snap, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap.Session)
	require.NotNil(t, snap.Draft)
	assert.Equal(t, "bob", snap.Draft.Username)
	assert.True(t, snap.PendingInvitation)
	assert.False(t, rawHas(t, raw, keyToken))
	assert.False(t, rawHas(t, raw, keyUser))
}

func TestLoad_CorruptUserDiscardsWholeSession(t *testing.T) {
	ctx := context.Background()
	st, raw := openStore(t)

	rawSet(t, raw, keyToken, []byte("T1"))
	rawSet(t, raw, keyUser, []byte("{not json"))

	snap, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap.Session)
	assert.False(t, rawHas(t, raw, keyToken))
	assert.False(t, rawHas(t, raw, keyUser))
}

func TestLoad_OrphanTokenDiscarded(t *testing.T) {
	ctx := context.Background()
	st, raw := openStore(t)

	rawSet(t, raw, keyToken, []byte("T1"))

	snap, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap.Session)
	assert.False(t, rawHas(t, raw, keyToken))
}

func TestLoad_CorruptDraftDiscarded(t *testing.T) {
	ctx := context.Background()
	st, raw := openStore(t)

	rawSet(t, raw, keyPendingRegistration, []byte("???"))

	snap, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap.Draft)
	assert.False(t, rawHas(t, raw, keyPendingRegistration))
}

func TestLoad_CorruptFlagDiscarded(t *testing.T) {
	ctx := context.Background()
	st, raw := openStore(t)

	rawSet(t, raw, keyPendingInvitation, []byte("yes"))

	snap, err := st.Load(ctx)
	require.NoError(t, err)
	assert.False(t, snap.PendingInvitation)
	assert.False(t, rawHas(t, raw, keyPendingInvitation))
}

func TestSaveFlags(t *testing.T) {
	ctx := context.Background()
	st, raw := openStore(t)

	require.NoError(t, st.SaveFlags(ctx, false, true))
	snap, err := st.Load(ctx)
	require.NoError(t, err)
	assert.False(t, snap.PendingInvitation)
	assert.True(t, snap.PendingJobTitle)

	require.NoError(t, st.SaveFlags(ctx, false, false))
	assert.False(t, rawHas(t, raw, keyPendingJobTitle))
}

func TestClear_RemovesUserBranchOnly(t *testing.T) {
	ctx := context.Background()
	st, raw := openStore(t)

	require.NoError(t, st.SaveSession(ctx, &models.Session{Token: "T1", User: testUser()}, true))
	require.NoError(t, st.SaveAdminSession(ctx, &models.AdminSession{Token: "AT", Admin: "root"}))

	require.NoError(t, st.Clear(ctx))

	for _, k := range []string{keyToken, keyUser, keyPendingInvitation, keyPendingJobTitle, keyPendingRegistration} {
		assert.False(t, rawHas(t, raw, k), k)
	}

	snap, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap.Session)
	require.NotNil(t, snap.Admin)
	assert.Equal(t, "root", snap.Admin.Admin)
}

func TestAdminSession_RoundTripAndClear(t *testing.T) {
	ctx := context.Background()
	st, raw := openStore(t)

	require.NoError(t, st.SaveAdminSession(ctx, &models.AdminSession{Token: "AT", Admin: "root"}))

	snap, err := st.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap.Admin)
	assert.Equal(t, "AT", snap.Admin.Token)

	require.NoError(t, st.ClearAdmin(ctx))
	assert.False(t, rawHas(t, raw, keyAdminToken))
	assert.False(t, rawHas(t, raw, keyAdminUser))
}

func TestLoad_OrphanAdminKeyDiscarded(t *testing.T) {
	ctx := context.Background()
	st, raw := openStore(t)

	rawSet(t, raw, keyAdminToken, []byte("AT"))

	snap, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap.Admin)
	assert.False(t, rawHas(t, raw, keyAdminToken))
}

func TestSetUser_OverwritesAndClearsJobFlag(t *testing.T) {
	ctx := context.Background()
	st, _ := openStore(t)

	require.NoError(t, st.SaveSession(ctx, &models.Session{Token: "T1", User: testUser()}, true))

	updated := testUser()
	updated.JobTitle = models.JobTitleDoctor
	require.NoError(t, st.SetUser(ctx, &updated, false))

	snap, err := st.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap.Session)
	assert.Equal(t, models.JobTitleDoctor, snap.Session.User.JobTitle)
	assert.False(t, snap.PendingJobTitle)
}
