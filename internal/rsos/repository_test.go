package rsos

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campus-events/backend/config"
	"github.com/campus-events/backend/internal/models"
	"github.com/campus-events/backend/pkg/apperr"
	"github.com/campus-events/backend/pkg/database"
)

// The admin check runs before any query, so no database is needed here.
func TestLeaveAdminForbidden(t *testing.T) {
	r := &Repository{}
	adminID := uuid.New()
	rso := &models.Rso{ID: uuid.New(), AdminID: adminID}

	err := r.Leave(context.Background(), adminID, rso)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func skipIfNoIntegration(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run.")
	}
}

func setupTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()
	cfg, err := config.Load()
	require.NoError(t, err)
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(ctx, pool))
	t.Cleanup(pool.Close)
	return pool
}

func createTestCollege(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	var id uuid.UUID
	err := pool.QueryRow(ctx,
		`INSERT INTO colleges (name, created_by) VALUES ($1, $2) RETURNING id`,
		"Test College "+uuid.NewString(), uuid.New()).Scan(&id)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Exec(ctx, `DELETE FROM colleges WHERE id = $1`, id) })
	return id
}

func createTestUser(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	var id uuid.UUID
	err := pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, first_name, last_name, role)
		 VALUES ($1, 'x', 'Test', 'User', 'student') RETURNING id`,
		fmt.Sprintf("test-%s@knights.edu", uuid.NewString())).Scan(&id)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id) })
	return id
}

func createTestRso(t *testing.T, pool *pgxpool.Pool, repo *Repository, collegeID, adminID uuid.UUID) *models.Rso {
	t.Helper()
	ctx := context.Background()
	rso := &models.Rso{
		Name:      "Test RSO " + uuid.NewString(),
		CollegeID: collegeID,
		AdminID:   adminID,
		Status:    models.RsoStatusActive,
	}
	require.NoError(t, repo.Create(ctx, rso))
	t.Cleanup(func() {
		pool.Exec(ctx, `DELETE FROM rso_memberships WHERE rso_id = $1`, rso.ID)
		pool.Exec(ctx, `DELETE FROM rsos WHERE id = $1`, rso.ID)
	})
	return rso
}

func TestJoinTwiceConflict(t *testing.T) {
	skipIfNoIntegration(t)
	pool := setupTestPool(t)
	repo := NewRepository(pool)
	ctx := context.Background()

	collegeID := createTestCollege(t, pool)
	adminID := createTestUser(t, pool)
	userID := createTestUser(t, pool)
	rso := createTestRso(t, pool, repo, collegeID, adminID)

	m, err := repo.Join(ctx, userID, rso.ID)
	require.NoError(t, err)
	assert.Equal(t, userID, m.UserID)
	assert.False(t, m.JoinedAt.IsZero())

	_, err = repo.Join(ctx, userID, rso.ID)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestCreateEnrollsAdmin(t *testing.T) {
	skipIfNoIntegration(t)
	pool := setupTestPool(t)
	repo := NewRepository(pool)
	ctx := context.Background()

	collegeID := createTestCollege(t, pool)
	adminID := createTestUser(t, pool)
	rso := createTestRso(t, pool, repo, collegeID, adminID)

	member, err := repo.Exists(ctx, adminID, rso.ID)
	require.NoError(t, err)
	assert.True(t, member)

	_, err = repo.Join(ctx, adminID, rso.ID)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestLeaveNotMemberConflict(t *testing.T) {
	skipIfNoIntegration(t)
	pool := setupTestPool(t)
	repo := NewRepository(pool)
	ctx := context.Background()

	collegeID := createTestCollege(t, pool)
	adminID := createTestUser(t, pool)
	strangerID := createTestUser(t, pool)
	rso := createTestRso(t, pool, repo, collegeID, adminID)

	err := repo.Leave(ctx, strangerID, rso)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}
