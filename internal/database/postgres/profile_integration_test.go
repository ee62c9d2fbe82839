package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/polarisfn/Polaris_Go/internal/database"
	"github.com/polarisfn/Polaris_Go/internal/database/postgres"
	"github.com/polarisfn/Polaris_Go/internal/domain"
)

func TestProfileRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()

	container, err := pgcontainer.Run(ctx,
		"postgres:15-alpine",
		pgcontainer.WithDatabase("testdb"),
		pgcontainer.WithUsername("testuser"),
		pgcontainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(15*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	defer func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}()

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := database.NewPool(connStr, 10, 30*time.Minute, time.Hour)
	require.NoError(t, err)
	defer pool.Close()

	require.NoError(t, database.ApplySchema(ctx, pool))

	accounts := postgres.NewAccountRepository(pool)
	profiles := postgres.NewProfileRepository(pool)

	account := &domain.Account{AccountID: "acct-int-1", DisplayName: "integration", BaseRevision: 2}
	require.NoError(t, accounts.CreateAccount(ctx, account))

	t.Run("FindByAccountID", func(t *testing.T) {
		got, err := accounts.FindByAccountID(ctx, "acct-int-1")
		require.NoError(t, err)
		assert.Equal(t, "integration", got.DisplayName)
		assert.Equal(t, 2, got.BaseRevision)

		_, err = accounts.FindByAccountID(ctx, "ghost")
		assert.True(t, errors.Is(err, domain.ErrAccountNotFound))
	})

	t.Run("LoadMissingProfile", func(t *testing.T) {
		_, err := profiles.Load(ctx, "acct-int-1", domain.ProfileIDAthena)
		assert.True(t, errors.Is(err, domain.ErrProfileNotFound))
	})

	t.Run("CreateLoadSave", func(t *testing.T) {
		p := domain.NewProfile(domain.ProfileIDAthena, "2026-08-31T00:00:00Z")
		p.Items["item-1"] = &domain.Item{
			TemplateID: "Quest:daily_collect",
			Attributes: map[string]interface{}{"quest_state": domain.QuestStateActive},
			Quantity:   1,
		}
		require.NoError(t, profiles.Create(ctx, "acct-int-1", p))

		loaded, err := profiles.Load(ctx, "acct-int-1", domain.ProfileIDAthena)
		require.NoError(t, err)
		assert.Equal(t, 0, loaded.Rvn)
		require.Contains(t, loaded.Items, "item-1")
		assert.Equal(t, "Quest:daily_collect", loaded.Items["item-1"].TemplateID)

		loaded.Rvn = 1
		loaded.CommandRevision = 1
		require.NoError(t, profiles.Save(ctx, "acct-int-1", loaded, 0))

		reloaded, err := profiles.Load(ctx, "acct-int-1", domain.ProfileIDAthena)
		require.NoError(t, err)
		assert.Equal(t, 1, reloaded.Rvn)
	})

	t.Run("SaveRevisionConflict", func(t *testing.T) {
		loaded, err := profiles.Load(ctx, "acct-int-1", domain.ProfileIDAthena)
		require.NoError(t, err)

		// Stored rvn is 1; a writer that loaded at rvn 0 must be rejected.
		loaded.Rvn = 1
		err = profiles.Save(ctx, "acct-int-1", loaded, 0)
		assert.True(t, errors.Is(err, domain.ErrRevisionConflict))
	})

	t.Run("SaveMissingProfile", func(t *testing.T) {
		p := domain.NewProfile("collection_book", "2026-08-31T00:00:00Z")
		err := profiles.Save(ctx, "acct-int-1", p, 0)
		assert.True(t, errors.Is(err, domain.ErrProfileNotFound))
	})
}
