package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/team-task-tracker/internal/repository"
	"github.com/yukikurage/team-task-tracker/internal/testutil"
)

func TestLogService(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	service := NewLogService(repository.NewLogRepository(db))
	user := testutil.CreateUser(t, db, "writer@example.com")
	other := testutil.CreateUser(t, db, "other@example.com")

	_, err := service.CreateEntry(ctx, user.ID, "   ")
	assert.ErrorIs(t, err, ErrLogContentRequired)

	_, err = service.CreateEntry(ctx, user.ID, strings.Repeat("x", 5001))
	assert.ErrorIs(t, err, ErrLogContentTooLong)

	for _, content := range []string{"first", "second", "third"} {
		_, err := service.CreateEntry(ctx, user.ID, content)
		require.NoError(t, err)
	}
	_, err = service.CreateEntry(ctx, other.ID, "not mine")
	require.NoError(t, err)

	entries, err := service.ListEntries(ctx, user.ID, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	for _, entry := range entries {
		assert.Equal(t, user.ID, entry.UserID)
	}

	entries, err = service.ListEntries(ctx, user.ID, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
