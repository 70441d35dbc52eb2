package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
)

func TestIngestAndWait_PollsUntilSuccess(t *testing.T) {
	search := newMockSearch()
	search.states = []string{domain.TaskPending, domain.TaskProgress, domain.TaskSuccess}
	entry := domain.CatalogEntry{Subject: "globus://ep/a", Content: testRecord()}

	err := ingestAndWait(context.Background(), search, "idx", domain.NewIngestDocument(entry), time.Millisecond, time.Second)
	require.NoError(t, err)

	assert.Empty(t, search.states)
	rec, err := search.GetSubject(context.Background(), "idx", "globus://ep/a")
	require.NoError(t, err)
	assert.Equal(t, "1", rec.DC.Version)
}

func TestIngestAndWait_FailedState(t *testing.T) {
	search := newMockSearch()
	search.states = []string{"FAILED"}

	err := ingestAndWait(context.Background(), search, "idx", domain.NewIngestDocument(), time.Millisecond, time.Second)

	require.ErrorIs(t, err, domain.ErrIngestFailed)
	assert.Contains(t, err.Error(), "FAILED")
}

func TestIngestAndWait_Timeout(t *testing.T) {
	search := newMockSearch()
	for i := 0; i < 1000; i++ {
		search.states = append(search.states, domain.TaskPending)
	}

	err := ingestAndWait(context.Background(), search, "idx", domain.NewIngestDocument(), 10*time.Millisecond, 50*time.Millisecond)

	require.ErrorIs(t, err, domain.ErrIngestFailed)
	assert.Contains(t, err.Error(), "still pending")
}

func TestIngestAndWait_Cancelled(t *testing.T) {
	search := newMockSearch()
	search.states = []string{domain.TaskPending, domain.TaskPending}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ingestAndWait(ctx, search, "idx", domain.NewIngestDocument(), time.Millisecond, time.Second)

	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrIngestFailed)
}

func TestIngestAndWait_SubmitError(t *testing.T) {
	search := newMockSearch()
	search.ingestErr = errors.New("index is read-only")

	err := ingestAndWait(context.Background(), search, "idx", domain.NewIngestDocument(), time.Millisecond, time.Second)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "index is read-only")
}
