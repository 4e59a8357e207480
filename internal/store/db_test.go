package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baxromumarov/job-extractor/internal/learning"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("JOBEXTRACT_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("JOBEXTRACT_TEST_DATABASE_URL not set")
	}
	s, err := NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	require.NoError(t, s.RunMigrations(ctx, ""))
	require.NoError(t, s.Reset(ctx))
	return s
}

func TestPostgresLearningRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	doc, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, doc.Sites)

	doc = doc.Apply(learning.Outcome{Domain: "indeed.com", Sample: 0.7, Source: "indeed", At: time.Now()})
	doc = doc.Apply(learning.Outcome{Domain: "indeed.com", Sample: 0.3, At: time.Now()})
	require.NoError(t, s.Save(ctx, doc))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, doc.Sites, got.Sites)
}

func TestPostgresBacksLearningStore(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	ls, err := learning.Open(ctx, s)
	require.NoError(t, err)
	_, err = ls.RecordOutcome(ctx, "dice.com", nil, 1)
	require.NoError(t, err)

	reopened, err := learning.Open(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, 1, reopened.Stats("dice.com").Attempts)
}
