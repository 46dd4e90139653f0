package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
)

// setupJournal creates a Journal backed by a temporary database file
func setupJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := NewJournal(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournalRebuilds(t *testing.T) {
	j := setupJournal(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, j.RecordRebuild(ctx, domain.RebuildEvent{Generation: "g1", Reason: domain.MembershipInitial, Adapters: []string{"wlan1", "wlan2"}, At: now}))
	require.NoError(t, j.RecordRebuild(ctx, domain.RebuildEvent{Generation: "g2", Reason: domain.MembershipPartialMismatch, Adapters: []string{"wlan1"}, At: now.Add(time.Second)}))
	require.NoError(t, j.RecordRebuild(ctx, domain.RebuildEvent{Generation: "g3", Reason: domain.MembershipAllLost, At: now.Add(2 * time.Second)}))

	got, err := j.RecentRebuilds(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "g3", got[0].Generation)
	assert.Equal(t, domain.MembershipAllLost, got[0].Reason)
	assert.Empty(t, got[0].Adapters)

	assert.Equal(t, "g2", got[1].Generation)
	assert.Equal(t, domain.MembershipPartialMismatch, got[1].Reason)
	assert.Equal(t, []string{"wlan1"}, got[1].Adapters)
}

func TestJournalAnomalies(t *testing.T) {
	j := setupJournal(t)
	ctx := context.Background()

	events := []domain.AnomalyEvent{
		{Network: "office", Kind: domain.AnomalyJump, Value: -63, Generation: "g1", Round: 9, At: time.Now()},
		{Network: "office", Kind: domain.AnomalyDivergence, Value: 26, Generation: "g1", Round: 9, At: time.Now()},
	}
	require.NoError(t, j.RecordAnomalies(ctx, events))
	require.NoError(t, j.RecordAnomalies(ctx, nil))

	got, err := j.RecentAnomalies(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, domain.AnomalyDivergence, got[0].Kind)
	assert.Equal(t, 26.0, got[0].Value)
	assert.Equal(t, domain.AnomalyJump, got[1].Kind)
	assert.Equal(t, uint64(9), got[1].Round)
	assert.Equal(t, domain.NetworkID("office"), got[1].Network)
}

func TestJournalClosed(t *testing.T) {
	j, err := NewJournal(":memory:")
	require.NoError(t, err)
	require.NoError(t, j.Close())

	err = j.RecordRebuild(context.Background(), domain.RebuildEvent{Generation: "g"})
	assert.Error(t, err)
}
