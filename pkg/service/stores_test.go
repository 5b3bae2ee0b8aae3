package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/choraleia/collectly/pkg/costs"
	"github.com/choraleia/collectly/pkg/db"
	"github.com/choraleia/collectly/pkg/event"
)

func TestInteractionStore_Record(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	i := &db.AIInteraction{
		OrganizationID:   "org-1",
		InteractionType:  db.InteractionSMSGeneration,
		ModelUsed:        "gemini-1.5-flash",
		PromptTokens:     30,
		CompletionTokens: 12,
		CostUSD:          0.001,
	}
	require.NoError(t, f.interactions.Record(ctx, i))
	assert.NotEmpty(t, i.ID)
	assert.Equal(t, fixedNow, i.CreatedAt)
	assert.Equal(t, 42, i.TokensUsed)

	got, err := f.interactions.Get(ctx, "org-1", i.ID)
	require.NoError(t, err)
	assert.Equal(t, "gemini-1.5-flash", got.ModelUsed)

	_, err = f.interactions.Get(ctx, "org-2", i.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = f.interactions.Record(ctx, &db.AIInteraction{OrganizationID: "org-1", InteractionType: "poetry"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	err = f.interactions.Record(ctx, &db.AIInteraction{InteractionType: db.InteractionAnalysis})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestInteractionStore_ListByOrganization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.recordSpend(t, "org-1", 1, fixedNow.Add(-48*time.Hour))
	f.recordSpend(t, "org-1", 2, fixedNow.Add(-72*time.Hour))
	f.recordSpend(t, "org-1", 3, fixedNow.Add(-40*24*time.Hour))
	f.recordSpend(t, "org-2", 4, fixedNow.Add(-time.Hour))
	require.NoError(t, f.interactions.Record(ctx, &db.AIInteraction{
		OrganizationID: "org-1", InteractionType: db.InteractionNegotiation, ModelUsed: "claude", CostUSD: 5, CreatedAt: fixedNow.Add(-time.Hour),
	}))

	all, err := f.interactions.ListByOrganization(ctx, "org-1", time.Time{}, time.Time{}, InteractionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, 3.0, all[0].CostUSD, "oldest first")

	ranged, err := f.interactions.ListByOrganization(ctx, "org-1", fixedNow.Add(-7*24*time.Hour), fixedNow.Add(-2*time.Hour), InteractionFilter{})
	require.NoError(t, err)
	assert.Len(t, ranged, 2)

	byModel, err := f.interactions.ListByOrganization(ctx, "org-1", time.Time{}, time.Time{}, InteractionFilter{Model: "claude"})
	require.NoError(t, err)
	require.Len(t, byModel, 1)

	byType, err := f.interactions.ListByOrganization(ctx, "org-1", time.Time{}, time.Time{}, InteractionFilter{Type: "email_generation"})
	require.NoError(t, err)
	assert.Len(t, byType, 3)

	records := ToCostRecords(byModel)
	assert.Equal(t, costs.Record{Model: "claude", Type: "negotiation", CostUSD: 5, CreatedAt: byModel[0].CreatedAt}, records[0])
}

func TestCommunicationStore_EncryptsContent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	comm := &db.CommunicationLog{
		OrganizationID: "org-1",
		CaseID:         "case-1",
		Direction:      "Inbound",
		Subject:        "Re: balance",
		Content:        "I will pay on Friday",
		ThreadID:       "thread-1",
	}
	require.NoError(t, f.comms.Create(ctx, comm))
	assert.NotEmpty(t, comm.ID)
	assert.Equal(t, db.DirectionInbound, comm.Direction)
	assert.Equal(t, db.ChannelEmail, comm.Type)
	assert.Equal(t, "I will pay on Friday", comm.Content)

	var raw db.CommunicationLog
	require.NoError(t, f.db.First(&raw, "id = ?", comm.ID).Error)
	assert.True(t, strings.HasPrefix(raw.Content, "enc:v1:"))

	got, err := f.comms.Get(ctx, "org-1", comm.ID)
	require.NoError(t, err)
	assert.Equal(t, "I will pay on Friday", got.Content)

	_, err = f.comms.Get(ctx, "org-other", comm.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, f.comms.Create(ctx, &db.CommunicationLog{OrganizationID: "org-1", Direction: "sideways"}), ErrInvalidInput)
}

func TestCommunicationStore_Lists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	create := func(thread, caseID string, at time.Duration) {
		require.NoError(t, f.comms.Create(ctx, &db.CommunicationLog{
			OrganizationID: "org-1", CaseID: caseID, ThreadID: thread, Direction: db.DirectionOutbound,
			Content: thread, SentAt: fixedNow.Add(-at),
		}))
	}
	create("t-1", "case-1", time.Hour)
	create("t-1", "case-1", 3*time.Hour)
	create("t-2", "case-2", 2*time.Hour)
	create("", "case-1", 30*time.Minute)

	thread, err := f.comms.ListByThread(ctx, "org-1", "t-1")
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.True(t, thread[0].SentAt.Before(thread[1].SentAt))
	assert.Equal(t, "t-1", thread[0].Content)

	threaded, err := f.comms.ListThreaded(ctx, "org-1", "")
	require.NoError(t, err)
	assert.Len(t, threaded, 3)

	forCase, err := f.comms.ListThreaded(ctx, "org-1", "case-2")
	require.NoError(t, err)
	assert.Len(t, forCase, 1)
}

func TestCommunicationStore_UpdateAnalysis(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	comm := &db.CommunicationLog{OrganizationID: "org-1", Direction: db.DirectionInbound, Content: "stop calling me"}
	require.NoError(t, f.comms.Create(ctx, comm))

	require.NoError(t, f.comms.UpdateAnalysis(ctx, "org-1", comm.ID, db.SentimentNegative, []string{"cease_and_desist"}))
	got, err := f.comms.Get(ctx, "org-1", comm.ID)
	require.NoError(t, err)
	assert.Equal(t, db.SentimentNegative, got.AISentiment)
	assert.Equal(t, db.StringList{"cease_and_desist"}, got.ComplianceFlags)

	assert.ErrorIs(t, f.comms.UpdateAnalysis(ctx, "org-1", "missing", db.SentimentNeutral, nil), ErrNotFound)
}

func TestSettingsService_DefaultsAndUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	limits, err := f.settings.CostLimits(ctx, "org-1")
	require.NoError(t, err)
	assert.Equal(t, testLimits, limits)

	updated := costs.Limits{MonthlyUSD: 500, DailyUSD: 25, AlertThresholdPercent: 90}
	_, err = f.settings.UpdateCostLimits(ctx, "org-1", updated)
	require.NoError(t, err)
	limits, err = f.settings.CostLimits(ctx, "org-1")
	require.NoError(t, err)
	assert.Equal(t, updated, limits)

	updated.DailyUSD = 30
	_, err = f.settings.UpdateCostLimits(ctx, "org-1", updated)
	require.NoError(t, err)
	limits, err = f.settings.CostLimits(ctx, "org-1")
	require.NoError(t, err)
	assert.Equal(t, 30.0, limits.DailyUSD)
	assert.Len(t, f.events.named(event.SettingsChanged), 2)

	_, err = f.settings.UpdateCostLimits(ctx, "org-1", costs.Limits{AlertThresholdPercent: 120})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.settings.CostLimits(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSettingsService_Cache(t *testing.T) {
	database := newTestDB(t)
	cache := newMemoryCache()
	s := NewSettingsService(database, testLimits, cache, event.NewEmitter())
	ctx := context.Background()

	_, err := s.CostLimits(ctx, "org-1")
	require.NoError(t, err)
	assert.Equal(t, testLimits, cache.entries["org-1"])

	cache.entries["org-1"] = costs.Limits{MonthlyUSD: 1}
	limits, err := s.CostLimits(ctx, "org-1")
	require.NoError(t, err)
	assert.Equal(t, 1.0, limits.MonthlyUSD, "served from cache")

	_, err = s.UpdateCostLimits(ctx, "org-1", costs.Limits{MonthlyUSD: 2, DailyUSD: 1, AlertThresholdPercent: 50})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.deletes)
	limits, err = s.CostLimits(ctx, "org-1")
	require.NoError(t, err)
	assert.Equal(t, 2.0, limits.MonthlyUSD)
}

func TestSettingsService_UnreachableRedisFallsBackToDatabase(t *testing.T) {
	database := newTestDB(t)
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	defer client.Close()
	s := NewSettingsService(database, testLimits, NewRedisLimitsCache(client, time.Minute), event.NewEmitter())

	limits, err := s.CostLimits(context.Background(), "org-1")
	require.NoError(t, err)
	assert.Equal(t, testLimits, limits)
}
