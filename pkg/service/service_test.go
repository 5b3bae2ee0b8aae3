package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/choraleia/collectly/pkg/ai"
	"github.com/choraleia/collectly/pkg/costs"
	"github.com/choraleia/collectly/pkg/db"
	"github.com/choraleia/collectly/pkg/event"
	"github.com/choraleia/collectly/pkg/utils"
)

var fixedNow = time.Date(2024, time.May, 15, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := db.Open(db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(database))
	return database
}

type fakeGenerator struct {
	mu         sync.Mutex
	content    string
	costUSD    float64
	err        error
	calls      int
	prompt     string
	complexity ai.Complexity
	reqCtx     ai.RequestContext
}

func (f *fakeGenerator) Generate(_ context.Context, complexity ai.Complexity, prompt string, reqCtx ai.RequestContext, _ ai.Options) (*ai.GeneratedContent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompt = prompt
	f.complexity = complexity
	f.reqCtx = reqCtx
	if f.err != nil {
		return nil, f.err
	}
	return &ai.GeneratedContent{
		Content: f.content,
		Usage:   ai.Usage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150},
		Model:   "gpt-4o",
		CostUSD: f.costUSD,
		Tier:    ai.TierPremium,
	}, nil
}

type recorder struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *recorder) named(name string) []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []event.Event
	for _, e := range r.events {
		if e.EventName() == name {
			out = append(out, e)
		}
	}
	return out
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]costs.Limits
	deletes int
}

func newMemoryCache() *memoryCache { return &memoryCache{entries: map[string]costs.Limits{}} }

func (c *memoryCache) Get(_ context.Context, org string) (costs.Limits, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.entries[org]
	return l, ok, nil
}

func (c *memoryCache) Set(_ context.Context, org string, l costs.Limits) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[org] = l
	return nil
}

func (c *memoryCache) Delete(_ context.Context, org string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, org)
	c.deletes++
	return nil
}

type fixture struct {
	db           *gorm.DB
	interactions *InteractionStore
	comms        *CommunicationStore
	settings     *SettingsService
	costs        *CostService
	threads      *ThreadService
	generation   *GenerationService
	router       *fakeGenerator
	emitter      *event.Emitter
	events       *recorder
}

var testLimits = costs.Limits{MonthlyUSD: 10, DailyUSD: 5, AlertThresholdPercent: 80}

func newFixture(t *testing.T, opts ...GenerationOption) *fixture {
	t.Helper()
	database := newTestDB(t)
	cipher, err := utils.NewFieldCipher("test-secret")
	require.NoError(t, err)

	f := &fixture{
		db:      database,
		router:  &fakeGenerator{content: "Dear customer", costUSD: 0.25},
		emitter: event.NewEmitter(),
		events:  &recorder{},
	}
	f.emitter.OnAny(func(e event.Event) {
		f.events.mu.Lock()
		f.events.events = append(f.events.events, e)
		f.events.mu.Unlock()
	})

	f.interactions = NewInteractionStore(database)
	f.interactions.now = clock
	f.comms = NewCommunicationStore(database, cipher)
	f.comms.now = clock
	f.settings = NewSettingsService(database, testLimits, nil, f.emitter)
	f.costs = NewCostService(f.interactions, f.settings, costs.NewAggregator(costs.WithClock(clock)))
	f.threads = NewThreadService(f.comms)
	f.threads.now = clock
	f.generation = NewGenerationService(f.router, f.interactions, f.comms, f.costs,
		append([]GenerationOption{WithEmitter(f.emitter)}, opts...)...)
	return f
}

func (f *fixture) recordSpend(t *testing.T, org string, cost float64, at time.Time) {
	t.Helper()
	require.NoError(t, f.interactions.Record(context.Background(), &db.AIInteraction{
		OrganizationID:  org,
		InteractionType: db.InteractionEmailGeneration,
		ModelUsed:       "gpt-4o",
		TokensUsed:      1000,
		CostUSD:         cost,
		CreatedAt:       at,
	}))
}
