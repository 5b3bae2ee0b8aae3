package threads

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC)

func msg(dir, sentiment string, ago time.Duration) Message {
	return Message{Direction: dir, Sentiment: sentiment, SentAt: now.Add(-ago)}
}

func TestAnalyze_HostileThread(t *testing.T) {
	a := Analyze([]Message{
		msg(Inbound, SentimentHostile, 3*time.Hour),
		msg(Outbound, "", time.Hour),
	}, now)

	assert.Equal(t, HealthPoor, a.ConversationHealth)
	assert.True(t, a.RequiresAttention)
	assert.Equal(t, SentimentNegative, a.Sentiment.Trend)
	assert.Equal(t, EngagementLow, a.EngagementLevel)
	require.NotNil(t, a.AverageResponseTimeHours)
	assert.InDelta(t, 2.0, *a.AverageResponseTimeHours, 1e-9)
}

func TestAnalyze_HealthyLongThread(t *testing.T) {
	msgs := []Message{
		msg(Outbound, SentimentNeutral, 50*time.Hour),
		msg(Inbound, SentimentPositive, 40*time.Hour),
		msg(Outbound, "", 38*time.Hour),
		msg(Inbound, SentimentNeutral, 20*time.Hour),
		msg(Outbound, SentimentNeutral, 16*time.Hour),
		msg(Outbound, "", 2*time.Hour),
	}
	a := Analyze(msgs, now)

	assert.Equal(t, 6, a.MessageCount)
	assert.Equal(t, EngagementHigh, a.EngagementLevel)
	assert.False(t, a.RequiresAttention)
	assert.Equal(t, Outbound, a.LastDirection)
	assert.Equal(t, HealthGood, a.ConversationHealth)
	require.NotNil(t, a.AverageResponseTimeHours)
	assert.InDelta(t, 3.0, *a.AverageResponseTimeHours, 1e-9)
}

func TestPattern(t *testing.T) {
	dirs := func(ds ...string) []Message {
		out := make([]Message, len(ds))
		for i, d := range ds {
			out[i] = Message{Direction: d}
		}
		return out
	}
	tests := []struct {
		name  string
		msgs  []Message
		want  string
		in    int
		out   int
		ratio float64
	}{
		{"balanced boundary", dirs(Inbound, Outbound, Inbound, Outbound, Inbound), PatternBalanced, 3, 2, 1.5},
		{"customer heavy", dirs(Inbound, Inbound, Outbound, Inbound, Inbound), PatternCustomerHeavy, 4, 1, 4},
		{"business heavy", dirs(Outbound, Outbound, Outbound, Inbound), PatternBusinessHeavy, 1, 3, 1.0 / 3},
		{"one way outbound", dirs(Outbound, Outbound), PatternOneWayOutbound, 0, 2, 0},
		{"one way inbound", dirs(Inbound, "INBOUND"), PatternOneWayInbound, 2, 0, 0},
		{"insufficient", dirs(Inbound), PatternInsufficientData, 1, 0, 0},
		{"empty", nil, PatternInsufficientData, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Pattern(tt.msgs)
			assert.Equal(t, tt.want, p.Pattern)
			assert.Equal(t, tt.in, p.Inbound)
			assert.Equal(t, tt.out, p.Outbound)
			assert.InDelta(t, tt.ratio, p.Ratio, 1e-9)
		})
	}
}

func TestEngagement(t *testing.T) {
	assert.Equal(t, EngagementNone, Engagement(0))
	assert.Equal(t, EngagementLow, Engagement(2))
	assert.Equal(t, EngagementMedium, Engagement(3))
	assert.Equal(t, EngagementMedium, Engagement(4))
	assert.Equal(t, EngagementHigh, Engagement(5))
}

func TestSentiment(t *testing.T) {
	s := Sentiment([]Message{{Sentiment: "positive"}, {Sentiment: "Positive"}, {Sentiment: "neutral"}, {Sentiment: "confused"}, {}})
	assert.Equal(t, 3, s.Tagged)
	assert.InDelta(t, 2.0/3, s.Average, 1e-9)
	assert.Equal(t, SentimentPositive, s.Trend)

	s = Sentiment(nil)
	assert.Zero(t, s.Average)
	assert.Equal(t, SentimentNeutral, s.Trend)
	assert.Equal(t, HealthFair, health(s.Average))
	assert.Equal(t, HealthFair, health(-0.5))
}

func TestRequiresAttention(t *testing.T) {
	fresh := []Message{msg(Outbound, "", 30*time.Hour), msg(Inbound, SentimentNeutral, 2*time.Hour)}
	assert.False(t, RequiresAttention(fresh, now))

	stale := []Message{msg(Outbound, "", 60*time.Hour), msg(Inbound, "", 25*time.Hour)}
	assert.True(t, RequiresAttention(stale, now))

	flagged := []Message{{Direction: Outbound, SentAt: now, ComplianceFlags: []string{"dispute"}}}
	assert.True(t, RequiresAttention(flagged, now))

	negative := []Message{msg(Outbound, SentimentNegative, time.Hour)}
	assert.True(t, RequiresAttention(negative, now))

	assert.False(t, RequiresAttention(nil, now))
}

func TestAverageResponseTime_NoPairs(t *testing.T) {
	assert.Nil(t, AverageResponseTimeHours([]Message{msg(Outbound, "", 2*time.Hour), msg(Inbound, "", time.Hour)}))
	assert.Nil(t, AverageResponseTimeHours(nil))
}

func TestSummarize(t *testing.T) {
	msgs := []Message{
		{ThreadID: "t-1", CaseID: "c-1", DebtorID: "d-1", Direction: Outbound, SentAt: now.Add(-72 * time.Hour)},
		{ThreadID: "t-2", CaseID: "c-2", Direction: Inbound, Sentiment: SentimentNegative, SentAt: now.Add(-2 * time.Hour)},
		{ThreadID: "", Direction: Inbound, Sentiment: SentimentHostile, SentAt: now},
		{ThreadID: "t-1", Direction: Inbound, Sentiment: SentimentPositive, SentAt: now.Add(-48 * time.Hour)},
		{ThreadID: "t-1", Direction: Outbound, Sentiment: SentimentNeutral, SentAt: now.Add(-47 * time.Hour)},
		{ThreadID: "t-3", Direction: Inbound, SentAt: now.Add(-30 * time.Hour)},
	}

	threads := Summarize(msgs, now)
	require.Len(t, threads, 3, "messages without a thread id are skipped")

	assert.Equal(t, "t-2", threads[0].ThreadID)
	assert.Equal(t, HealthConcerning, threads[0].ConversationHealth)

	assert.Equal(t, "t-3", threads[1].ThreadID)
	assert.Equal(t, HealthNeedsAttention, threads[1].ConversationHealth)

	t1 := threads[2]
	assert.Equal(t, "t-1", t1.ThreadID)
	assert.Equal(t, "c-1", t1.CaseID)
	assert.Equal(t, "d-1", t1.DebtorID)
	assert.Equal(t, 3, t1.MessageCount)
	assert.Equal(t, []string{SentimentPositive, SentimentNeutral}, t1.SentimentTrend)
	assert.Equal(t, Outbound, t1.LastDirection)
	assert.Equal(t, now.Add(-47*time.Hour), t1.LatestMessage.SentAt)
	assert.Equal(t, HealthGood, t1.ConversationHealth)
}

func TestListHealth(t *testing.T) {
	fresh := now.Add(-time.Hour)
	stale := now.Add(-25 * time.Hour)
	tests := []struct {
		name  string
		trend []string
		dir   string
		at    time.Time
		count int
		want  string
	}{
		{"hostile wins", []string{SentimentPositive, SentimentHostile}, Outbound, fresh, 5, HealthPoor},
		{"negative last inbound", []string{SentimentNegative}, Inbound, fresh, 1, HealthConcerning},
		{"negative last outbound", []string{SentimentNegative}, Outbound, fresh, 1, HealthFair},
		{"stale inbound", nil, Inbound, stale, 1, HealthNeedsAttention},
		{"positive needs three", []string{SentimentPositive}, Outbound, fresh, 2, HealthFair},
		{"positive", []string{SentimentPositive}, Outbound, fresh, 3, HealthGood},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ListHealth(tt.trend, tt.dir, tt.at, tt.count, now))
		})
	}
}

func TestHealthFormulasDiffer(t *testing.T) {
	// One negative among positives: averaged health is good, list view is concerning.
	msgs := []Message{
		{ThreadID: "t", Direction: Outbound, Sentiment: SentimentPositive, SentAt: now.Add(-3 * time.Hour)},
		{ThreadID: "t", Direction: Inbound, Sentiment: SentimentPositive, SentAt: now.Add(-2 * time.Hour)},
		{ThreadID: "t", Direction: Inbound, Sentiment: SentimentNegative, SentAt: now.Add(-time.Hour)},
	}
	assert.Equal(t, HealthGood, Analyze(msgs, now).ConversationHealth)
	assert.Equal(t, HealthConcerning, Summarize(msgs, now)[0].ConversationHealth)
}
