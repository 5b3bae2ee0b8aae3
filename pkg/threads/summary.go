package threads

import (
	"sort"
	"strings"
	"time"
)

// Thread is the list-view summary of one conversation.
type Thread struct {
	ThreadID           string    `json:"thread_id"`
	CaseID             string    `json:"case_id"`
	DebtorID           string    `json:"debtor_id"`
	LatestMessage      Message   `json:"latest_message"`
	MessageCount       int       `json:"message_count"`
	SentimentTrend     []string  `json:"sentiment_trend"`
	LastDirection      string    `json:"last_direction"`
	ConversationHealth string    `json:"conversation_health"`
	LastActivity       time.Time `json:"last_activity"`
}

// Summarize groups msgs by thread id, skipping messages without one, and
// returns threads with the most recent activity first.
func Summarize(msgs []Message, now time.Time) []Thread {
	groups := make(map[string][]Message)
	for _, m := range msgs {
		id := strings.TrimSpace(m.ThreadID)
		if id == "" {
			continue
		}
		groups[id] = append(groups[id], m)
	}

	threads := make([]Thread, 0, len(groups))
	for id, group := range groups {
		SortBySentAt(group)
		threads = append(threads, summarize(id, group, now))
	}
	sort.Slice(threads, func(i, j int) bool {
		if !threads[i].LastActivity.Equal(threads[j].LastActivity) {
			return threads[i].LastActivity.After(threads[j].LastActivity)
		}
		return threads[i].ThreadID < threads[j].ThreadID
	})
	return threads
}

func summarize(id string, group []Message, now time.Time) Thread {
	latest := group[len(group)-1]
	t := Thread{
		ThreadID:       id,
		LatestMessage:  latest,
		MessageCount:   len(group),
		SentimentTrend: make([]string, 0, len(group)),
		LastDirection:  direction(latest),
		LastActivity:   latest.SentAt,
	}
	for _, m := range group {
		if t.CaseID == "" {
			t.CaseID = m.CaseID
		}
		if t.DebtorID == "" {
			t.DebtorID = m.DebtorID
		}
		if s := sentiment(m); s != "" {
			t.SentimentTrend = append(t.SentimentTrend, s)
		}
	}
	t.ConversationHealth = ListHealth(t.SentimentTrend, t.LastDirection, latest.SentAt, t.MessageCount, now)
	return t
}

// ListHealth is the list-view heuristic. It is deliberately separate from
// the averaged health of Analyze.
func ListHealth(trend []string, lastDirection string, lastAt time.Time, count int, now time.Time) string {
	has := func(tag string) bool {
		for _, s := range trend {
			if s == tag {
				return true
			}
		}
		return false
	}
	lastInbound := lastDirection == Inbound
	switch {
	case has(SentimentHostile):
		return HealthPoor
	case has(SentimentNegative) && lastInbound:
		return HealthConcerning
	case lastInbound && !lastAt.IsZero() && now.Sub(lastAt) > StaleAfter:
		return HealthNeedsAttention
	case has(SentimentPositive) && count > 2:
		return HealthGood
	default:
		return HealthFair
	}
}
