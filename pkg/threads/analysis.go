package threads

import "time"

// Engagement levels.
const (
	EngagementHigh   = "high"
	EngagementMedium = "medium"
	EngagementLow    = "low"
	EngagementNone   = "none"
)

// Response patterns.
const (
	PatternInsufficientData = "insufficient_data"
	PatternOneWayOutbound   = "one_way_outbound"
	PatternOneWayInbound    = "one_way_inbound"
	PatternCustomerHeavy    = "customer_heavy"
	PatternBusinessHeavy    = "business_heavy"
	PatternBalanced         = "balanced"
)

// Health labels. The full analysis uses good/fair/poor; the list view adds
// concerning and needs_attention.
const (
	HealthGood           = "good"
	HealthFair           = "fair"
	HealthPoor           = "poor"
	HealthConcerning     = "concerning"
	HealthNeedsAttention = "needs_attention"
)

// ResponsePattern counts message directions.
type ResponsePattern struct {
	Pattern  string  `json:"pattern"`
	Inbound  int     `json:"inbound"`
	Outbound int     `json:"outbound"`
	Ratio    float64 `json:"ratio"`
}

// SentimentSummary is the averaged sentiment score of tagged messages.
type SentimentSummary struct {
	Average float64 `json:"average"`
	Trend   string  `json:"trend"`
	Tagged  int     `json:"tagged"`
}

// Analysis is the detailed view of one thread.
type Analysis struct {
	MessageCount             int              `json:"message_count"`
	EngagementLevel          string           `json:"engagement_level"`
	ResponsePattern          ResponsePattern  `json:"response_pattern"`
	Sentiment                SentimentSummary `json:"sentiment"`
	ConversationHealth       string           `json:"conversation_health"`
	RequiresAttention        bool             `json:"requires_attention"`
	AverageResponseTimeHours *float64         `json:"average_response_time_hours"`
	LastDirection            string           `json:"last_direction,omitempty"`
	LastMessageAt            *time.Time       `json:"last_message_at,omitempty"`
}

// Analyze computes the full analysis. msgs must be ordered by SentAt
// ascending; the response-time pairing depends on it.
func Analyze(msgs []Message, now time.Time) Analysis {
	a := Analysis{
		MessageCount:    len(msgs),
		EngagementLevel: Engagement(len(msgs)),
		ResponsePattern: Pattern(msgs),
		Sentiment:       Sentiment(msgs),
	}
	a.ConversationHealth = health(a.Sentiment.Average)
	a.AverageResponseTimeHours = AverageResponseTimeHours(msgs)
	if n := len(msgs); n > 0 {
		last := msgs[n-1]
		a.LastDirection = direction(last)
		if !last.SentAt.IsZero() {
			at := last.SentAt
			a.LastMessageAt = &at
		}
	}
	a.RequiresAttention = RequiresAttention(msgs, now)
	return a
}

// Engagement buckets a message count.
func Engagement(count int) string {
	switch {
	case count >= 5:
		return EngagementHigh
	case count >= 3:
		return EngagementMedium
	case count >= 1:
		return EngagementLow
	default:
		return EngagementNone
	}
}

// Pattern classifies the inbound/outbound balance. A ratio of exactly 1.5
// is balanced.
func Pattern(msgs []Message) ResponsePattern {
	p := ResponsePattern{}
	for _, m := range msgs {
		switch direction(m) {
		case Inbound:
			p.Inbound++
		case Outbound:
			p.Outbound++
		}
	}
	switch {
	case len(msgs) < 2:
		p.Pattern = PatternInsufficientData
	case p.Inbound == 0:
		p.Pattern = PatternOneWayOutbound
	case p.Outbound == 0:
		p.Pattern = PatternOneWayInbound
	default:
		p.Ratio = float64(p.Inbound) / float64(p.Outbound)
		switch {
		case p.Ratio > 1.5:
			p.Pattern = PatternCustomerHeavy
		case p.Ratio < 0.5:
			p.Pattern = PatternBusinessHeavy
		default:
			p.Pattern = PatternBalanced
		}
	}
	return p
}

// Sentiment averages known sentiment tags. Untagged and unrecognized tags
// are skipped.
func Sentiment(msgs []Message) SentimentSummary {
	s := SentimentSummary{}
	total := 0.0
	for _, m := range msgs {
		score, ok := sentimentScores[sentiment(m)]
		if !ok {
			continue
		}
		total += score
		s.Tagged++
	}
	if s.Tagged > 0 {
		s.Average = total / float64(s.Tagged)
	}
	switch {
	case s.Average > 0.5:
		s.Trend = SentimentPositive
	case s.Average < -0.5:
		s.Trend = SentimentNegative
	default:
		s.Trend = SentimentNeutral
	}
	return s
}

func health(avg float64) string {
	switch {
	case avg > 0:
		return HealthGood
	case avg < -0.5:
		return HealthPoor
	default:
		return HealthFair
	}
}

// RequiresAttention is true for any negative or hostile message, any
// compliance flag, or a last inbound message older than StaleAfter.
func RequiresAttention(msgs []Message, now time.Time) bool {
	for _, m := range msgs {
		switch sentiment(m) {
		case SentimentNegative, SentimentHostile:
			return true
		}
		if len(m.ComplianceFlags) > 0 {
			return true
		}
	}
	return staleInbound(msgs, now)
}

func staleInbound(msgs []Message, now time.Time) bool {
	if len(msgs) == 0 {
		return false
	}
	last := msgs[len(msgs)-1]
	return direction(last) == Inbound && !last.SentAt.IsZero() && now.Sub(last.SentAt) > StaleAfter
}

// AverageResponseTimeHours averages the gap of each inbound message directly
// followed by an outbound one. Nil when there is no such pair.
func AverageResponseTimeHours(msgs []Message) *float64 {
	total, pairs := 0.0, 0
	for i := 1; i < len(msgs); i++ {
		prev, cur := msgs[i-1], msgs[i]
		if direction(prev) != Inbound || direction(cur) != Outbound {
			continue
		}
		if prev.SentAt.IsZero() || cur.SentAt.IsZero() {
			continue
		}
		total += cur.SentAt.Sub(prev.SentAt).Hours()
		pairs++
	}
	if pairs == 0 {
		return nil
	}
	avg := total / float64(pairs)
	return &avg
}
