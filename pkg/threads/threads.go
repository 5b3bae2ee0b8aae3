// Package threads computes engagement and health heuristics over
// communication threads.
package threads

import (
	"sort"
	"strings"
	"time"
)

// Direction of a message relative to the organization.
const (
	Inbound  = "inbound"
	Outbound = "outbound"
)

// Sentiment tags.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
	SentimentHostile  = "hostile"
)

// StaleAfter is how long an unanswered inbound message may wait.
const StaleAfter = 24 * time.Hour

// Message is the part of a communication record the analyzer reads.
type Message struct {
	ID              string    `json:"id"`
	ThreadID        string    `json:"thread_id"`
	CaseID          string    `json:"case_id"`
	DebtorID        string    `json:"debtor_id"`
	Direction       string    `json:"direction"`
	Subject         string    `json:"subject,omitempty"`
	Content         string    `json:"content,omitempty"`
	Sentiment       string    `json:"sentiment,omitempty"`
	ComplianceFlags []string  `json:"compliance_flags,omitempty"`
	SentAt          time.Time `json:"sent_at"`
}

var sentimentScores = map[string]float64{
	SentimentPositive: 1,
	SentimentNeutral:  0,
	SentimentNegative: -1,
	SentimentHostile:  -2,
}

func direction(m Message) string { return strings.ToLower(strings.TrimSpace(m.Direction)) }

func sentiment(m Message) string { return strings.ToLower(strings.TrimSpace(m.Sentiment)) }

// SortBySentAt orders messages ascending; zero timestamps sort first and
// ties keep input order.
func SortBySentAt(msgs []Message) {
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].SentAt.Before(msgs[j].SentAt) })
}
