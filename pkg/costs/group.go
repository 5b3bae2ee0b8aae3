package costs

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// GroupBy selects the analytics bucket key.
type GroupBy string

const (
	GroupByDay   GroupBy = "day"
	GroupByWeek  GroupBy = "week"
	GroupByMonth GroupBy = "month"
	GroupByModel GroupBy = "model"
	GroupByType  GroupBy = "type"
)

// ParseGroupBy accepts the five grouping names; empty means day.
func ParseGroupBy(s string) (GroupBy, error) {
	switch g := GroupBy(strings.ToLower(strings.TrimSpace(s))); g {
	case "":
		return GroupByDay, nil
	case GroupByDay, GroupByWeek, GroupByMonth, GroupByModel, GroupByType:
		return g, nil
	default:
		return "", fmt.Errorf("unsupported group_by %q", s)
	}
}

// Group is one analytics bucket.
type Group struct {
	Key              string         `json:"key"`
	TotalCost        float64        `json:"total_cost"`
	Count            int            `json:"count"`
	PromptTokens     int            `json:"prompt_tokens"`
	CompletionTokens int            `json:"completion_tokens"`
	TotalTokens      int            `json:"total_tokens"`
	Models           map[string]int `json:"models"`
	Types            map[string]int `json:"types"`
}

// Key returns the bucket key of r under g. Time keys use UTC.
func Key(r Record, g GroupBy) string {
	switch g {
	case GroupByModel:
		return r.model()
	case GroupByType:
		return r.kind()
	}
	if r.CreatedAt.IsZero() {
		return Unknown
	}
	t := r.CreatedAt.UTC()
	switch g {
	case GroupByWeek:
		return t.AddDate(0, 0, -int(t.Weekday())).Format(time.DateOnly)
	case GroupByMonth:
		return t.Format("2006-01")
	default:
		return t.Format(time.DateOnly)
	}
}

// Aggregate folds records into groups sorted by key ascending.
func Aggregate(records []Record, g GroupBy) []Group {
	type acc struct {
		group Group
		cost  decimal.Decimal
	}
	byKey := make(map[string]*acc)
	for _, r := range records {
		k := Key(r, g)
		a, ok := byKey[k]
		if !ok {
			a = &acc{group: Group{Key: k, Models: map[string]int{}, Types: map[string]int{}}, cost: decimal.Zero}
			byKey[k] = a
		}
		prompt, completion, total := r.tokens()
		a.cost = a.cost.Add(r.cost())
		a.group.Count++
		a.group.PromptTokens += prompt
		a.group.CompletionTokens += completion
		a.group.TotalTokens += total
		a.group.Models[r.model()]++
		a.group.Types[r.kind()]++
	}

	groups := make([]Group, 0, len(byKey))
	for _, a := range byKey {
		a.group.TotalCost = roundDecimal(a.cost, 2)
		groups = append(groups, a.group)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	return groups
}
