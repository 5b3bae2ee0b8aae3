// Conversation thread views over communication logs
package service

import (
	"context"
	"strings"
	"time"

	"github.com/choraleia/collectly/pkg/db"
	"github.com/choraleia/collectly/pkg/threads"
)

// ThreadDetail is one thread with its full analysis.
type ThreadDetail struct {
	ThreadID string                `json:"thread_id"`
	Messages []db.CommunicationLog `json:"messages"`
	Analysis threads.Analysis      `json:"analysis"`
}

// ThreadService exposes thread listing and analysis.
type ThreadService struct {
	communications *CommunicationStore
	now            func() time.Time
}

func NewThreadService(communications *CommunicationStore) *ThreadService {
	return &ThreadService{communications: communications, now: time.Now}
}

// Analyze loads a thread and runs the full analysis.
func (s *ThreadService) Analyze(ctx context.Context, organizationID, threadID string) (*ThreadDetail, error) {
	if strings.TrimSpace(organizationID) == "" || strings.TrimSpace(threadID) == "" {
		return nil, invalidInput("organization_id and thread id are required")
	}
	comms, err := s.communications.ListByThread(ctx, organizationID, threadID)
	if err != nil {
		return nil, err
	}
	if len(comms) == 0 {
		return nil, ErrNotFound
	}
	msgs := toThreadMessages(comms)
	threads.SortBySentAt(msgs)
	return &ThreadDetail{
		ThreadID: threadID,
		Messages: comms,
		Analysis: threads.Analyze(msgs, s.now()),
	}, nil
}

// List summarizes every thread of the organization, optionally for one case.
func (s *ThreadService) List(ctx context.Context, organizationID, caseID string) ([]threads.Thread, error) {
	if strings.TrimSpace(organizationID) == "" {
		return nil, invalidInput("organization_id is required")
	}
	comms, err := s.communications.ListThreaded(ctx, organizationID, caseID)
	if err != nil {
		return nil, err
	}
	return threads.Summarize(toThreadMessages(comms), s.now()), nil
}

func toThreadMessages(comms []db.CommunicationLog) []threads.Message {
	msgs := make([]threads.Message, 0, len(comms))
	for _, c := range comms {
		msgs = append(msgs, threads.Message{
			ID:              c.ID,
			ThreadID:        c.ThreadID,
			CaseID:          c.CaseID,
			DebtorID:        c.DebtorID,
			Direction:       c.Direction,
			Subject:         c.Subject,
			Content:         c.Content,
			Sentiment:       c.AISentiment,
			ComplianceFlags: c.ComplianceFlags,
			SentAt:          c.SentAt,
		})
	}
	return msgs
}
