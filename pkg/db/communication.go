// Database models for debtor communications
package db

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Direction of a communication relative to the organization
const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

// Sentiment tags produced by email analysis
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
	SentimentHostile  = "hostile"
)

// Communication channels
const (
	ChannelEmail  = "email"
	ChannelSMS    = "sms"
	ChannelCall   = "call"
	ChannelLetter = "letter"
)

// Delivery status
const (
	StatusQueued    = "queued"
	StatusSent      = "sent"
	StatusDelivered = "delivered"
	StatusFailed    = "failed"
	StatusReceived  = "received"
)

// CommunicationLog is one message exchanged with a debtor.
type CommunicationLog struct {
	ID              string     `json:"id" gorm:"primaryKey;size:36"`
	OrganizationID  string     `json:"organization_id" gorm:"index:idx_comm_org_thread;size:36;not null"`
	CaseID          string     `json:"case_id" gorm:"index;size:36"`
	DebtorID        string     `json:"debtor_id" gorm:"index;size:36"`
	Type            string     `json:"type" gorm:"size:20"`
	Direction       string     `json:"direction" gorm:"size:10"`
	Subject         string     `json:"subject,omitempty" gorm:"size:500"`
	Content         string     `json:"content" gorm:"type:text"`
	FromEmail       string     `json:"from_email,omitempty" gorm:"size:255"`
	ToEmail         string     `json:"to_email,omitempty" gorm:"size:255"`
	ThreadID        string     `json:"thread_id,omitempty" gorm:"index:idx_comm_org_thread;size:255"`
	AISentiment     string     `json:"ai_sentiment,omitempty" gorm:"size:20"`
	ComplianceFlags StringList `json:"compliance_flags,omitempty" gorm:"type:text"`
	Status          string     `json:"status" gorm:"size:20"`
	SentAt          time.Time  `json:"sent_at" gorm:"index"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (CommunicationLog) TableName() string {
	return "communication_logs"
}

// StringList is stored as a JSON array in a text column.
type StringList []string

// Value implements driver.Valuer for database storage
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for database retrieval. Unparseable values scan as empty.
func (l *StringList) Scan(value interface{}) error {
	*l = nil
	var raw []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return nil
	}
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	*l = out
	return nil
}
