package event

// ============================================================================
// Event Names (constants)
// ============================================================================

const (
	InteractionRecorded   = "interaction.recorded"
	CostAlert             = "cost.alert"
	SettingsChanged       = "settings.changed"
	CommunicationCreated  = "communication.created"
	CommunicationAnalyzed = "communication.analyzed"
)

// ============================================================================
// AI Events
// ============================================================================

// InteractionRecordedEvent is emitted after an AI interaction is persisted.
type InteractionRecordedEvent struct {
	OrganizationID  string  `json:"organization_id"`
	InteractionID   string  `json:"interaction_id"`
	InteractionType string  `json:"interaction_type"`
	Model           string  `json:"model"`
	Tier            string  `json:"tier"`
	FellBack        bool    `json:"fell_back"`
	CostUSD         float64 `json:"cost_usd"`
}

func (e InteractionRecordedEvent) EventName() string { return InteractionRecorded }

// CostAlertEvent is emitted for each alert raised after spend changes.
type CostAlertEvent struct {
	OrganizationID string  `json:"organization_id"`
	Type           string  `json:"type"`     // "warning", "error"
	Level          string  `json:"level"`    // "medium", "high", "critical"
	Category       string  `json:"category"` // "monthly_limit", "daily_limit", "budget_exceeded"
	Message        string  `json:"message"`
	Percentage     float64 `json:"percentage"`
}

func (e CostAlertEvent) EventName() string { return CostAlert }

// ============================================================================
// Settings Events
// ============================================================================

// SettingsChangedEvent is emitted when an organization's cost limits change.
type SettingsChangedEvent struct {
	OrganizationID string `json:"organization_id"`
}

func (e SettingsChangedEvent) EventName() string { return SettingsChanged }

// ============================================================================
// Communication Events
// ============================================================================

// CommunicationCreatedEvent is emitted when a communication is logged.
type CommunicationCreatedEvent struct {
	OrganizationID  string `json:"organization_id"`
	CommunicationID string `json:"communication_id"`
	ThreadID        string `json:"thread_id,omitempty"`
}

func (e CommunicationCreatedEvent) EventName() string { return CommunicationCreated }

// CommunicationAnalyzedEvent is emitted when AI analysis updates a communication.
type CommunicationAnalyzedEvent struct {
	OrganizationID  string `json:"organization_id"`
	CommunicationID string `json:"communication_id"`
	Sentiment       string `json:"sentiment"`
}

func (e CommunicationAnalyzedEvent) EventName() string { return CommunicationAnalyzed }
