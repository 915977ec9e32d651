package models

import "time"

// Event types recorded during a clean cycle.
const (
	EventTrigger       = "TRIGGER"
	EventReady         = "READY"
	EventTimeout       = "TIMEOUT"
	EventDispatch      = "DISPATCH"
	EventError         = "ERROR"
	EventSettingChange = "SETTING_CHANGE"
)

// CleanEvent is a single log entry for the clean-cycle pipeline.
type CleanEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // TRIGGER | READY | TIMEOUT | DISPATCH | ERROR | SETTING_CHANGE
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
