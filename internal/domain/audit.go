package domain

import "time"

type EventKind string

const (
	EventCreated    EventKind = "CREATED"
	EventLinkViewed EventKind = "LINK_VIEWED"
	EventResponded  EventKind = "RESPONDED"
	EventDraftSaved EventKind = "DRAFT_SAVED"
	EventUnlocked   EventKind = "UNLOCKED"
	EventUpdated    EventKind = "UPDATED"
	EventConfirmed  EventKind = "CONFIRMED"
	EventCancelled  EventKind = "CANCELLED"
	EventAdminEdit  EventKind = "ADMIN_EDIT"
)

// AuditEvent é um registro imutável; o sistema apenas anexa, nunca lê o
// histórico para tomar decisões.
type AuditEvent struct {
	ID            int64          `json:"id"`
	MacroPeriodID int64          `json:"macroPeriodID"`
	Kind          EventKind      `json:"kind"`
	Payload       map[string]any `json:"payload,omitempty"`
	CreatedBy     string         `json:"createdBy"`
	CreatedAt     time.Time      `json:"createdAt"`
}
