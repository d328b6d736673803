package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of event (created, updated, deleted, ...)
type EventType string

const (
	EventTypeCreated  EventType = "created"
	EventTypeUpdated  EventType = "updated"
	EventTypeIssued   EventType = "issued"
	EventTypeCancelled EventType = "cancelled"
	EventTypeEmitted  EventType = "emitted"
	EventTypeAnnulled EventType = "annulled"
	EventTypeConfirmed EventType = "confirmed"
	EventTypePaidOut  EventType = "paid_out"
	EventTypeApplied  EventType = "applied"
	EventTypeCompleted EventType = "completed"
)

// EntityType represents the type of entity the event is about
type EntityType string

const (
	EntityTypeAppliedCharge  EntityType = "applied_charge"
	EntityTypePayment        EntityType = "payment"
	EntityTypeCredit         EntityType = "credit"
	EntityTypeInvoice        EntityType = "invoice"
	EntityTypeCreditNote     EntityType = "credit_note"
	EntityTypeBillingBatch   EntityType = "billing_batch"
	EntityTypePayrollRun     EntityType = "payroll_run"
	EntityTypeEmployeePayment EntityType = "employee_payment"
)

// Event represents a WebSocket event message sent to admin-console clients.
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"`      // Combined type e.g. "payment.created"
	Entity    EntityType  `json:"entity"`    // Entity type e.g. "payment"
	Payload   interface{} `json:"payload"`   // Full entity data
	Timestamp time.Time   `json:"timestamp"` // Event timestamp
}

// NewEvent creates a new event with the given type, entity, and payload
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// AppliedChargeIssued creates an applied_charge.issued event (single or batch issuance)
func AppliedChargeIssued(payload interface{}) Event {
	return NewEvent(EventTypeIssued, EntityTypeAppliedCharge, payload)
}

// AppliedChargeCancelled creates an applied_charge.cancelled event
func AppliedChargeCancelled(payload interface{}) Event {
	return NewEvent(EventTypeCancelled, EntityTypeAppliedCharge, payload)
}

// PaymentRecorded creates a payment.created event
func PaymentRecorded(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypePayment, payload)
}

// CreditApplied creates a credit.applied event, emitted after a FIFO credit reapplication run
func CreditApplied(payload interface{}) Event {
	return NewEvent(EventTypeApplied, EntityTypeCredit, payload)
}

// InvoiceEmitted creates an invoice.emitted event
func InvoiceEmitted(payload interface{}) Event {
	return NewEvent(EventTypeEmitted, EntityTypeInvoice, payload)
}

// InvoiceAnnulled creates an invoice.annulled event
func InvoiceAnnulled(payload interface{}) Event {
	return NewEvent(EventTypeAnnulled, EntityTypeInvoice, payload)
}

// CreditNoteCreated creates a credit_note.created event
func CreditNoteCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeCreditNote, payload)
}

// BillingBatchCompleted creates a billing_batch.completed event, summarising a
// recurring-charge generation or global-charge application run
func BillingBatchCompleted(payload interface{}) Event {
	return NewEvent(EventTypeCompleted, EntityTypeBillingBatch, payload)
}

// PayrollRunConfirmed creates a payroll_run.confirmed event
func PayrollRunConfirmed(payload interface{}) Event {
	return NewEvent(EventTypeConfirmed, EntityTypePayrollRun, payload)
}

// PayrollRunPaidOut creates a payroll_run.paid_out event
func PayrollRunPaidOut(payload interface{}) Event {
	return NewEvent(EventTypePaidOut, EntityTypePayrollRun, payload)
}

// EmployeePaymentRecorded creates an employee_payment.created event
func EmployeePaymentRecorded(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeEmployeePayment, payload)
}
