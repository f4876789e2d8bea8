package model

import (
	"time"

	"leadflow/shared/model"
)

const (
	TableName  = "appointments"
	EntityName = "appointment"

	FieldID              = "id"
	FieldLeadID          = "lead_id"
	FieldEvaluatorID     = "evaluator_id"
	FieldDate            = "date"
	FieldDurationMinutes = "duration_minutes"
	FieldStatus          = "status"
	FieldNotes           = "notes"
)

const (
	StatusBooked      = "Booked"
	StatusCompleted   = "Completed"
	StatusCancelled   = "Cancelled"
	StatusRescheduled = "Rescheduled"
)

// Appointment is a booked evaluation visit. date is the slot start
// instant; a partial unique index on (evaluator_id, date) over
// non-cancelled rows backs the one-appointment-per-instant rule.
type Appointment struct {
	ID              string    `db:"id"`
	LeadID          string    `db:"lead_id"`
	EvaluatorID     string    `db:"evaluator_id"`
	Date            time.Time `db:"date"`
	DurationMinutes int       `db:"duration_minutes"`
	Status          string    `db:"status"`
	Notes           *string   `db:"notes"`
	model.Metadata
}
