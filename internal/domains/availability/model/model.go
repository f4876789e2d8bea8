package model

import (
	"leadflow/internal/domains/appointment/slot"
	"leadflow/shared/model"
)

const (
	TableName  = "availabilities"
	EntityName = "availability"

	FieldID          = "id"
	FieldEvaluatorID = "evaluator_id"
	FieldDay         = "day"
	FieldFirstHalf   = "first_half"
	FieldSecondHalf  = "second_half"
)

// Availability is one evaluator's declared statuses for one calendar day.
// (evaluator_id, day) is unique; Set upserts against that key.
type Availability struct {
	ID          string `db:"id"`
	EvaluatorID string `db:"evaluator_id"`
	Day         string `db:"day"`
	FirstHalf   string `db:"first_half"`
	SecondHalf  string `db:"second_half"`
	model.Metadata
}

// Daily maps the row onto the slot engine's value type.
func (a Availability) Daily() slot.DailyAvailability {
	return slot.DailyAvailability{
		FirstHalf:  slot.Status(a.FirstHalf),
		SecondHalf: slot.Status(a.SecondHalf),
	}
}
