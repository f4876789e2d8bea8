package model

import "leadflow/shared/model"

const (
	TableName  = "campaigns"
	EntityName = "campaign"

	FieldID         = "id"
	FieldName       = "name"
	FieldSlug       = "slug"
	FieldState      = "state"
	FieldPeriodFrom = "period_from"
	FieldPeriodTo   = "period_to"
)

// Campaign is a marketing push whose slug backs the public intake URL.
// Leads created through the intake carry the campaign name as source.
type Campaign struct {
	ID         string  `db:"id"`
	Name       string  `db:"name"`
	Slug       string  `db:"slug"`
	State      *string `db:"state"`
	PeriodFrom *string `db:"period_from"`
	PeriodTo   *string `db:"period_to"`
	model.Metadata
}
