package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"leadflow/shared/model"
)

const (
	TableName  = "leads"
	EntityName = "lead"

	FieldID                 = "id"
	FieldName               = "name"
	FieldCity               = "city"
	FieldState              = "state"
	FieldSource             = "source"
	FieldStatus             = "status"
	FieldPhone              = "phone"
	FieldEmail              = "email"
	FieldAssignedUserID     = "assigned_user_id"
	FieldInvestmentCapacity = "investment_capacity"
	FieldFranchiseeAge      = "franchisee_age"
	FieldOccupation         = "occupation"
	FieldIncome             = "income"
	FieldMaritalStatus      = "marital_status"
	FieldQualification      = "qualification"
	FieldPharmacyExperience = "retail_pharmacy_experience"
	FieldHasOtherBusinesses = "has_other_businesses"
	FieldOtherBusinesses    = "other_businesses_details"
	FieldStatusHistory      = "status_history"
	FieldInteractions       = "interactions"
	FieldNotes              = "notes"
)

// Pipeline statuses, in funnel order.
const (
	StatusNew              = "New"
	StatusWhatsAppSent     = "WhatsApp - Sent"
	StatusWhatsAppFailed   = "WhatsApp - Delivery Failed"
	StatusForm2Submitted   = "Form 2 - Submitted"
	StatusForm2NoResponse  = "Form 2 - No Response"
	StatusInDiscussion     = "In Discussion"
	StatusFollowUpRequired = "Follow-up Required"
	StatusConverted        = "Converted"
	StatusNotInterested    = "Not Interested"
)

const (
	CallStatusNotConnected = "Phone Not Connected"
	CallStatusSwitchedOff  = "Switched Off"
	CallStatusBusy         = "Busy"
	CallStatusConnected    = "Connected"
)

type StatusHistoryEntry struct {
	Status    string    `json:"status"`
	ChangedBy string    `json:"changed_by"`
	ChangedAt time.Time `json:"changed_at"`
}

type Interaction struct {
	Type            string    `json:"type"`
	CallStatus      string    `json:"call_status,omitempty"`
	DurationSeconds int       `json:"duration_seconds,omitempty"`
	Notes           string    `json:"notes"`
	CreatedBy       string    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
}

type Note struct {
	Text      string    `json:"text"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type StatusHistory []StatusHistoryEntry

type Interactions []Interaction

type Notes []Note

func (h StatusHistory) Value() (driver.Value, error) { return jsonbValue(h) }

func (h *StatusHistory) Scan(src any) error { return jsonbScan(src, h) }

func (i Interactions) Value() (driver.Value, error) { return jsonbValue(i) }

func (i *Interactions) Scan(src any) error { return jsonbScan(src, i) }

func (n Notes) Value() (driver.Value, error) { return jsonbValue(n) }

func (n *Notes) Scan(src any) error { return jsonbScan(src, n) }

func jsonbValue(v any) (driver.Value, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal jsonb column: %w", err)
	}

	return payload, nil
}

func jsonbScan(src, dst any) error {
	if src == nil {
		return nil
	}

	var payload []byte

	switch value := src.(type) {
	case []byte:
		payload = value
	case string:
		payload = []byte(value)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}

	if err := json.Unmarshal(payload, dst); err != nil {
		return fmt.Errorf("failed to unmarshal jsonb column: %w", err)
	}

	return nil
}

// Lead is one franchise prospect moving through the pipeline. The three
// log columns are jsonb arrays, append-only through the repository.
type Lead struct {
	ID                 string        `db:"id"`
	Name               string        `db:"name"`
	City               string        `db:"city"`
	State              string        `db:"state"`
	Source             string        `db:"source"`
	Status             string        `db:"status"`
	Phone              string        `db:"phone"`
	Email              string        `db:"email"`
	AssignedUserID     *string       `db:"assigned_user_id"`
	InvestmentCapacity *string       `db:"investment_capacity"`
	FranchiseeAge      *int          `db:"franchisee_age"`
	Occupation         *string       `db:"occupation"`
	Income             *string       `db:"income"`
	MaritalStatus      *string       `db:"marital_status"`
	Qualification      *string       `db:"qualification"`
	PharmacyExperience *bool         `db:"retail_pharmacy_experience"`
	HasOtherBusinesses *bool         `db:"has_other_businesses"`
	OtherBusinesses    *string       `db:"other_businesses_details"`
	StatusHistory      StatusHistory `db:"status_history"`
	Interactions       Interactions  `db:"interactions"`
	Notes              Notes         `db:"notes"`
	model.Metadata
}
