package dto

import (
	"leadflow/internal/domains/appointment/slot"
	"leadflow/internal/domains/availability/model"
	gDto "leadflow/shared/dto"
	gModel "leadflow/shared/model"
	"leadflow/shared/timezone"

	"github.com/google/uuid"
)

// SetAvailabilityRequest carries the statuses to declare for one day.
// Omitted halves keep their stored value on upsert.
type SetAvailabilityRequest struct {
	FirstHalf  *string `json:"first_half" validate:"omitempty,oneof='Not Set' Calling 'Field Work' 'Not Available' Leave"`
	SecondHalf *string `json:"second_half" validate:"omitempty,oneof='Not Set' Calling 'Field Work' 'Not Available' Leave"`
}

func (r *SetAvailabilityRequest) ToModel(evaluatorID, day string, current model.Availability, user string) model.Availability {
	firstHalf := string(slot.StatusNotSet)
	secondHalf := string(slot.StatusNotSet)
	createdAt := timezone.Now()
	createdBy := user

	if current.ID != "" {
		firstHalf = current.FirstHalf
		secondHalf = current.SecondHalf
		createdAt = current.CreatedAt
		createdBy = current.CreatedBy
	}

	if r.FirstHalf != nil {
		firstHalf = *r.FirstHalf
	}

	if r.SecondHalf != nil {
		secondHalf = *r.SecondHalf
	}

	id := current.ID
	if id == "" {
		id = uuid.NewString()
	}

	return model.Availability{
		ID:          id,
		EvaluatorID: evaluatorID,
		Day:         day,
		FirstHalf:   firstHalf,
		SecondHalf:  secondHalf,
		Metadata: gModel.Metadata{
			CreatedAt:  createdAt,
			ModifiedAt: timezone.Now(),
			CreatedBy:  createdBy,
			ModifiedBy: user,
		},
	}
}

type AvailabilityResponse struct {
	ID          string `json:"id"`
	EvaluatorID string `json:"evaluator_id"`
	Day         string `json:"day"`
	FirstHalf   string `json:"first_half"`
	SecondHalf  string `json:"second_half"`
	gDto.Metadata
}

func (r *AvailabilityResponse) FromModel(model model.Availability) {
	r.ID = model.ID
	r.EvaluatorID = model.EvaluatorID
	r.Day = model.Day
	r.FirstHalf = model.FirstHalf
	r.SecondHalf = model.SecondHalf
	r.Metadata.FromModel(model.Metadata)
}

// DayAvailabilityResponse is the calendar read shape. Absent rows come
// back with both halves Not Set and exists false.
type DayAvailabilityResponse struct {
	EvaluatorID string `json:"evaluator_id"`
	Day         string `json:"day"`
	FirstHalf   string `json:"first_half"`
	SecondHalf  string `json:"second_half"`
	Exists      bool   `json:"exists"`
}

type GetAvailabilitiesResponse struct {
	Availabilities []AvailabilityResponse `json:"availabilities"`
	TotalData      int                    `json:"total_data"`
}

func (r *GetAvailabilitiesResponse) FromModels(models []model.Availability, totalData int) {
	r.TotalData = totalData

	r.Availabilities = make([]AvailabilityResponse, len(models))
	for i, mod := range models {
		r.Availabilities[i].FromModel(mod)
	}
}
