package dto

import (
	"time"

	"leadflow/internal/domains/appointment/model"
	"leadflow/internal/domains/appointment/slot"
	"leadflow/shared"
	"leadflow/shared/constant"
	gDto "leadflow/shared/dto"
	gModel "leadflow/shared/model"
	"leadflow/shared/timezone"

	"github.com/google/uuid"
)

type BookAppointmentRequest struct {
	LeadID      string  `json:"lead_id" validate:"required,uuid4"`
	EvaluatorID string  `json:"evaluator_id" validate:"required,uuid4"`
	Date        string  `json:"date" validate:"required,dateonly"`
	Half        string  `json:"half" validate:"omitempty,halfday"`
	Slot        string  `json:"slot" validate:"required"`
	Notes       *string `json:"notes" validate:"omitempty,max=1024"`
}

func (r *BookAppointmentRequest) ToModel(start time.Time, user string) model.Appointment {
	return model.Appointment{
		ID:              uuid.NewString(),
		LeadID:          r.LeadID,
		EvaluatorID:     r.EvaluatorID,
		Date:            start,
		DurationMinutes: int(slot.SlotDuration.Minutes()),
		Status:          model.StatusBooked,
		Notes:           r.Notes,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateAppointmentStatusRequest struct {
	Status string  `db:"status" json:"status" validate:"required,oneof=Completed Cancelled Rescheduled"`
	Notes  *string `db:"notes" json:"notes" validate:"omitempty,max=1024"`
}

type AppointmentResponse struct {
	ID              string  `json:"id"`
	LeadID          string  `json:"lead_id"`
	EvaluatorID     string  `json:"evaluator_id"`
	Date            string  `json:"date"`
	Half            string  `json:"half"`
	DurationMinutes int     `json:"duration_minutes"`
	Status          string  `json:"status"`
	Notes           *string `json:"notes,omitempty"`
	gDto.Metadata
}

func (r *AppointmentResponse) FromModel(mod model.Appointment) {
	start := timezone.ToAppTime(mod.Date)

	r.ID = mod.ID
	r.LeadID = mod.LeadID
	r.EvaluatorID = mod.EvaluatorID
	r.Date = start.Format(constant.DateFormat)
	r.Half = slot.HalfOf(start).String()
	r.DurationMinutes = mod.DurationMinutes
	r.Status = mod.Status
	r.Notes = mod.Notes
	r.Metadata.FromModel(mod.Metadata)
}

type GetAppointmentsResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetAppointmentsResponse) FromModels(models []model.Appointment, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Appointments = make([]AppointmentResponse, len(models))
	for i, mod := range models {
		r.Appointments[i].FromModel(mod)
	}
}

// SlotsResponse lists the bookable starts of one half. An empty list is a
// normal outcome, not an error.
type SlotsResponse struct {
	EvaluatorID string   `json:"evaluator_id"`
	Date        string   `json:"date"`
	Half        string   `json:"half"`
	Slots       []string `json:"slots"`
}

func (r *SlotsResponse) FromStarts(evaluatorID, date string, half slot.Half, starts []time.Time) {
	r.EvaluatorID = evaluatorID
	r.Date = date
	r.Half = half.String()

	r.Slots = make([]string, len(starts))
	for i, start := range starts {
		r.Slots[i] = start.Format(constant.DateFormat)
	}
}

type BookableDateResponse struct {
	Day      string `json:"day"`
	Bookable bool   `json:"bookable"`
}

type BookableDatesResponse struct {
	EvaluatorID string                 `json:"evaluator_id"`
	Dates       []BookableDateResponse `json:"dates"`
}
