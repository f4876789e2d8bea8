package dto

import (
	"leadflow/internal/domains/lead/model"
	"leadflow/shared"
	gDto "leadflow/shared/dto"
	gModel "leadflow/shared/model"
	"leadflow/shared/timezone"

	"github.com/google/uuid"
)

type CreateLeadRequest struct {
	Name               string  `json:"name" validate:"required,max=255"`
	City               string  `json:"city" validate:"required,max=255"`
	State              string  `json:"state" validate:"required,oneof=Telangana 'Tamil Nadu'"`
	Source             string  `json:"source" validate:"required,max=255"`
	Phone              string  `json:"phone" validate:"required,max=20"`
	Email              string  `json:"email" validate:"required,email,max=255"`
	InvestmentCapacity *string `json:"investment_capacity" validate:"omitempty,oneof=8–12 12–15 15–20"`
	FranchiseeAge      *int    `json:"franchisee_age" validate:"omitempty,gte=18,lte=100"`
	Occupation         *string `json:"occupation" validate:"omitempty,max=255"`
	Income             *string `json:"income" validate:"omitempty,max=255"`
	MaritalStatus      *string `json:"marital_status" validate:"omitempty,oneof=Married Single"`
	Qualification      *string `json:"qualification" validate:"omitempty,max=255"`
	PharmacyExperience *bool   `json:"retail_pharmacy_experience" validate:"omitempty"`
	HasOtherBusinesses *bool   `json:"has_other_businesses" validate:"omitempty"`
	OtherBusinesses    *string `json:"other_businesses_details" validate:"omitempty,max=1024"`
}

func (c *CreateLeadRequest) ToModel(user string) model.Lead {
	now := timezone.Now()

	return model.Lead{
		ID:                 uuid.NewString(),
		Name:               c.Name,
		City:               c.City,
		State:              c.State,
		Source:             c.Source,
		Status:             model.StatusNew,
		Phone:              c.Phone,
		Email:              c.Email,
		InvestmentCapacity: c.InvestmentCapacity,
		FranchiseeAge:      c.FranchiseeAge,
		Occupation:         c.Occupation,
		Income:             c.Income,
		MaritalStatus:      c.MaritalStatus,
		Qualification:      c.Qualification,
		PharmacyExperience: c.PharmacyExperience,
		HasOtherBusinesses: c.HasOtherBusinesses,
		OtherBusinesses:    c.OtherBusinesses,
		StatusHistory: model.StatusHistory{
			{Status: model.StatusNew, ChangedBy: user, ChangedAt: now},
		},
		Interactions: model.Interactions{},
		Notes:        model.Notes{},
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateLeadRequest struct {
	Name               string  `db:"name" json:"name" validate:"omitempty,max=255"`
	City               string  `db:"city" json:"city" validate:"omitempty,max=255"`
	Phone              string  `db:"phone" json:"phone" validate:"omitempty,max=20"`
	Email              string  `db:"email" json:"email" validate:"omitempty,email,max=255"`
	InvestmentCapacity *string `db:"investment_capacity" json:"investment_capacity" validate:"omitempty,oneof=8–12 12–15 15–20"`
	FranchiseeAge      *int    `db:"franchisee_age" json:"franchisee_age" validate:"omitempty,gte=18,lte=100"`
	Occupation         *string `db:"occupation" json:"occupation" validate:"omitempty,max=255"`
	Income             *string `db:"income" json:"income" validate:"omitempty,max=255"`
	MaritalStatus      *string `db:"marital_status" json:"marital_status" validate:"omitempty,oneof=Married Single"`
	Qualification      *string `db:"qualification" json:"qualification" validate:"omitempty,max=255"`
	PharmacyExperience *bool   `db:"retail_pharmacy_experience" json:"retail_pharmacy_experience" validate:"omitempty"`
	HasOtherBusinesses *bool   `db:"has_other_businesses" json:"has_other_businesses" validate:"omitempty"`
	OtherBusinesses    *string `db:"other_businesses_details" json:"other_businesses_details" validate:"omitempty,max=1024"`
}

type UpdateLeadStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=New 'WhatsApp - Sent' 'WhatsApp - Delivery Failed' 'Form 2 - Submitted' 'Form 2 - No Response' 'In Discussion' 'Follow-up Required' Converted 'Not Interested'"`
}

type AssignLeadRequest struct {
	EvaluatorID string `json:"evaluator_id" validate:"required,uuid4"`
}

type LogCallRequest struct {
	CallStatus      string `json:"call_status" validate:"required,oneof='Phone Not Connected' 'Switched Off' Busy Connected"`
	DurationSeconds int    `json:"duration_seconds" validate:"omitempty,gte=0"`
	Notes           string `json:"notes" validate:"omitempty,max=1024"`
}

func (r *LogCallRequest) ToInteraction(user string) model.Interaction {
	return model.Interaction{
		Type:            "call",
		CallStatus:      r.CallStatus,
		DurationSeconds: r.DurationSeconds,
		Notes:           r.Notes,
		CreatedBy:       user,
		CreatedAt:       timezone.Now(),
	}
}

type AddNoteRequest struct {
	Text string `json:"text" validate:"required,max=1024"`
}

func (r *AddNoteRequest) ToNote(user string) model.Note {
	return model.Note{
		Text:      r.Text,
		CreatedBy: user,
		CreatedAt: timezone.Now(),
	}
}

type LeadResponse struct {
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	City               string              `json:"city"`
	State              string              `json:"state"`
	Source             string              `json:"source"`
	Status             string              `json:"status"`
	Phone              string              `json:"phone"`
	Email              string              `json:"email"`
	AssignedUserID     *string             `json:"assigned_user_id,omitempty"`
	InvestmentCapacity *string             `json:"investment_capacity,omitempty"`
	FranchiseeAge      *int                `json:"franchisee_age,omitempty"`
	Occupation         *string             `json:"occupation,omitempty"`
	Income             *string             `json:"income,omitempty"`
	MaritalStatus      *string             `json:"marital_status,omitempty"`
	Qualification      *string             `json:"qualification,omitempty"`
	PharmacyExperience *bool               `json:"retail_pharmacy_experience,omitempty"`
	HasOtherBusinesses *bool               `json:"has_other_businesses,omitempty"`
	OtherBusinesses    *string             `json:"other_businesses_details,omitempty"`
	StatusHistory      model.StatusHistory `json:"status_history"`
	Interactions       model.Interactions  `json:"interactions"`
	Notes              model.Notes         `json:"notes"`
	gDto.Metadata
}

func (r *LeadResponse) FromModel(mod model.Lead) {
	r.ID = mod.ID
	r.Name = mod.Name
	r.City = mod.City
	r.State = mod.State
	r.Source = mod.Source
	r.Status = mod.Status
	r.Phone = mod.Phone
	r.Email = mod.Email
	r.AssignedUserID = mod.AssignedUserID
	r.InvestmentCapacity = mod.InvestmentCapacity
	r.FranchiseeAge = mod.FranchiseeAge
	r.Occupation = mod.Occupation
	r.Income = mod.Income
	r.MaritalStatus = mod.MaritalStatus
	r.Qualification = mod.Qualification
	r.PharmacyExperience = mod.PharmacyExperience
	r.HasOtherBusinesses = mod.HasOtherBusinesses
	r.OtherBusinesses = mod.OtherBusinesses
	r.StatusHistory = mod.StatusHistory
	r.Interactions = mod.Interactions
	r.Notes = mod.Notes
	r.Metadata.FromModel(mod.Metadata)
}

type GetLeadsResponse struct {
	Leads     []LeadResponse `json:"leads"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetLeadsResponse) FromModels(models []model.Lead, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Leads = make([]LeadResponse, len(models))
	for i, mod := range models {
		r.Leads[i].FromModel(mod)
	}
}
