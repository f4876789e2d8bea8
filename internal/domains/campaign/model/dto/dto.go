package dto

import (
	"leadflow/internal/domains/campaign/model"
	"leadflow/shared"
	gDto "leadflow/shared/dto"
	gModel "leadflow/shared/model"
	"leadflow/shared/timezone"

	"github.com/google/uuid"
)

type CreateCampaignRequest struct {
	Name       string  `json:"name" validate:"required,max=255"`
	Slug       string  `json:"slug" validate:"required,lowercase,max=255,excludesall= "`
	State      *string `json:"state" validate:"omitempty,oneof=Telangana 'Tamil Nadu' All"`
	PeriodFrom *string `json:"period_from" validate:"omitempty,dateonly"`
	PeriodTo   *string `json:"period_to" validate:"omitempty,dateonly"`
}

func (c *CreateCampaignRequest) ToModel(user string) model.Campaign {
	return model.Campaign{
		ID:         uuid.NewString(),
		Name:       c.Name,
		Slug:       c.Slug,
		State:      c.State,
		PeriodFrom: c.PeriodFrom,
		PeriodTo:   c.PeriodTo,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateCampaignRequest struct {
	Name       string  `db:"name" json:"name" validate:"omitempty,max=255"`
	State      *string `db:"state" json:"state" validate:"omitempty,oneof=Telangana 'Tamil Nadu' All"`
	PeriodFrom *string `db:"period_from" json:"period_from" validate:"omitempty,dateonly"`
	PeriodTo   *string `db:"period_to" json:"period_to" validate:"omitempty,dateonly"`
}

// CampaignLeadRequest is the public intake payload, deliberately smaller
// than the authenticated lead create shape.
type CampaignLeadRequest struct {
	Name  string `json:"name" validate:"required,max=255"`
	City  string `json:"city" validate:"required,max=255"`
	State string `json:"state" validate:"required,oneof=Telangana 'Tamil Nadu'"`
	Phone string `json:"phone" validate:"required,max=20"`
	Email string `json:"email" validate:"required,email,max=255"`
}

type CampaignResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Slug       string  `json:"slug"`
	State      *string `json:"state,omitempty"`
	PeriodFrom *string `json:"period_from,omitempty"`
	PeriodTo   *string `json:"period_to,omitempty"`
	LeadCount  int     `json:"lead_count"`
	gDto.Metadata
}

func (r *CampaignResponse) FromModel(mod model.Campaign, leadCount int) {
	r.ID = mod.ID
	r.Name = mod.Name
	r.Slug = mod.Slug
	r.State = mod.State
	r.PeriodFrom = mod.PeriodFrom
	r.PeriodTo = mod.PeriodTo
	r.LeadCount = leadCount
	r.Metadata.FromModel(mod.Metadata)
}

type GetCampaignsResponse struct {
	Campaigns []CampaignResponse `json:"campaigns"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetCampaignsResponse) FromModels(models []model.Campaign, leadCounts map[string]int, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Campaigns = make([]CampaignResponse, len(models))
	for i, mod := range models {
		r.Campaigns[i].FromModel(mod, leadCounts[mod.ID])
	}
}
