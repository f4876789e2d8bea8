package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"leadflow/config"
	"leadflow/infras/otel/mocks"
	campaignMocks "leadflow/internal/domains/campaign/mocks"
	"leadflow/internal/domains/campaign/model"
	"leadflow/internal/domains/campaign/model/dto"
	"leadflow/internal/domains/campaign/service"
	leadMocks "leadflow/internal/domains/lead/mocks"
	leadModel "leadflow/internal/domains/lead/model"
	"leadflow/shared/constant"
	gDto "leadflow/shared/dto"
)

const testCampaignID = "9d8c7b6a-5e4f-4d3c-b2a1-0f9e8d7c6b5a"

func newService(t *testing.T) (service.Campaign, *campaignMocks.MockCampaign, *leadMocks.MockLead) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := campaignMocks.NewMockCampaign(ctrl)
	leadRepo := leadMocks.NewMockLead(ctrl)
	svc := service.New(repo, leadRepo, &config.Config{}, mocks.NewOtel())

	return svc, repo, leadRepo
}

func authedCtx() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-admin-id")
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)

	return context.WithValue(ctx, constant.ContextKeyUserState, constant.StateAll)
}

func TestCampaignService_Create(t *testing.T) {
	t.Run("creates a campaign", func(t *testing.T) {
		svc, repo, _ := newService(t)

		repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)
		repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, campaign model.Campaign) error {
				assert.Equal(t, "summer-2026", campaign.Slug)
				assert.NotEmpty(t, campaign.ID)

				return nil
			})

		err := svc.Create(authedCtx(), dto.CreateCampaignRequest{
			Name: "Summer 2026",
			Slug: "summer-2026",
		})
		assert.NoError(t, err)
	})

	t.Run("rejects a taken slug", func(t *testing.T) {
		svc, repo, _ := newService(t)

		repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		err := svc.Create(authedCtx(), dto.CreateCampaignRequest{
			Name: "Summer 2026",
			Slug: "summer-2026",
		})
		assert.Error(t, err)
	})
}

func TestCampaignService_GetAll(t *testing.T) {
	svc, repo, leadRepo := newService(t)

	campaigns := []model.Campaign{
		{ID: "c1", Name: "Summer 2026", Slug: "summer-2026"},
		{ID: "c2", Name: "Diwali 2026", Slug: "diwali-2026"},
	}

	repo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(2, nil)
	repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(campaigns, nil)
	leadRepo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
			require.Len(t, filter.Filters, 1)
			f, ok := filter.Filters[0].(gDto.Filter)
			require.True(t, ok)
			assert.Equal(t, leadModel.FieldSource, f.Field)

			if f.Value == "Summer 2026" {
				return 7, nil
			}

			return 3, nil
		}).
		Times(2)

	res, err := svc.GetAll(authedCtx(), gDto.QueryParams{}, gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd})
	require.NoError(t, err)
	require.Len(t, res.Campaigns, 2)
	assert.Equal(t, 7, res.Campaigns[0].LeadCount)
	assert.Equal(t, 3, res.Campaigns[1].LeadCount)
}

func TestCampaignService_Get(t *testing.T) {
	t.Run("returns the campaign with its lead count", func(t *testing.T) {
		svc, repo, leadRepo := newService(t)

		repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Campaign{ID: testCampaignID, Name: "Summer 2026", Slug: "summer-2026"}, nil)
		leadRepo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			Return(5, nil)

		res, err := svc.Get(authedCtx(), testCampaignID)
		require.NoError(t, err)
		assert.Equal(t, testCampaignID, res.ID)
		assert.Equal(t, 5, res.LeadCount)
	})

	t.Run("unknown campaign", func(t *testing.T) {
		svc, repo, _ := newService(t)

		repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Campaign{}, nil)

		_, err := svc.Get(authedCtx(), "missing")
		assert.Error(t, err)
	})
}

func TestCampaignService_Update(t *testing.T) {
	t.Run("renames a campaign", func(t *testing.T) {
		svc, repo, _ := newService(t)

		repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)
		repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, "Monsoon 2026", fields[model.FieldName])

				return nil
			})

		err := svc.Update(authedCtx(), dto.UpdateCampaignRequest{Name: "Monsoon 2026"}, testCampaignID)
		assert.NoError(t, err)
	})

	t.Run("empty request is rejected", func(t *testing.T) {
		svc, _, _ := newService(t)

		err := svc.Update(authedCtx(), dto.UpdateCampaignRequest{}, testCampaignID)
		assert.Error(t, err)
	})
}

func TestCampaignService_Delete(t *testing.T) {
	t.Run("deletes an existing campaign", func(t *testing.T) {
		svc, repo, _ := newService(t)

		repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)
		repo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil)

		assert.NoError(t, svc.Delete(authedCtx(), testCampaignID))
	})

	t.Run("unknown campaign", func(t *testing.T) {
		svc, repo, _ := newService(t)

		repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		assert.Error(t, svc.Delete(authedCtx(), "missing"))
	})
}

func TestCampaignService_IntakeLead(t *testing.T) {
	intake := dto.CampaignLeadRequest{
		Name:  "Asha Rao",
		City:  "Hyderabad",
		State: constant.StateTelangana,
		Phone: "+919876543210",
		Email: "asha@example.com",
	}

	t.Run("creates a lead sourced from the campaign", func(t *testing.T) {
		svc, repo, leadRepo := newService(t)

		repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Campaign{ID: testCampaignID, Name: "Summer 2026", Slug: "summer-2026"}, nil)
		leadRepo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, lead leadModel.Lead) error {
				assert.Equal(t, "Summer 2026", lead.Source)
				assert.Equal(t, leadModel.StatusNew, lead.Status)
				assert.Equal(t, constant.ContextGuest, lead.Metadata.CreatedBy)

				return nil
			})

		err := svc.IntakeLead(context.Background(), intake, "summer-2026")
		assert.NoError(t, err)
	})

	t.Run("unknown slug", func(t *testing.T) {
		svc, repo, _ := newService(t)

		repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Campaign{}, nil)

		err := svc.IntakeLead(context.Background(), intake, "missing")
		assert.Error(t, err)
	})
}
