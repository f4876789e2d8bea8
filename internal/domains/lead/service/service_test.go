package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"leadflow/config"
	"leadflow/infras/otel/mocks"
	leadMocks "leadflow/internal/domains/lead/mocks"
	"leadflow/internal/domains/lead/model"
	"leadflow/internal/domains/lead/model/dto"
	"leadflow/internal/domains/lead/service"
	userMocks "leadflow/internal/domains/user/mocks"
	userModel "leadflow/internal/domains/user/model"
	cacheMocks "leadflow/shared/cache/mocks"
	"leadflow/shared/constant"
	gDto "leadflow/shared/dto"
)

const (
	testLeadID      = "0f9e8d7c-6b5a-4abc-8def-123456789abc"
	testEvaluatorID = "7b8a2c1e-52f3-4f6d-9a0e-1c2d3e4f5a6b"
)

type leadServiceMocks struct {
	repo     *leadMocks.MockLead
	userRepo *userMocks.MockUser
	cache    *cacheMocks.MockRedisCache
}

func newService(t *testing.T) (service.Lead, leadServiceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	m := leadServiceMocks{
		repo:     leadMocks.NewMockLead(ctrl),
		userRepo: userMocks.NewMockUser(ctrl),
		cache:    cacheMocks.NewMockRedisCache(ctrl),
	}

	// List caches are invalidated from a goroutine after writes.
	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(m.repo, m.userRepo, cfg, m.cache, mocks.NewOtel())

	return svc, m
}

func authedCtx(role, state string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, role)

	return context.WithValue(ctx, constant.ContextKeyUserState, state)
}

func TestLeadService_Create(t *testing.T) {
	svc, m := newService(t)

	m.repo.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, lead model.Lead) error {
			assert.Equal(t, model.StatusNew, lead.Status)
			require.Len(t, lead.StatusHistory, 1)
			assert.Equal(t, model.StatusNew, lead.StatusHistory[0].Status)
			assert.Empty(t, lead.Interactions)
			assert.Empty(t, lead.Notes)

			return nil
		})

	err := svc.Create(authedCtx(constant.RoleManager, constant.StateTelangana), dto.CreateLeadRequest{
		Name:   "Asha Rao",
		City:   "Hyderabad",
		State:  constant.StateTelangana,
		Source: "Website",
		Phone:  "+919876543210",
		Email:  "asha@example.com",
	})
	assert.NoError(t, err)
}

func TestLeadService_GetAll_Scoping(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		wantField string
		wantValue string
	}{
		{
			name:      "evaluators only see assigned leads",
			ctx:       authedCtx(constant.RoleEvaluator, constant.StateTelangana),
			wantField: model.FieldAssignedUserID,
			wantValue: "test-user-id",
		},
		{
			name:      "managers are scoped to their state",
			ctx:       authedCtx(constant.RoleManager, constant.StateTamilNadu),
			wantField: model.FieldState,
			wantValue: constant.StateTamilNadu,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)

			m.cache.EXPECT().
				Get(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(errors.New("cache miss")).
				Times(2)

			var captured gDto.FilterGroup

			m.repo.EXPECT().
				Count(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
					captured = filter

					return 1, nil
				})
			m.repo.EXPECT().
				GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
				Return([]model.Lead{{ID: testLeadID, Status: model.StatusNew}}, nil)

			res, err := svc.GetAll(tt.ctx, gDto.QueryParams{}, gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd})
			require.NoError(t, err)
			assert.Len(t, res.Leads, 1)

			require.Len(t, captured.Filters, 1)
			filter, ok := captured.Filters[0].(gDto.Filter)
			require.True(t, ok)
			assert.Equal(t, tt.wantField, filter.Field)
			assert.Equal(t, tt.wantValue, filter.Value)
		})
	}
}

func TestLeadService_GetAll_AdminUnscoped(t *testing.T) {
	svc, m := newService(t)

	m.cache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss")).
		Times(2)
	m.repo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
			assert.Empty(t, filter.Filters)

			return 2, nil
		})
	m.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Lead{{ID: "a"}, {ID: "b"}}, nil)

	res, err := svc.GetAll(authedCtx(constant.RoleAdmin, constant.StateAll), gDto.QueryParams{}, gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd})
	require.NoError(t, err)
	assert.Len(t, res.Leads, 2)
}

func TestLeadService_Get(t *testing.T) {
	t.Run("returns a stored lead on cache miss", func(t *testing.T) {
		svc, m := newService(t)

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Lead{ID: testLeadID, Name: "Asha Rao", Status: model.StatusNew}, nil)

		res, err := svc.Get(authedCtx(constant.RoleAdmin, constant.StateAll), testLeadID)
		require.NoError(t, err)
		assert.Equal(t, testLeadID, res.ID)
		assert.Equal(t, "Asha Rao", res.Name)
	})

	t.Run("serves from cache without hitting the repository", func(t *testing.T) {
		svc, m := newService(t)

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, dest any) error {
				res, ok := dest.(*dto.LeadResponse)
				require.True(t, ok)
				res.ID = testLeadID

				return nil
			})

		res, err := svc.Get(authedCtx(constant.RoleAdmin, constant.StateAll), testLeadID)
		require.NoError(t, err)
		assert.Equal(t, testLeadID, res.ID)
	})

	t.Run("unknown lead", func(t *testing.T) {
		svc, m := newService(t)

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))
		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Lead{}, nil)

		_, err := svc.Get(authedCtx(constant.RoleAdmin, constant.StateAll), "missing")
		assert.Error(t, err)
	})
}

func TestLeadService_Update(t *testing.T) {
	t.Run("updates contact details", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)
		m.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, "+919000000000", fields["phone"])

				return nil
			})

		err := svc.Update(authedCtx(constant.RoleManager, constant.StateAll), dto.UpdateLeadRequest{Phone: "+919000000000"}, testLeadID)
		assert.NoError(t, err)
	})

	t.Run("empty request is rejected", func(t *testing.T) {
		svc, _ := newService(t)

		err := svc.Update(authedCtx(constant.RoleManager, constant.StateAll), dto.UpdateLeadRequest{}, testLeadID)
		assert.Error(t, err)
	})

	t.Run("unknown lead", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		err := svc.Update(authedCtx(constant.RoleManager, constant.StateAll), dto.UpdateLeadRequest{Phone: "+919000000000"}, "missing")
		assert.Error(t, err)
	})
}

func TestLeadService_UpdateStatus(t *testing.T) {
	t.Run("appends the transition to status history", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any(), model.FieldID, model.FieldStatus).
			Return(model.Lead{ID: testLeadID, Status: model.StatusNew}, nil)
		m.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, model.StatusInDiscussion, fields[model.FieldStatus])

				return nil
			})
		m.repo.EXPECT().
			AppendLog(gomock.Any(), testLeadID, model.FieldStatusHistory, gomock.Any(), "test-user-id").
			DoAndReturn(func(_ context.Context, _, _ string, entry any, _ string) error {
				historyEntry, ok := entry.(model.StatusHistoryEntry)
				require.True(t, ok)
				assert.Equal(t, model.StatusInDiscussion, historyEntry.Status)

				return nil
			})

		err := svc.UpdateStatus(authedCtx(constant.RoleManager, constant.StateAll), dto.UpdateLeadStatusRequest{Status: model.StatusInDiscussion}, testLeadID)
		assert.NoError(t, err)
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any(), model.FieldID, model.FieldStatus).
			Return(model.Lead{ID: testLeadID, Status: model.StatusNew}, nil)

		err := svc.UpdateStatus(authedCtx(constant.RoleManager, constant.StateAll), dto.UpdateLeadStatusRequest{Status: model.StatusNew}, testLeadID)
		assert.NoError(t, err)
	})

	t.Run("unknown lead", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any(), model.FieldID, model.FieldStatus).
			Return(model.Lead{}, nil)

		err := svc.UpdateStatus(authedCtx(constant.RoleManager, constant.StateAll), dto.UpdateLeadStatusRequest{Status: model.StatusConverted}, "missing")
		assert.Error(t, err)
	})
}

func TestLeadService_Assign(t *testing.T) {
	tests := []struct {
		name      string
		evaluator userModel.User
		wantErr   bool
	}{
		{
			name:      "assigns to an evaluator in the lead's state",
			evaluator: userModel.User{ID: testEvaluatorID, Role: constant.RoleEvaluator, State: constant.StateTelangana},
		},
		{
			name:      "assigns to an all-states evaluator",
			evaluator: userModel.User{ID: testEvaluatorID, Role: constant.RoleEvaluator, State: constant.StateAll},
		},
		{
			name:      "rejects an evaluator in another state",
			evaluator: userModel.User{ID: testEvaluatorID, Role: constant.RoleEvaluator, State: constant.StateTamilNadu},
			wantErr:   true,
		},
		{
			name:      "rejects a non-evaluator assignee",
			evaluator: userModel.User{ID: testEvaluatorID, Role: constant.RoleManager, State: constant.StateTelangana},
			wantErr:   true,
		},
		{
			name:      "rejects an unknown assignee",
			evaluator: userModel.User{},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)

			m.repo.EXPECT().
				Get(gomock.Any(), gomock.Any(), model.FieldID, model.FieldState).
				Return(model.Lead{ID: testLeadID, State: constant.StateTelangana}, nil)
			m.userRepo.EXPECT().
				Get(gomock.Any(), gomock.Any()).
				Return(tt.evaluator, nil)

			if !tt.wantErr {
				m.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, testEvaluatorID, fields[model.FieldAssignedUserID])

						return nil
					})
			}

			err := svc.Assign(authedCtx(constant.RoleManager, constant.StateAll), dto.AssignLeadRequest{EvaluatorID: testEvaluatorID}, testLeadID)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLeadService_LogCall(t *testing.T) {
	svc, m := newService(t)

	m.repo.EXPECT().
		Exist(gomock.Any(), gomock.Any()).
		Return(true, nil)
	m.repo.EXPECT().
		AppendLog(gomock.Any(), testLeadID, model.FieldInteractions, gomock.Any(), "test-user-id").
		DoAndReturn(func(_ context.Context, _, _ string, entry any, _ string) error {
			interaction, ok := entry.(model.Interaction)
			require.True(t, ok)
			assert.Equal(t, "call", interaction.Type)
			assert.Equal(t, model.CallStatusConnected, interaction.CallStatus)

			return nil
		})

	err := svc.LogCall(authedCtx(constant.RoleEvaluator, constant.StateTelangana), dto.LogCallRequest{CallStatus: model.CallStatusConnected}, testLeadID)
	assert.NoError(t, err)
}

func TestLeadService_AddNote(t *testing.T) {
	t.Run("appends a note", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)
		m.repo.EXPECT().
			AppendLog(gomock.Any(), testLeadID, model.FieldNotes, gomock.Any(), "test-user-id").
			Return(nil)

		err := svc.AddNote(authedCtx(constant.RoleEvaluator, constant.StateTelangana), dto.AddNoteRequest{Text: "Spoke with the prospect"}, testLeadID)
		assert.NoError(t, err)
	})

	t.Run("unknown lead", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		err := svc.AddNote(authedCtx(constant.RoleEvaluator, constant.StateTelangana), dto.AddNoteRequest{Text: "note"}, "missing")
		assert.Error(t, err)
	})
}

func TestLeadService_Delete(t *testing.T) {
	t.Run("deletes an existing lead", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)
		m.repo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil)

		assert.NoError(t, svc.Delete(authedCtx(constant.RoleAdmin, constant.StateAll), testLeadID))
	})

	t.Run("unknown lead", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		assert.Error(t, svc.Delete(authedCtx(constant.RoleAdmin, constant.StateAll), "missing"))
	})
}
