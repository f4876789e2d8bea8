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
	availMocks "leadflow/internal/domains/availability/mocks"
	"leadflow/internal/domains/availability/model"
	"leadflow/internal/domains/availability/model/dto"
	"leadflow/internal/domains/availability/service"
	userMocks "leadflow/internal/domains/user/mocks"
	userModel "leadflow/internal/domains/user/model"
	"leadflow/shared/constant"
	gDto "leadflow/shared/dto"
	"leadflow/shared/failure"
)

const testEvaluatorID = "7b8a2c1e-52f3-4f6d-9a0e-1c2d3e4f5a6b"

func newService(t *testing.T) (service.Availability, *availMocks.MockAvailability, *userMocks.MockUser) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockRepo := availMocks.NewMockAvailability(ctrl)
	mockUserRepo := userMocks.NewMockUser(ctrl)

	svc := service.New(mockRepo, mockUserRepo, &config.Config{}, mocks.NewOtel())

	return svc, mockRepo, mockUserRepo
}

func managerCtx(state string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "manager-id")
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleManager)

	return context.WithValue(ctx, constant.ContextKeyUserState, state)
}

func evaluatorCtx(userID string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleEvaluator)

	return context.WithValue(ctx, constant.ContextKeyUserState, constant.StateTelangana)
}

func strPtr(s string) *string {
	return &s
}

func TestAvailabilityService_Set(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		req       dto.SetAvailabilityRequest
		setupMock func(repo *availMocks.MockAvailability, userRepo *userMocks.MockUser)
		wantErr   bool
		wantErrIs error
	}{
		{
			name: "sets one half and keeps the other",
			ctx:  managerCtx(constant.StateTelangana),
			req:  dto.SetAvailabilityRequest{FirstHalf: strPtr("Calling")},
			setupMock: func(repo *availMocks.MockAvailability, userRepo *userMocks.MockUser) {
				userRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(userModel.User{ID: testEvaluatorID, State: constant.StateTelangana}, nil)
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Availability{
						ID:          "existing-row",
						EvaluatorID: testEvaluatorID,
						Day:         "2030-06-03",
						FirstHalf:   "Not Set",
						SecondHalf:  "Field Work",
					}, nil)
				repo.EXPECT().
					Upsert(gomock.Any(), gomock.Any(), []string{model.FieldEvaluatorID, model.FieldDay}, gomock.Any()).
					DoAndReturn(func(_ context.Context, row model.Availability, _, _ []string) error {
						assert.Equal(t, "Calling", row.FirstHalf)
						assert.Equal(t, "Field Work", row.SecondHalf)
						assert.Equal(t, "existing-row", row.ID)

						return nil
					})
			},
		},
		{
			name:    "rejects an empty request",
			ctx:     managerCtx(constant.StateTelangana),
			req:     dto.SetAvailabilityRequest{},
			wantErr: true,
		},
		{
			name: "rejects a manager outside the evaluator's state",
			ctx:  managerCtx(constant.StateTamilNadu),
			req:  dto.SetAvailabilityRequest{FirstHalf: strPtr("Calling")},
			setupMock: func(repo *availMocks.MockAvailability, userRepo *userMocks.MockUser) {
				userRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(userModel.User{ID: testEvaluatorID, State: constant.StateTelangana}, nil)
			},
			wantErr: true,
		},
		{
			name: "evaluators can set their own availability",
			ctx:  evaluatorCtx(testEvaluatorID),
			req:  dto.SetAvailabilityRequest{FirstHalf: strPtr("Field Work")},
			setupMock: func(repo *availMocks.MockAvailability, userRepo *userMocks.MockUser) {
				userRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(userModel.User{ID: testEvaluatorID, State: constant.StateTelangana}, nil)
				repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Availability{}, nil)
				repo.EXPECT().
					Upsert(gomock.Any(), gomock.Any(), []string{model.FieldEvaluatorID, model.FieldDay}, gomock.Any()).
					DoAndReturn(func(_ context.Context, row model.Availability, _, _ []string) error {
						assert.Equal(t, testEvaluatorID, row.EvaluatorID)
						assert.Equal(t, "Field Work", row.FirstHalf)

						return nil
					})
			},
		},
		{
			name:      "rejects an evaluator touching another evaluator's row",
			ctx:       evaluatorCtx("someone-else"),
			req:       dto.SetAvailabilityRequest{FirstHalf: strPtr("Calling")},
			wantErr:   true,
			wantErrIs: failure.ResourceRestrictedError,
		},
		{
			name: "rejects an unknown evaluator",
			ctx:  managerCtx(constant.StateTelangana),
			req:  dto.SetAvailabilityRequest{SecondHalf: strPtr("Leave")},
			setupMock: func(repo *availMocks.MockAvailability, userRepo *userMocks.MockUser) {
				userRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(userModel.User{}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, userRepo := newService(t)

			if tt.setupMock != nil {
				tt.setupMock(repo, userRepo)
			}

			err := svc.Set(tt.ctx, tt.req, testEvaluatorID, "2030-06-03")

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantErrIs != nil {
					assert.ErrorIs(t, err, tt.wantErrIs)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAvailabilityService_Get(t *testing.T) {
	t.Run("returns the stored row", func(t *testing.T) {
		svc, repo, _ := newService(t)

		repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Availability{
				ID:          "row-id",
				EvaluatorID: testEvaluatorID,
				Day:         "2030-06-03",
				FirstHalf:   "Calling",
				SecondHalf:  "Leave",
			}, nil)

		res, err := svc.Get(context.Background(), testEvaluatorID, "2030-06-03")
		require.NoError(t, err)

		assert.True(t, res.Exists)
		assert.Equal(t, "Calling", res.FirstHalf)
		assert.Equal(t, "Leave", res.SecondHalf)
	})

	t.Run("absent day reads as Not Set", func(t *testing.T) {
		svc, repo, _ := newService(t)

		repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Availability{}, nil)

		res, err := svc.Get(context.Background(), testEvaluatorID, "2030-06-03")
		require.NoError(t, err)

		assert.False(t, res.Exists)
		assert.Equal(t, "Not Set", res.FirstHalf)
		assert.Equal(t, "Not Set", res.SecondHalf)
	})
}

func TestAvailabilityService_Range(t *testing.T) {
	svc, repo, _ := newService(t)

	repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Availability, error) {
			assert.Equal(t, model.FieldDay, params.SortBy)
			assert.Equal(t, gDto.SortDirAsc, params.SortDir)
			assert.Len(t, filter.Filters, 3)

			return []model.Availability{
				{ID: "a", Day: "2030-06-03"},
				{ID: "b", Day: "2030-06-04"},
			}, nil
		})

	res, err := svc.Range(context.Background(), testEvaluatorID, "2030-06-03", "2030-06-09")
	require.NoError(t, err)
	assert.Len(t, res.Availabilities, 2)
}

func TestAvailabilityService_TeamOverview(t *testing.T) {
	t.Run("managers only see evaluators in their state", func(t *testing.T) {
		svc, repo, userRepo := newService(t)

		repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Availability{
				{ID: "a", EvaluatorID: "in-state", Day: "2030-06-03"},
				{ID: "b", EvaluatorID: "out-of-state", Day: "2030-06-03"},
			}, nil)
		userRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any(), userModel.FieldID).
			Return([]userModel.User{{ID: "in-state"}}, nil)

		res, err := svc.TeamOverview(managerCtx(constant.StateTelangana), "2030-06-03")
		require.NoError(t, err)

		require.Len(t, res.Availabilities, 1)
		assert.Equal(t, "in-state", res.Availabilities[0].EvaluatorID)
	})

	t.Run("repository error", func(t *testing.T) {
		svc, repo, _ := newService(t)

		repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("database error"))

		_, err := svc.TeamOverview(context.Background(), "2030-06-03")
		assert.Error(t, err)
	})
}
