package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"leadflow/config"
	"leadflow/infras/otel/mocks"
	userMocks "leadflow/internal/domains/user/mocks"
	"leadflow/internal/domains/user/model"
	"leadflow/internal/domains/user/model/dto"
	"leadflow/internal/domains/user/service"
	"leadflow/shared/constant"
	gDto "leadflow/shared/dto"
	"leadflow/shared/password"
)

const testUserID = "3c2b1a0f-9e8d-4c7b-a6f5-0e1d2c3b4a59"

func newService(t *testing.T) (service.User, *userMocks.MockUser) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := userMocks.NewMockUser(ctrl)
	svc := service.New(repo, &config.Config{}, mocks.NewOtel())

	return svc, repo
}

func authedCtx(role, state string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-admin-id")
	ctx = context.WithValue(ctx, constant.ContextKeyUserRole, role)

	return context.WithValue(ctx, constant.ContextKeyUserState, state)
}

func TestUserService_Create(t *testing.T) {
	t.Run("creates an active user with a hashed password", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)
		repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, user model.User) error {
				assert.True(t, user.Active)
				assert.Equal(t, constant.RoleEvaluator, user.Role)
				assert.NoError(t, password.Verify("s3cret-pass", user.Password))

				return nil
			})

		err := svc.Create(authedCtx(constant.RoleAdmin, constant.StateAll), dto.CreateUserRequest{
			Name:     "Ravi Kumar",
			Email:    "ravi@example.com",
			Password: "s3cret-pass",
			Role:     constant.RoleEvaluator,
			State:    constant.StateTelangana,
		})
		assert.NoError(t, err)
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		err := svc.Create(authedCtx(constant.RoleAdmin, constant.StateAll), dto.CreateUserRequest{
			Name:     "Ravi Kumar",
			Email:    "ravi@example.com",
			Password: "s3cret-pass",
			Role:     constant.RoleEvaluator,
			State:    constant.StateTelangana,
		})
		assert.Error(t, err)
	})
}

func TestUserService_GetAll(t *testing.T) {
	t.Run("managers are scoped to their state", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
				require.Len(t, filter.Filters, 1)
				f, ok := filter.Filters[0].(gDto.Filter)
				require.True(t, ok)
				assert.Equal(t, model.FieldState, f.Field)
				assert.Equal(t, constant.StateTamilNadu, f.Value)

				return 1, nil
			})
		repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.User{{ID: testUserID, State: constant.StateTamilNadu}}, nil)

		res, err := svc.GetAll(authedCtx(constant.RoleManager, constant.StateTamilNadu), gDto.QueryParams{}, gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd})
		require.NoError(t, err)
		assert.Len(t, res.Users, 1)
	})

	t.Run("admins see every state", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().
			Count(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
				assert.Empty(t, filter.Filters)

				return 2, nil
			})
		repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.User{{ID: "a"}, {ID: "b"}}, nil)

		res, err := svc.GetAll(authedCtx(constant.RoleAdmin, constant.StateAll), gDto.QueryParams{}, gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd})
		require.NoError(t, err)
		assert.Len(t, res.Users, 2)
	})
}

func TestUserService_Get(t *testing.T) {
	t.Run("returns a stored user", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.User{ID: testUserID, Name: "Ravi Kumar", Role: constant.RoleEvaluator}, nil)

		res, err := svc.Get(authedCtx(constant.RoleAdmin, constant.StateAll), testUserID)
		require.NoError(t, err)
		assert.Equal(t, testUserID, res.ID)
		assert.Equal(t, constant.RoleEvaluator, res.Role)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.User{}, nil)

		_, err := svc.Get(authedCtx(constant.RoleAdmin, constant.StateAll), "missing")
		assert.Error(t, err)
	})
}

func TestUserService_Update(t *testing.T) {
	t.Run("updates role and state", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)
		repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, constant.RoleManager, fields[model.FieldRole])
				assert.Equal(t, constant.StateTamilNadu, fields[model.FieldState])

				return nil
			})

		err := svc.Update(authedCtx(constant.RoleAdmin, constant.StateAll), dto.UpdateUserRequest{Role: constant.RoleManager, State: constant.StateTamilNadu}, testUserID)
		assert.NoError(t, err)
	})

	t.Run("empty request is rejected", func(t *testing.T) {
		svc, _ := newService(t)

		err := svc.Update(authedCtx(constant.RoleAdmin, constant.StateAll), dto.UpdateUserRequest{}, testUserID)
		assert.Error(t, err)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		err := svc.Update(authedCtx(constant.RoleAdmin, constant.StateAll), dto.UpdateUserRequest{Role: constant.RoleManager}, "missing")
		assert.Error(t, err)
	})
}

func TestUserService_Delete(t *testing.T) {
	t.Run("deletes an existing user", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)
		repo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil)

		assert.NoError(t, svc.Delete(authedCtx(constant.RoleAdmin, constant.StateAll), testUserID))
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, repo := newService(t)

		repo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		assert.Error(t, svc.Delete(authedCtx(constant.RoleAdmin, constant.StateAll), "missing"))
	})
}
