package dto

import (
	"leadflow/internal/domains/user/model"
	"leadflow/shared"
	gDto "leadflow/shared/dto"
	gModel "leadflow/shared/model"
	"leadflow/shared/timezone"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	Name     string  `json:"name" validate:"required,max=255"`
	Email    string  `json:"email" validate:"required,email,max=255"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	Role     string  `json:"role" validate:"required,oneof=admin manager evaluator"`
	State    string  `json:"state" validate:"required,oneof=Telangana 'Tamil Nadu' All"`
	Avatar   *string `json:"avatar" validate:"omitempty,url,max=512"`
}

func (c *CreateUserRequest) ToModel(hashedPassword, createdBy string) model.User {
	return model.User{
		ID:       uuid.NewString(),
		Name:     c.Name,
		Email:    c.Email,
		Password: hashedPassword,
		Role:     c.Role,
		State:    c.State,
		Avatar:   c.Avatar,
		Active:   true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  createdBy,
			ModifiedBy: createdBy,
		},
	}
}

type UpdateUserRequest struct {
	Name   string  `db:"name" json:"name" validate:"omitempty,max=255"`
	Role   string  `db:"role" json:"role" validate:"omitempty,oneof=admin manager evaluator"`
	State  string  `db:"state" json:"state" validate:"omitempty,oneof=Telangana 'Tamil Nadu' All"`
	Avatar *string `db:"avatar" json:"avatar" validate:"omitempty,url,max=512"`
	Active *bool   `db:"active" json:"active" validate:"omitempty"`
}

type UserResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	State     string  `json:"state"`
	Avatar    *string `json:"avatar,omitempty"`
	Active    bool    `json:"active"`
	LastLogin *string `json:"last_login,omitempty"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(model model.User) {
	r.ID = model.ID
	r.Name = model.Name
	r.Email = model.Email
	r.Role = model.Role
	r.State = model.State
	r.Avatar = model.Avatar
	r.Active = model.Active
	r.LastLogin = model.LastLogin
	r.Metadata.FromModel(model.Metadata)
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(models []model.User, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Users = make([]UserResponse, len(models))
	for i, mod := range models {
		r.Users[i].FromModel(mod)
	}
}
