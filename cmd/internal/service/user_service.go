package service

import (
	"context"
	"strings"

	"timeforge/cmd/internal/domain/entity"
	"timeforge/cmd/internal/utils"
	"timeforge/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type UserRepository interface {
	FindByID(id int) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	Search(text string) ([]*entity.User, error)
	FindPage(page, limit int) ([]*entity.User, int64, error)
	Save(user *entity.User) error
	Delete(user *entity.User) error
}

type CreateUserRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=80"`
	Email      string `json:"email" validate:"required,email"`
	ImgProfile string `json:"img_profile" validate:"omitempty,url"`
}

type UpdateUserRequest struct {
	Name       string  `json:"name" validate:"omitempty,min=2,max=80"`
	Email      string  `json:"email" validate:"omitempty,email"`
	ImgProfile *string `json:"img_profile"`
	ImgCover   *string `json:"img_cover"`
	Location   *string `json:"location"`
	TimeZone   *string `json:"timeZone"`
	Desc       *string `json:"desc"`
	Phone      *string `json:"phone" validate:"omitempty,max=20"`
}

type UserResponse struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	ImgProfile     string `json:"img_profile,omitempty"`
	ImgCover       string `json:"img_cover,omitempty"`
	Location       string `json:"location,omitempty"`
	TimeZone       string `json:"timeZone,omitempty"`
	Desc           string `json:"desc,omitempty"`
	Phone          string `json:"phone,omitempty"`
	TotalMeeting   int    `json:"totalMeeting"`
	IsRefreshToken bool   `json:"isRefreshToken"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

type DefaultUserService struct {
	UserRepo   UserRepository
	Propagator *DefaultPropagationService
	Validate   *validator.Validate
}

func NewUserService(userRepo UserRepository, propagator *DefaultPropagationService, validate *validator.Validate) *DefaultUserService {
	return &DefaultUserService{UserRepo: userRepo, Propagator: propagator, Validate: validate}
}

// CreateUser registers a profile on first contact. Registration is
// idempotent on email: an existing profile is returned as-is, flagged so
// the route can answer 200 instead of 201.
func (u *DefaultUserService) CreateUser(req *CreateUserRequest) (*UserResponse, bool, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, false, apierror.FromValidationError(err)
	}
	req.Email = strings.ToLower(req.Email)

	existing, err := u.UserRepo.FindByEmail(req.Email)
	if err != nil {
		log.Errorf("failed to check if user %s exists: %v", req.Email, err)
		return nil, false, apierror.InternalServerError
	}
	if existing != nil {
		return toUserResponse(existing), false, nil
	}

	now := utils.NowUTC()
	user := &entity.User{
		Name:      req.Name,
		Email:     req.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.ImgProfile != "" {
		user.ImgProfile = &req.ImgProfile
	}

	if err := u.UserRepo.Save(user); err != nil {
		log.Errorf("failed to create user: %v", err)
		return nil, false, apierror.InternalServerError
	}
	return toUserResponse(user), true, nil
}

func (u *DefaultUserService) GetUserByID(id int) (*UserResponse, apierror.ErrorResponse) {
	user, err := u.UserRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch user %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if user == nil {
		return nil, apierror.UserNotFoundError
	}
	return toUserResponse(user), nil
}

func (u *DefaultUserService) GetUserByEmail(email string) (*UserResponse, apierror.ErrorResponse) {
	user, err := u.UserRepo.FindByEmail(strings.ToLower(email))
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", email, err)
		return nil, apierror.InternalServerError
	}
	if user == nil {
		return nil, apierror.UserNotFoundError
	}
	return toUserResponse(user), nil
}

func (u *DefaultUserService) UpdateUser(id int, req *UpdateUserRequest) (*UserResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	user, err := u.UserRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch user %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if user == nil {
		return nil, apierror.UserNotFoundError
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = strings.ToLower(req.Email)
	}
	if req.ImgProfile != nil {
		user.ImgProfile = req.ImgProfile
	}
	if req.ImgCover != nil {
		user.ImgCover = req.ImgCover
	}
	if req.Location != nil {
		user.Location = req.Location
	}
	if req.TimeZone != nil {
		user.TimeZone = req.TimeZone
	}
	if req.Desc != nil {
		user.Desc = req.Desc
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	user.UpdatedAt = utils.NowUTC()

	if err := u.UserRepo.Save(user); err != nil {
		log.Errorf("failed to update user %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toUserResponse(user), nil
}

// SearchUsers matches profiles by name or email fragment for the guest
// picker.
func (u *DefaultUserService) SearchUsers(text string) ([]*UserResponse, apierror.ErrorResponse) {
	users, err := u.UserRepo.Search(text)
	if err != nil {
		log.Errorf("user search %q failed: %v", text, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*UserResponse, len(users))
	for i, user := range users {
		resp[i] = toUserResponse(user)
	}
	return resp, nil
}

// DeleteUser cascades depth-first through every owned meeting and its
// dependents before removing the account itself.
func (u *DefaultUserService) DeleteUser(ctx context.Context, email string) (*CascadeReport, apierror.ErrorResponse) {
	user, err := u.UserRepo.FindByEmail(strings.ToLower(email))
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", email, err)
		return nil, apierror.InternalServerError
	}
	if user == nil {
		return nil, apierror.UserNotFoundError
	}
	return u.Propagator.DeleteUser(ctx, user), nil
}

func toUserResponse(user *entity.User) *UserResponse {
	resp := &UserResponse{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		TotalMeeting:   user.TotalMeeting,
		IsRefreshToken: user.IsRefreshToken,
		CreatedAt:      utils.FormatEpoch(user.CreatedAt),
		UpdatedAt:      utils.FormatEpoch(user.UpdatedAt),
	}
	if user.ImgProfile != nil {
		resp.ImgProfile = *user.ImgProfile
	}
	if user.ImgCover != nil {
		resp.ImgCover = *user.ImgCover
	}
	if user.Location != nil {
		resp.Location = *user.Location
	}
	if user.TimeZone != nil {
		resp.TimeZone = *user.TimeZone
	}
	if user.Desc != nil {
		resp.Desc = *user.Desc
	}
	if user.Phone != nil {
		resp.Phone = *user.Phone
	}
	return resp
}
