package service

import (
	"errors"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/policy"
	"reviewhub/internal/api/repository"

	"gorm.io/gorm"
)

// ErrForbidden marks an authenticated request whose actor lacks the role
// or ownership the operation needs. Handlers map it to 403, never 404.
var ErrForbidden = errors.New("insufficient permissions")

type UserService interface {
	Create(actor *policy.Actor, req dto.CreateUserRequest) (*dto.UserResponse, error)
	List(actor *policy.Actor, search string, page, pageSize int) (*dto.PaginatedResponse[dto.UserResponse], error)
	GetByUsername(actor *policy.Actor, username string) (*dto.UserResponse, error)
	Update(actor *policy.Actor, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(actor *policy.Actor, username string) error
	GetSelf(actor *policy.Actor) (*dto.UserResponse, error)
	UpdateSelf(actor *policy.Actor, req dto.UpdateUserRequest) (*dto.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// Create registers an account on behalf of an admin, no confirmation
// code involved.
func (s *userService) Create(actor *policy.Actor, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	if !policy.Allow(actor, policy.ActionCreate, policy.Resource{Kind: policy.KindAccount}) {
		return nil, ErrForbidden
	}
	if err := validateUsername(req.Username); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.FindByUsername(req.Username); err == nil {
		return nil, ErrUsernameTaken
	}
	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, ErrEmailTaken
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      role,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) List(actor *policy.Actor, search string, page, pageSize int) (*dto.PaginatedResponse[dto.UserResponse], error) {
	if !policy.Allow(actor, policy.ActionRead, policy.Resource{Kind: policy.KindAccount}) {
		return nil, ErrForbidden
	}

	users, total, err := s.userRepo.List(search, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *dto.FromModelToUserResponse(&users[i]))
	}
	return dto.NewPaginatedResponse(responses, int(total), page, pageSize), nil
}

func (s *userService) GetByUsername(actor *policy.Actor, username string) (*dto.UserResponse, error) {
	if !policy.Allow(actor, policy.ActionRead, policy.Resource{Kind: policy.KindAccount}) {
		return nil, ErrForbidden
	}
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

func (s *userService) Update(actor *policy.Actor, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if !actor.IsAdmin() {
		// owners go through /users/me; the admin surface stays admin-only
		return nil, ErrForbidden
	}
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.applyUpdate(user, req, true)
}

func (s *userService) Delete(actor *policy.Actor, username string) error {
	if !policy.Allow(actor, policy.ActionDelete, policy.Resource{Kind: policy.KindAccount}) {
		return ErrForbidden
	}
	if err := s.userRepo.Delete(username); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *userService) GetSelf(actor *policy.Actor) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}

// UpdateSelf applies a partial profile update for the account owner. The
// role field is dropped, not rejected: a payload carrying role succeeds
// with the role untouched.
func (s *userService) UpdateSelf(actor *policy.Actor, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.applyUpdate(user, req, false)
}

func (s *userService) applyUpdate(user *models.User, req dto.UpdateUserRequest, allowRole bool) (*dto.UserResponse, error) {
	if req.Email != nil && *req.Email != user.Email {
		if _, err := s.userRepo.FindByEmail(*req.Email); err == nil {
			return nil, ErrEmailTaken
		}
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if allowRole && req.Role != nil {
		user.Role = *req.Role
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return dto.FromModelToUserResponse(user), nil
}
