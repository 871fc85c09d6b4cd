package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos/internal/domain/entity"
	"github.com/sangkips/restaurant-pos/internal/domain/repository"
	"github.com/sangkips/restaurant-pos/pkg/apperror"
	"github.com/sangkips/restaurant-pos/pkg/pagination"
	"github.com/sangkips/restaurant-pos/pkg/utils"
)

const minPasswordLength = 8

// UserService manages restaurant staff accounts
type UserService struct {
	userRepo   repository.UserRepository
	roleRepo   repository.RoleRepository
	transactor repository.Transactor
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	transactor repository.Transactor,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		transactor: transactor,
	}
}

// CreateUserInput represents the input for creating a staff member
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Roles    []string
}

// CreateUser creates a staff member with the named roles
func (s *UserService) CreateUser(ctx context.Context, input *CreateUserInput) (*entity.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var fieldErrors []apperror.FieldError
	if name == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "name", Message: "is required"})
	}
	if email == "" || !strings.Contains(email, "@") {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "email", Message: "must be a valid email"})
	}
	if len(input.Password) < minPasswordLength {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "password", Message: "must be at least 8 characters"})
	}
	if len(input.Roles) == 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "roles", Message: "at least one role is required"})
	}
	if len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError(fieldErrors)
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		Name:     name,
		Email:    email,
		Password: hashed,
		Active:   true,
	}

	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.userRepo.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperror.NewConflictError("Email already registered")
		}

		roleIDs, err := s.resolveRoles(ctx, input.Roles)
		if err != nil {
			return err
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return err
		}
		for _, id := range roleIDs {
			if err := s.userRepo.AssignRole(ctx, user.ID, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.userRepo.GetWithRoles(ctx, user.ID)
}

// ListUsers returns a paginated list of staff with their roles
func (s *UserService) ListUsers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.User], error) {
	params.Validate()
	users, total, err := s.userRepo.List(ctx, params, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}
	return pagination.Paginate(users, params, total), nil
}

// GetUser returns a user by ID with roles and permissions
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// UpdateUserRoles replaces the roles assigned to a user
func (s *UserService) UpdateUserRoles(ctx context.Context, userID uuid.UUID, roles []string) (*entity.User, error) {
	if len(roles) == 0 {
		return nil, apperror.NewFieldValidationError("roles", "at least one role is required")
	}

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return apperror.NewNotFoundError("User")
		}
		roleIDs, err := s.resolveRoles(ctx, roles)
		if err != nil {
			return err
		}
		return s.userRepo.ReplaceRoles(ctx, userID, roleIDs)
	})
	if err != nil {
		return nil, err
	}
	return s.userRepo.GetWithRoles(ctx, userID)
}

// SetActive enables or disables a staff account. Disabled users cannot log in or refresh tokens.
func (s *UserService) SetActive(ctx context.Context, actorID, userID uuid.UUID, active bool) (*entity.User, error) {
	if actorID == userID && !active {
		return nil, apperror.NewInvalidStateError("You cannot deactivate your own account")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	user.Active = active
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.userRepo.GetWithRoles(ctx, userID)
}

// ListRoles returns all roles with their permissions
func (s *UserService) ListRoles(ctx context.Context) ([]entity.Role, error) {
	return s.roleRepo.List(ctx)
}

func (s *UserService) resolveRoles(ctx context.Context, names []string) ([]uint, error) {
	seen := make(map[uint]bool, len(names))
	ids := make([]uint, 0, len(names))
	for _, name := range names {
		role, err := s.roleRepo.GetByName(ctx, strings.ToLower(strings.TrimSpace(name)))
		if err != nil {
			return nil, err
		}
		if role == nil {
			return nil, apperror.NewFieldValidationError("roles", "unknown role "+name)
		}
		if !seen[role.ID] {
			seen[role.ID] = true
			ids = append(ids, role.ID)
		}
	}
	return ids, nil
}
