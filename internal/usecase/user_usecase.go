package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/Sezy0/NeoMart-Backend/internal/domain"
)

var _ domain.UserUseCase = (*userUseCase)(nil)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type userUseCase struct {
	userRepo domain.UserRepository
	log      *logrus.Logger
}

func NewUserUseCase(repo domain.UserRepository, logger *logrus.Logger) domain.UserUseCase {
	return &userUseCase{userRepo: repo, log: logger}
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters: %w", domain.ErrInvalidState)
	}
	return nil
}

func (uc *userUseCase) RegisterUser(ctx context.Context, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		return nil, fmt.Errorf("user name cannot be empty: %w", domain.ErrInvalidState)
	}
	if !emailRe.MatchString(email) {
		uc.log.Warnf("Use Case: Registration failed - invalid email format: %s", email)
		return nil, fmt.Errorf("invalid email format: %w", domain.ErrInvalidState)
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to hash password for %s: %v", email, err)
		return nil, fmt.Errorf("internal error processing password: %w", err)
	}

	newUser := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         domain.RoleUser,
	}

	createdUser, err := uc.userRepo.CreateUser(ctx, newUser)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to create user %s: %v", email, err)
		return nil, err
	}

	uc.log.Infof("Use Case: User registered successfully. ID: %d, Email: %s", createdUser.ID, createdUser.Email)
	return createdUser, nil
}

func (uc *userUseCase) GetProfile(ctx context.Context, id int64) (*domain.User, error) {
	return uc.userRepo.GetUserByID(ctx, id)
}

func (uc *userUseCase) UpdateProfile(ctx context.Context, id int64, name string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("user name cannot be empty: %w", domain.ErrInvalidState)
	}
	return uc.userRepo.UpdateUser(ctx, &domain.User{ID: id, Name: name})
}
