package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Sezy0/NeoMart-Backend/internal/domain"
)

var _ domain.StoreUseCase = (*storeUseCase)(nil)

type storeUseCase struct {
	storeRepo domain.StoreRepository
	userRepo  domain.UserRepository
	log       *logrus.Logger
}

func NewStoreUseCase(storeRepo domain.StoreRepository, userRepo domain.UserRepository, logger *logrus.Logger) domain.StoreUseCase {
	return &storeUseCase{storeRepo: storeRepo, userRepo: userRepo, log: logger}
}

// CreateStore opens a store for the user and promotes them to SELLER.
func (uc *storeUseCase) CreateStore(ctx context.Context, ownerID int64, name, username, description string) (*domain.Store, error) {
	name = strings.TrimSpace(name)
	username = strings.ToLower(strings.TrimSpace(username))
	if name == "" || username == "" {
		return nil, fmt.Errorf("store name and username are required: %w", domain.ErrInvalidState)
	}

	owner, err := uc.userRepo.GetUserByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	store, err := uc.storeRepo.CreateStore(ctx, &domain.Store{
		OwnerID:     ownerID,
		Name:        name,
		Username:    username,
		Description: description,
	})
	if err != nil {
		return nil, err
	}

	if owner.Role == domain.RoleUser {
		if err := uc.userRepo.SetRole(ctx, ownerID, domain.RoleSeller); err != nil {
			uc.log.Errorf("Use Case: Store %d created but failed to promote user %d to seller: %v", store.ID, ownerID, err)
			return nil, err
		}
	}

	uc.log.Infof("Use Case: Store %d (%s) created by user %d", store.ID, store.Username, ownerID)
	return store, nil
}

func (uc *storeUseCase) GetStoreByID(ctx context.Context, id int64) (*domain.Store, error) {
	return uc.storeRepo.GetStoreByID(ctx, id)
}

func (uc *storeUseCase) ListStores(ctx context.Context, limit, offset int) ([]domain.Store, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	return uc.storeRepo.ListStores(ctx, limit, offset)
}

func (uc *storeUseCase) UpdateStore(ctx context.Context, actorID int64, actorRole domain.Role, id int64, name, description string) (*domain.Store, error) {
	store, err := uc.storeRepo.GetStoreByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actorRole != domain.RoleAdmin && store.OwnerID != actorID {
		return nil, fmt.Errorf("only the owner or an admin may update store %d: %w", id, domain.ErrAccessDenied)
	}

	if name = strings.TrimSpace(name); name != "" {
		store.Name = name
	}
	if description != "" {
		store.Description = description
	}
	return uc.storeRepo.UpdateStore(ctx, store)
}

func (uc *storeUseCase) DeleteStore(ctx context.Context, actorID int64, actorRole domain.Role, id int64) error {
	store, err := uc.storeRepo.GetStoreByID(ctx, id)
	if err != nil {
		return err
	}
	if actorRole != domain.RoleAdmin && store.OwnerID != actorID {
		return fmt.Errorf("only the owner or an admin may delete store %d: %w", id, domain.ErrAccessDenied)
	}
	return uc.storeRepo.DeleteStore(ctx, id)
}
