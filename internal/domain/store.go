package domain

import (
	"context"
	"time"
)

type Store struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Name        string    `json:"name"`
	Username    string    `json:"username"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type StoreRepository interface {
	CreateStore(ctx context.Context, store *Store) (*Store, error)
	GetStoreByID(ctx context.Context, id int64) (*Store, error)
	ListStores(ctx context.Context, limit, offset int) ([]Store, error)
	UpdateStore(ctx context.Context, store *Store) (*Store, error)
	DeleteStore(ctx context.Context, id int64) error
}

type StoreUseCase interface {
	CreateStore(ctx context.Context, ownerID int64, name, username, description string) (*Store, error)
	GetStoreByID(ctx context.Context, id int64) (*Store, error)
	ListStores(ctx context.Context, limit, offset int) ([]Store, error)
	UpdateStore(ctx context.Context, actorID int64, actorRole Role, id int64, name, description string) (*Store, error)
	DeleteStore(ctx context.Context, actorID int64, actorRole Role, id int64) error
}
