package domain

import (
	"context"
	"time"
)

type Role string

const (
	RoleUser   Role = "USER"
	RoleSeller Role = "SELLER"
	RoleAdmin  Role = "ADMIN"
)

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Verified     bool      `json:"verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CartItem is a pending purchase intent. Price is a snapshot taken when the
// item was added; checkout re-validates it against the live catalog price.
type CartItem struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *User) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUser(ctx context.Context, user *User) (*User, error)
	SetRole(ctx context.Context, id int64, role Role) error
	SetVerified(ctx context.Context, id int64) error

	// The cart is a serialized value owned by the user row: read once,
	// overwritten once, last write wins.
	GetCart(ctx context.Context, userID int64) ([]CartItem, error)
	SaveCart(ctx context.Context, userID int64, items []CartItem) error
}

type UserUseCase interface {
	RegisterUser(ctx context.Context, name, email, password string) (*User, error)
	GetProfile(ctx context.Context, id int64) (*User, error)
	UpdateProfile(ctx context.Context, id int64, name string) (*User, error)
}
