package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"

	"github.com/Sezy0/NeoMart-Backend/internal/cache"
	"github.com/Sezy0/NeoMart-Backend/internal/domain"
	"github.com/Sezy0/NeoMart-Backend/internal/mailer"
	"github.com/Sezy0/NeoMart-Backend/pkg/auth"
)

// ErrInvalidCredentials is returned on a failed login or refresh; the
// delivery layer maps it to 401 rather than the 403 of ErrAccessDenied.
var ErrInvalidCredentials = errors.New("invalid credentials")

const (
	otpTTL            = 10 * time.Minute
	googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthUseCase interface {
	Login(ctx context.Context, email, password string) (*TokenPair, *domain.User, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	RequestOTP(ctx context.Context, userID int64) error
	VerifyOTP(ctx context.Context, userID int64, code string) error
	GoogleAuthURL(state string) string
	GoogleCallback(ctx context.Context, code string) (*TokenPair, *domain.User, error)
}

type authUseCase struct {
	userRepo   domain.UserRepository
	jwt        *auth.JWTManager
	sessions   cache.Cache
	mailer     mailer.Mailer
	oauth      *oauth2.Config
	refreshTTL time.Duration
	log        *logrus.Logger
}

func NewAuthUseCase(
	userRepo domain.UserRepository,
	jwtManager *auth.JWTManager,
	sessions cache.Cache,
	m mailer.Mailer,
	oauth *oauth2.Config,
	refreshTTL time.Duration,
	logger *logrus.Logger,
) AuthUseCase {
	return &authUseCase{
		userRepo:   userRepo,
		jwt:        jwtManager,
		sessions:   sessions,
		mailer:     m,
		oauth:      oauth,
		refreshTTL: refreshTTL,
		log:        logger,
	}
}

func (uc *authUseCase) issuePair(ctx context.Context, user *domain.User) (*TokenPair, error) {
	access, err := uc.jwt.Generate(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	refresh := uuid.NewString()
	key := uc.sessions.GenerateKey("session", refresh)
	if err := uc.sessions.Set(ctx, key, strconv.FormatInt(user.ID, 10), uc.refreshTTL); err != nil {
		return nil, fmt.Errorf("failed to store refresh session: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (uc *authUseCase) Login(ctx context.Context, email, password string) (*TokenPair, *domain.User, error) {
	user, err := uc.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.log.Warnf("Use Case: Login failed - user not found: %s", email)
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			uc.log.Warnf("Use Case: Login failed - incorrect password for %s", email)
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("internal error during authentication: %w", err)
	}

	pair, err := uc.issuePair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	uc.log.Infof("Use Case: Login successful for user %d", user.ID)
	return pair, user, nil
}

func (uc *authUseCase) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	key := uc.sessions.GenerateKey("session", refreshToken)
	val, err := uc.sessions.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to look up refresh session: %w", err)
	}
	if val == "" {
		return nil, ErrInvalidCredentials
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := uc.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// Rotate: the old refresh token is revoked as the new pair is issued.
	if err := uc.sessions.Del(ctx, key); err != nil {
		uc.log.Warnf("Use Case: Failed to revoke refresh session for user %d: %v", userID, err)
	}
	return uc.issuePair(ctx, user)
}

func (uc *authUseCase) Logout(ctx context.Context, refreshToken string) error {
	return uc.sessions.Del(ctx, uc.sessions.GenerateKey("session", refreshToken))
}

func (uc *authUseCase) RequestOTP(ctx context.Context, userID int64) error {
	user, err := uc.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Verified {
		return fmt.Errorf("account already verified: %w", domain.ErrInvalidState)
	}

	code := fmt.Sprintf("%06d", rand.Intn(1000000))
	key := uc.sessions.GenerateKey("otp", strconv.FormatInt(userID, 10))
	// TTL doubles as cleanup: expired codes vanish without a sweeper.
	if err := uc.sessions.Set(ctx, key, code, otpTTL); err != nil {
		return fmt.Errorf("failed to store OTP: %w", err)
	}

	if err := uc.mailer.SendOTP(user.Email, code); err != nil {
		return err
	}
	uc.log.Infof("Use Case: OTP issued for user %d", userID)
	return nil
}

func (uc *authUseCase) VerifyOTP(ctx context.Context, userID int64, code string) error {
	key := uc.sessions.GenerateKey("otp", strconv.FormatInt(userID, 10))
	stored, err := uc.sessions.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to look up OTP: %w", err)
	}
	if stored == "" || stored != code {
		uc.log.Warnf("Use Case: OTP verification failed for user %d", userID)
		return fmt.Errorf("invalid or expired verification code: %w", domain.ErrInvalidState)
	}

	if err := uc.userRepo.SetVerified(ctx, userID); err != nil {
		return err
	}
	if err := uc.sessions.Del(ctx, key); err != nil {
		uc.log.Warnf("Use Case: Failed to clear consumed OTP for user %d: %v", userID, err)
	}
	uc.log.Infof("Use Case: User %d verified via OTP", userID)
	return nil
}

func (uc *authUseCase) GoogleAuthURL(state string) string {
	return uc.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

type googleUserinfo struct {
	Email         string `json:"email"`
	Name          string `json:"name"`
	VerifiedEmail bool   `json:"verified_email"`
}

// GoogleCallback exchanges the OAuth2 code, fetches the Google profile and
// upserts a local account for it.
func (uc *authUseCase) GoogleCallback(ctx context.Context, code string) (*TokenPair, *domain.User, error) {
	token, err := uc.oauth.Exchange(ctx, code)
	if err != nil {
		uc.log.Warnf("Use Case: OAuth code exchange failed: %v", err)
		return nil, nil, fmt.Errorf("oauth exchange failed: %w", ErrInvalidCredentials)
	}

	resp, err := uc.oauth.Client(ctx, token).Get(googleUserinfoURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch google userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("google userinfo returned status %d", resp.StatusCode)
	}

	var info googleUserinfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, nil, fmt.Errorf("failed to decode google userinfo: %w", err)
	}
	if info.Email == "" {
		return nil, nil, fmt.Errorf("google userinfo missing email")
	}

	user, err := uc.userRepo.GetUserByEmail(ctx, info.Email)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, nil, err
		}
		// First sign-in: create a local account. The password is a random
		// placeholder; these accounts authenticate via OAuth only.
		placeholder, hashErr := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, nil, fmt.Errorf("internal error creating oauth account: %w", hashErr)
		}
		user, err = uc.userRepo.CreateUser(ctx, &domain.User{
			Name:         info.Name,
			Email:        info.Email,
			PasswordHash: string(placeholder),
			Role:         domain.RoleUser,
			Verified:     info.VerifiedEmail,
		})
		if err != nil {
			return nil, nil, err
		}
		uc.log.Infof("Use Case: Created account %d from Google sign-in", user.ID)
	}

	pair, err := uc.issuePair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}
