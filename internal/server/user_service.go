package server

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/googleauth"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/rs/zerolog/log"
)

// UserStore is the persistence the user service needs. *db.DB implements it.
type UserStore interface {
	CreateUser(ctx context.Context, name, email, passwordHash, picture string) (uuid.UUID, error)
	CreateGoogleUser(ctx context.Context, name, email, googleID, picture, role string) (uuid.UUID, error)
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	LinkGoogleAccount(ctx context.Context, id uuid.UUID, googleID, picture string) error
	SetUserRole(ctx context.Context, id uuid.UUID, role string) error
}

// UserService provides business logic for user authentication operations
type UserService struct {
	db             UserStore
	passwordConfig *config.PasswordConfig
	google         googleauth.Verifier
	googleConfig   *config.GoogleConfig
}

// NewUserService creates a UserService. google may be nil, which disables
// Google sign-in.
func NewUserService(store UserStore, passwordConfig *config.PasswordConfig, google googleauth.Verifier, googleConfig *config.GoogleConfig) *UserService {
	if googleConfig == nil {
		googleConfig = &config.GoogleConfig{}
	}
	return &UserService{
		db:             store,
		passwordConfig: passwordConfig,
		google:         google,
		googleConfig:   googleConfig,
	}
}

// normalizeEmail lowercases and trims an address. Emails are stored normalized.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// convertDBUserToTypesUser converts db.User to types.User, excluding password hash
func convertDBUserToTypesUser(dbUser *db.User) *types.User {
	if dbUser == nil {
		return nil
	}
	return &types.User{
		ID:          dbUser.ID,
		Name:        dbUser.Name,
		Email:       dbUser.Email,
		Picture:     dbUser.Picture,
		Role:        dbUser.Role,
		PasswordSet: dbUser.PasswordSet,
		CreatedAt:   dbUser.CreatedAt,
		UpdatedAt:   dbUser.UpdatedAt,
	}
}

// Register creates a new user with password authentication
func (s *UserService) Register(ctx context.Context, req *types.CreateUserRequest) (*types.User, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, &ErrValidation{Field: "name", Message: "name is required"}
	}
	if err := s.passwordConfig.ValidatePassword(req.Password); err != nil {
		return nil, &ErrValidation{Field: "password", Message: err.Error()}
	}

	exists, err := s.db.CheckEmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, &ErrEmailAlreadyExists{Email: email}
	}

	passwordHash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := s.db.CreateUser(ctx, name, email, passwordHash, strings.TrimSpace(req.Picture))
	if err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, db.ErrEmailTaken) {
			return nil, &ErrEmailAlreadyExists{Email: email}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Ctx(ctx).Info().Str("user_id", userID.String()).Msg("user registered")
	return s.Profile(ctx, userID)
}

// Login authenticates a user and returns user data. Unknown emails, accounts
// without a password and wrong passwords all yield ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, req *types.LoginRequest) (*types.User, error) {
	dbUser, err := s.db.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	if dbUser == nil || !dbUser.PasswordSet {
		return nil, &ErrInvalidCredentials{}
	}
	if !s.passwordConfig.VerifyPassword(req.Password, dbUser.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	if s.passwordConfig.NeedsRehash(dbUser.PasswordHash) {
		s.rehash(ctx, dbUser.ID, req.Password)
	}

	return convertDBUserToTypesUser(dbUser), nil
}

// rehash upgrades a stored hash to the configured cost. Failures only cost a
// future rehash, so they are logged.
func (s *UserService) rehash(ctx context.Context, userID uuid.UUID, password string) {
	hash, err := s.passwordConfig.HashPassword(password)
	if err == nil {
		err = s.db.UpdatePassword(ctx, userID, hash)
	}
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("user_id", userID.String()).Msg("password rehash failed")
	}
}

// GoogleLogin signs in with a Google ID token. An existing account with the
// same email is linked to the Google identity; otherwise a passwordless
// account is created. Emails listed in ADMIN_EMAILS are promoted to admin.
func (s *UserService) GoogleLogin(ctx context.Context, credential string) (*types.User, error) {
	if s.google == nil {
		return nil, &ErrGoogleDisabled{}
	}

	identity, err := s.google.Verify(ctx, credential)
	if err != nil {
		return nil, &ErrGoogleAuth{Cause: err}
	}
	if !identity.EmailVerified {
		return nil, &ErrGoogleAuth{Cause: fmt.Errorf("email %s is not verified", identity.Email)}
	}

	email := normalizeEmail(identity.Email)
	isAdmin := s.googleConfig.IsAdminEmail(email)

	dbUser, err := s.db.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	if dbUser == nil {
		role := types.RoleUser
		if isAdmin {
			role = types.RoleAdmin
		}
		userID, err := s.db.CreateGoogleUser(ctx, identity.Name, email, identity.Subject, identity.Picture, role)
		if err != nil {
			return nil, fmt.Errorf("failed to create google user: %w", err)
		}
		log.Ctx(ctx).Info().Str("user_id", userID.String()).Str("role", role).Msg("google user created")
		return s.Profile(ctx, userID)
	}

	if !dbUser.HasGoogleAccount() {
		if err := s.db.LinkGoogleAccount(ctx, dbUser.ID, identity.Subject, identity.Picture); err != nil {
			return nil, fmt.Errorf("failed to link google account: %w", err)
		}
	}
	if isAdmin && dbUser.Role != types.RoleAdmin {
		if err := s.db.SetUserRole(ctx, dbUser.ID, types.RoleAdmin); err != nil {
			return nil, fmt.Errorf("failed to promote admin: %w", err)
		}
	}
	return s.Profile(ctx, dbUser.ID)
}

// Profile returns the user without credentials.
func (s *UserService) Profile(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	dbUser, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if dbUser == nil {
		return nil, &ErrUserNotFound{UserID: userID}
	}
	return convertDBUserToTypesUser(dbUser), nil
}

// PromoteAdmin grants the admin role to the user with email, creating the
// account when it does not exist. A new account gets the given password, or
// none when password is empty; such an account can only sign in with Google.
// The bool result reports whether an account was created.
func (s *UserService) PromoteAdmin(ctx context.Context, email, name, password string) (*types.User, bool, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, false, &ErrValidation{Field: "email", Message: "email is required"}
	}

	dbUser, err := s.db.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get user by email: %w", err)
	}

	created := false
	userID := uuid.Nil
	if dbUser != nil {
		userID = dbUser.ID
	} else {
		hash := ""
		if password != "" {
			if err := s.passwordConfig.ValidatePassword(password); err != nil {
				return nil, false, &ErrValidation{Field: "password", Message: err.Error()}
			}
			if hash, err = s.passwordConfig.HashPassword(password); err != nil {
				return nil, false, err
			}
		}
		if strings.TrimSpace(name) == "" {
			name = "Admin User"
		}
		if userID, err = s.db.CreateUser(ctx, strings.TrimSpace(name), email, hash, ""); err != nil {
			return nil, false, fmt.Errorf("failed to create admin user: %w", err)
		}
		created = true
	}

	if err := s.db.SetUserRole(ctx, userID, types.RoleAdmin); err != nil {
		return nil, false, fmt.Errorf("failed to promote admin: %w", err)
	}
	user, err := s.Profile(ctx, userID)
	return user, created, err
}
