package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hosteldesk/hosteldesk-backend/internal/authz"
	"github.com/hosteldesk/hosteldesk-backend/internal/hostels"
	"github.com/hosteldesk/hosteldesk-backend/internal/notifications"
	"github.com/hosteldesk/hosteldesk-backend/internal/users"
	pkgauth "github.com/hosteldesk/hosteldesk-backend/pkg/auth"
	"github.com/hosteldesk/hosteldesk-backend/pkg/config"
	"github.com/hosteldesk/hosteldesk-backend/pkg/db"
	"github.com/hosteldesk/hosteldesk-backend/pkg/db/models"
	"github.com/hosteldesk/hosteldesk-backend/pkg/enums"
	pkgerrors "github.com/hosteldesk/hosteldesk-backend/pkg/errors"
	"github.com/hosteldesk/hosteldesk-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines registration and login.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	DB           *db.Client
	Notifier     notifications.Notifier
	JWTConfig    config.JWTConfig
	PasswordCfg  config.PasswordConfig
	Registration config.RegistrationConfig
}

type service struct {
	db           *db.Client
	notifier     notifications.Notifier
	jwtCfg       config.JWTConfig
	passwordCfg  config.PasswordConfig
	registration config.RegistrationConfig
}

// NewService constructs the auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "database client required")
	}
	if params.Notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifier required")
	}
	return &service{
		db:           params.DB,
		notifier:     params.Notifier,
		jwtCfg:       params.JWTConfig,
		passwordCfg:  params.PasswordCfg,
		registration: params.Registration,
	}, nil
}

// Register resolves the requested role under the registration policy and
// creates the account inside one transaction, so the admin-per-hostel cap
// is checked and applied atomically.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.Name)
	if email == "" || name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and email are required")
	}
	if len(req.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}
	requestedRole, err := enums.ParseRole(strings.TrimSpace(req.Role))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid requested role")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	rules := authz.RegistrationRules{
		AllowedEmailDomain: s.registration.AllowedEmailDomain,
		AdminCode:          s.registration.AdminCode,
		ChiefAdminCode:     s.registration.ChiefAdminCode,
		MaxAdminsPerHostel: s.registration.MaxAdminsPerHostel,
	}

	var created *models.User
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		if req.HostelID != nil {
			if _, err := hostels.NewRepository(tx).FindByID(ctx, *req.HostelID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "hostel not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find hostel")
			}
		}

		adminCount := 0
		if requestedRole == enums.RoleAdmin && req.HostelID != nil {
			count, err := userRepo.CountAdminsByHostel(ctx, *req.HostelID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count hostel admins")
			}
			adminCount = int(count)
		}

		resolution, err := authz.ResolveRegistration(authz.RegistrationInput{
			Email:         email,
			RequestedRole: requestedRole,
			HostelID:      req.HostelID,
			SecretCode:    req.SecretCode,
		}, rules, adminCount)
		if err != nil {
			return err
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: passwordHash,
			Name:         name,
			Role:         resolution.Role,
			HostelID:     resolution.HostelID,
			StaffRequest: resolution.StaffRequest,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}
		created = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.AccountCreated(ctx, created)
	return s.respond(created)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	userRepo := users.NewRepository(s.db.DB())
	user, err := userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find user")
	}

	ok, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	return s.respond(user)
}

func (s *service) respond(user *models.User) (*AuthResponse, error) {
	token, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID:   user.ID,
		Role:     user.Role,
		HostelID: user.HostelID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	return &AuthResponse{AccessToken: token, User: users.FromModel(user)}, nil
}
