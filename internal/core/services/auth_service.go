package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fintrk/fin_tracker_app/internal/apperrors"
	portsrepo "github.com/fintrk/fin_tracker_app/internal/core/ports/repositories"
	portssvc "github.com/fintrk/fin_tracker_app/internal/core/ports/services"
	"github.com/fintrk/fin_tracker_app/internal/dto"
	"github.com/fintrk/fin_tracker_app/internal/middleware"
	"github.com/fintrk/fin_tracker_app/internal/utils"
)

// ErrInvalidCredentials is returned for both unknown emails and wrong
// passwords, so login responses do not reveal which one it was.
var ErrInvalidCredentials = apperrors.NewAppError(401, "invalid email or password", apperrors.ErrForbidden)

type authService struct {
	userRepo  portsrepo.UserRepositoryFacade
	jwtSecret string
	jwtExpiry time.Duration
	jwtIssuer string
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo portsrepo.UserRepositoryFacade, jwtSecret string, jwtExpiry time.Duration, jwtIssuer string) portssvc.AuthSvcFacade {
	return &authService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
		jwtIssuer: jwtIssuer,
	}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// Login checks the email/password pair and returns a signed JWT.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.Warn("Login failed: wrong password")
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.UserID, s.jwtSecret, s.jwtExpiry, s.jwtIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &dto.LoginResponse{
		Token: token,
		User:  dto.ToUserResponse(user),
	}, nil
}
