package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/fintrk/fin_tracker_app/internal/apperrors"
	"github.com/fintrk/fin_tracker_app/internal/core/domain"
	portssvc "github.com/fintrk/fin_tracker_app/internal/core/ports/services"
	"github.com/fintrk/fin_tracker_app/internal/core/services"
	"github.com/fintrk/fin_tracker_app/internal/dto"
	"github.com/fintrk/fin_tracker_app/internal/utils"
)

const testJWTSecret = "test-secret"

type AuthServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	svc          portssvc.AuthSvcFacade

	user     *domain.User
	password string
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.svc = services.NewAuthService(suite.mockUserRepo, testJWTSecret, time.Hour, "fin-tracker-test")

	suite.password = "correct horse battery"
	hash, err := utils.HashPassword(suite.password)
	suite.Require().NoError(err)
	suite.user = &domain.User{
		UserID:       uuid.NewString(),
		Email:        "ada@example.com",
		PasswordHash: hash,
	}
}

func (suite *AuthServiceTestSuite) TestLoginReturnsSignedToken() {
	suite.mockUserRepo.On("FindUserByEmail", mock.Anything, "ada@example.com").
		Return(suite.user, nil).Once()

	resp, err := suite.svc.Login(context.Background(), dto.LoginRequest{
		Email:    " Ada@Example.com ",
		Password: suite.password,
	})

	suite.NoError(err)
	suite.Equal(suite.user.UserID, resp.User.UserID)

	token, err := jwt.Parse(resp.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	suite.NoError(err)
	suite.True(token.Valid)
	sub, err := token.Claims.GetSubject()
	suite.NoError(err)
	suite.Equal(suite.user.UserID, sub)
}

func (suite *AuthServiceTestSuite) TestLoginRejectsWrongPassword() {
	suite.mockUserRepo.On("FindUserByEmail", mock.Anything, "ada@example.com").
		Return(suite.user, nil).Once()

	_, err := suite.svc.Login(context.Background(), dto.LoginRequest{
		Email:    "ada@example.com",
		Password: "not the password",
	})

	suite.ErrorIs(err, services.ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestLoginHidesUnknownEmailBehindSameError() {
	suite.mockUserRepo.On("FindUserByEmail", mock.Anything, "nobody@example.com").
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.svc.Login(context.Background(), dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})

	suite.ErrorIs(err, services.ErrInvalidCredentials)
}

func TestAuthService(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
