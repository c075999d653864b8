package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/scolaris/school_fees_app/internal/apperrors"
	"github.com/scolaris/school_fees_app/internal/core/domain"
	portssvc "github.com/scolaris/school_fees_app/internal/core/ports/services"
	"github.com/scolaris/school_fees_app/internal/core/services"
	"github.com/scolaris/school_fees_app/internal/dto"
	"github.com/scolaris/school_fees_app/internal/utils"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockRepo *MockUserRepository
	service  portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockRepo)
}

func (suite *UserServiceTestSuite) TestCreateUser_HashesPassword() {
	ctx := context.Background()
	creatorID := uuid.NewString()
	req := dto.CreateUserRequest{
		Name:     "Marie Ngo",
		Email:    "marie@example.com",
		Password: "s3cret-pass",
		Role:     domain.RoleClerk,
	}

	suite.mockRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Email == req.Email &&
			u.Role == domain.RoleClerk &&
			u.IsActive &&
			u.PasswordHash != "" &&
			u.PasswordHash != req.Password &&
			utils.CheckPasswordHash(req.Password, u.PasswordHash)
	})).Return(nil).Once()

	user, err := suite.service.CreateUser(ctx, req, creatorID)

	suite.Require().NoError(err)
	suite.Equal(req.Email, user.Email)
	suite.Equal(creatorID, user.CreatedBy)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_DuplicateEmail() {
	ctx := context.Background()
	req := dto.CreateUserRequest{Name: "X", Email: "dup@example.com", Password: "longenough", Role: domain.RoleAdmin}

	suite.mockRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(apperrors.ErrDuplicate).Once()

	user, err := suite.service.CreateUser(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Nil(user)
}

func (suite *UserServiceTestSuite) TestVerifyCredentials_Success() {
	ctx := context.Background()
	password := "correct-horse"
	hash, err := utils.HashPassword(password)
	suite.Require().NoError(err)

	stored := &domain.User{UserID: uuid.NewString(), Email: "ok@example.com", PasswordHash: hash, IsActive: true}
	suite.mockRepo.On("FindUserByEmail", ctx, stored.Email).Return(stored, nil).Once()

	user, err := suite.service.VerifyCredentials(ctx, stored.Email, password)

	suite.Require().NoError(err)
	suite.Equal(stored.UserID, user.UserID)
}

func (suite *UserServiceTestSuite) TestVerifyCredentials_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("right-password")
	suite.Require().NoError(err)

	stored := &domain.User{UserID: uuid.NewString(), Email: "ok@example.com", PasswordHash: hash, IsActive: true}
	suite.mockRepo.On("FindUserByEmail", ctx, stored.Email).Return(stored, nil).Once()

	user, err := suite.service.VerifyCredentials(ctx, stored.Email, "wrong-password")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.Nil(user)
}

func (suite *UserServiceTestSuite) TestVerifyCredentials_UnknownEmailIndistinguishable() {
	ctx := context.Background()

	suite.mockRepo.On("FindUserByEmail", ctx, "nobody@example.com").Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.VerifyCredentials(ctx, "nobody@example.com", "whatever")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.Nil(user)
}

func (suite *UserServiceTestSuite) TestVerifyCredentials_InactiveAccount() {
	ctx := context.Background()
	hash, err := utils.HashPassword("whatever-pass")
	suite.Require().NoError(err)

	stored := &domain.User{UserID: uuid.NewString(), Email: "gone@example.com", PasswordHash: hash, IsActive: false}
	suite.mockRepo.On("FindUserByEmail", ctx, stored.Email).Return(stored, nil).Once()

	_, err = suite.service.VerifyCredentials(ctx, stored.Email, "whatever-pass")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestFindOrCreateOAuthUser_ProvisionsClerk() {
	ctx := context.Background()

	suite.mockRepo.On("FindUserByEmail", ctx, "new@example.com").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Email == "new@example.com" &&
			u.Role == domain.RoleClerk &&
			u.AuthProvider == "google" &&
			u.ProviderID == "sub-123" &&
			u.IsActive
	})).Return(nil).Once()

	user, err := suite.service.FindOrCreateOAuthUser(ctx, "google", "sub-123", "new@example.com", "New Person")

	suite.Require().NoError(err)
	suite.Equal(domain.RoleClerk, user.Role)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestFindOrCreateOAuthUser_LinksExistingAccount() {
	ctx := context.Background()
	existing := &domain.User{UserID: uuid.NewString(), Email: "old@example.com", Role: domain.RoleAdmin, IsActive: true}

	suite.mockRepo.On("FindUserByEmail", ctx, existing.Email).Return(existing, nil).Once()
	suite.mockRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.UserID == existing.UserID && u.AuthProvider == "google" && u.ProviderID == "sub-9"
	})).Return(nil).Once()

	user, err := suite.service.FindOrCreateOAuthUser(ctx, "google", "sub-9", existing.Email, "Old Person")

	suite.Require().NoError(err)
	suite.Equal(domain.RoleAdmin, user.Role)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
