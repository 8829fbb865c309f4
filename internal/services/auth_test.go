package services

import (
	"testing"
	"time"

	"github.com/yktwalker/event-registration-api/internal/database"
	"github.com/yktwalker/event-registration-api/internal/models"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type AuthServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *AuthService
	user    *models.SystemUser
}

func (suite *AuthServiceTestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)

	database.AutoMigrate(suite.db)
	suite.service = NewAuthService(suite.db, "test-secret", time.Hour)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	suite.Require().NoError(err)
	suite.user = &models.SystemUser{
		Username:     "operator",
		Role:         models.RoleOperator,
		PasswordHash: string(hash),
		FullName:     "Test Operator",
	}
	suite.Require().NoError(suite.db.Create(suite.user).Error)
}

func (suite *AuthServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *AuthServiceTestSuite) TestLogin() {
	token, err := suite.service.Login("operator", "correct-password")
	suite.Require().NoError(err)
	suite.NotEmpty(token)

	userID, err := suite.service.ValidateToken(token)
	suite.Require().NoError(err)
	suite.Equal(suite.user.ID, userID)
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	_, err := suite.service.Login("operator", "wrong")
	suite.ErrorIs(err, ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownUser() {
	_, err := suite.service.Login("ghost", "anything")
	suite.ErrorIs(err, ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestValidateToken_WrongSecret() {
	other := NewAuthService(suite.db, "other-secret", time.Hour)
	token, err := other.GenerateToken(suite.user.ID)
	suite.Require().NoError(err)

	_, err = suite.service.ValidateToken(token)
	suite.Error(err)
}

func (suite *AuthServiceTestSuite) TestValidateToken_Expired() {
	expired := NewAuthService(suite.db, "test-secret", -time.Minute)
	token, err := expired.GenerateToken(suite.user.ID)
	suite.Require().NoError(err)

	_, err = suite.service.ValidateToken(token)
	suite.Error(err)
}

func (suite *AuthServiceTestSuite) TestValidateToken_Garbage() {
	_, err := suite.service.ValidateToken("not-a-token")
	suite.Error(err)
}

func (suite *AuthServiceTestSuite) TestGetUser() {
	user, err := suite.service.GetUser(suite.user.ID)
	suite.Require().NoError(err)
	suite.Equal("operator", user.Username)

	_, err = suite.service.GetUser(999)
	suite.ErrorIs(err, ErrNotFound)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
