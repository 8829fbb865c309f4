package services

import (
	"testing"
	"time"

	"github.com/yktwalker/event-registration-api/internal/database"
	"github.com/yktwalker/event-registration-api/internal/models"

	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type ParticipantServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *ParticipantService
}

func (suite *ParticipantServiceTestSuite) SetupTest() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)

	// One connection keeps every statement on the same in-memory database.
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	database.AutoMigrate(suite.db)
	suite.service = NewParticipantService(suite.db)
}

func (suite *ParticipantServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *ParticipantServiceTestSuite) TestCreate() {
	participant, err := suite.service.Create(ParticipantCreate{
		FullName: "Alice Smith",
		Email:    "alice@example.com",
		Phone:    "+100000001",
	})
	suite.Require().NoError(err)
	suite.NotZero(participant.ID)
	suite.Equal("Alice Smith", participant.FullName)
}

func (suite *ParticipantServiceTestSuite) TestCreate_DuplicateNameAndNote() {
	_, err := suite.service.Create(ParticipantCreate{FullName: "Alice Smith"})
	suite.Require().NoError(err)

	_, err = suite.service.Create(ParticipantCreate{FullName: "Alice Smith"})
	suite.ErrorIs(err, ErrConflict)

	// A distinct note disambiguates namesakes.
	_, err = suite.service.Create(ParticipantCreate{FullName: "Alice Smith", Note: "marketing"})
	suite.NoError(err)
}

func (suite *ParticipantServiceTestSuite) TestCreate_ConcurrentDuplicateIsConflict() {
	// A competing insert of the same (full_name, note) lands between the
	// dup check and the write; the unique index reports it as a conflict.
	injected := false
	suite.Require().NoError(suite.db.Callback().Create().Before("gorm:create").
		Register("competing_participant", func(tx *gorm.DB) {
			if injected {
				return
			}
			if _, ok := tx.Statement.Dest.(*models.Participant); !ok {
				return
			}
			injected = true
			suite.Require().NoError(tx.Session(&gorm.Session{NewDB: true}).Exec(
				"INSERT INTO participants (full_name, email, phone, note, created_at) VALUES (?, '', '', '', ?)",
				"Alice Smith", time.Now().UTC(),
			).Error)
		}))
	defer suite.db.Callback().Create().Remove("competing_participant")

	_, err := suite.service.Create(ParticipantCreate{FullName: "Alice Smith"})
	suite.ErrorIs(err, ErrConflict)
}

func (suite *ParticipantServiceTestSuite) TestBulkCreate_SkipsDuplicates() {
	_, err := suite.service.Create(ParticipantCreate{FullName: "Existing"})
	suite.Require().NoError(err)

	result, err := suite.service.BulkCreate([]ParticipantCreate{
		{FullName: "Alice"},
		{FullName: "Existing"},
		{FullName: "Bob"},
		{FullName: "Alice"}, // intra-batch duplicate
	})
	suite.Require().NoError(err)
	suite.Len(result.Created, 2)
	suite.Len(result.Skipped, 2)

	var count int64
	suite.db.Model(&models.Participant{}).Count(&count)
	suite.EqualValues(3, count)
}

func (suite *ParticipantServiceTestSuite) TestSearch() {
	for _, req := range []ParticipantCreate{
		{FullName: "Alice Smith", Email: "alice@corp.com"},
		{FullName: "Bob Jones", Note: "smith street"},
		{FullName: "Carol White"},
	} {
		_, err := suite.service.Create(req)
		suite.Require().NoError(err)
	}

	found, err := suite.service.Search("smith", 50)
	suite.Require().NoError(err)
	suite.Len(found, 2)

	found, err = suite.service.Search("alice@corp", 50)
	suite.Require().NoError(err)
	suite.Len(found, 1)
}

func (suite *ParticipantServiceTestSuite) TestGet_IncludesDirectories() {
	participant, err := suite.service.Create(ParticipantCreate{FullName: "Alice"})
	suite.Require().NoError(err)

	directory := models.Directory{Name: "Delegation"}
	suite.Require().NoError(suite.db.Create(&directory).Error)
	membership := models.DirectoryMembership{DirectoryID: directory.ID, ParticipantID: participant.ID}
	suite.Require().NoError(suite.db.Create(&membership).Error)

	fetched, err := suite.service.Get(participant.ID)
	suite.Require().NoError(err)
	suite.Require().Len(fetched.Directories, 1)
	suite.Equal("Delegation", fetched.Directories[0].Name)
}

func (suite *ParticipantServiceTestSuite) TestUpdate_DuplicateGuard() {
	_, err := suite.service.Create(ParticipantCreate{FullName: "Alice"})
	suite.Require().NoError(err)
	bob, err := suite.service.Create(ParticipantCreate{FullName: "Bob"})
	suite.Require().NoError(err)

	name := "Alice"
	_, err = suite.service.Update(bob.ID, ParticipantUpdate{FullName: &name})
	suite.ErrorIs(err, ErrConflict)

	email := "bob@example.com"
	updated, err := suite.service.Update(bob.ID, ParticipantUpdate{Email: &email})
	suite.Require().NoError(err)
	suite.Equal("bob@example.com", updated.Email)
}

func (suite *ParticipantServiceTestSuite) TestDelete_CascadesMemberships() {
	participant, err := suite.service.Create(ParticipantCreate{FullName: "Alice"})
	suite.Require().NoError(err)

	directory := models.Directory{Name: "Delegation"}
	suite.Require().NoError(suite.db.Create(&directory).Error)
	membership := models.DirectoryMembership{DirectoryID: directory.ID, ParticipantID: participant.ID}
	suite.Require().NoError(suite.db.Create(&membership).Error)

	event := models.Event{Title: "Conference", RegistrationActive: true}
	suite.Require().NoError(suite.db.Create(&event).Error)
	actor := models.SystemUser{Username: "op", Role: models.RoleOperator, PasswordHash: "x"}
	suite.Require().NoError(suite.db.Create(&actor).Error)
	registration := models.Registration{
		EventID: event.ID, ParticipantID: participant.ID, RegisteredByID: actor.ID,
	}
	suite.Require().NoError(suite.db.Create(&registration).Error)

	suite.Require().NoError(suite.service.Delete(participant.ID))

	var count int64
	suite.db.Model(&models.DirectoryMembership{}).Where("participant_id = ?", participant.ID).Count(&count)
	suite.Zero(count)
	suite.db.Model(&models.Registration{}).Where("participant_id = ?", participant.ID).Count(&count)
	suite.Zero(count)

	_, err = suite.service.Get(participant.ID)
	suite.ErrorIs(err, ErrNotFound)
}

func (suite *ParticipantServiceTestSuite) TestDelete_Missing() {
	suite.ErrorIs(suite.service.Delete(404), ErrNotFound)
}

func TestParticipantServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ParticipantServiceTestSuite))
}
