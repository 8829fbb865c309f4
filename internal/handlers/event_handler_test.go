package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yktwalker/event-registration-api/internal/database"
	"github.com/yktwalker/event-registration-api/internal/middleware"
	"github.com/yktwalker/event-registration-api/internal/models"
	"github.com/yktwalker/event-registration-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type EventHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	actor  *models.SystemUser
}

func (suite *EventHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	database.AutoMigrate(suite.db)

	suite.actor = &models.SystemUser{
		Username:     "operator",
		Role:         models.RoleOperator,
		PasswordHash: "hashed",
	}
	suite.Require().NoError(suite.db.Create(suite.actor).Error)

	handler := NewEventHandler(services.NewEventService(suite.db))

	suite.router = gin.New()
	events := suite.router.Group("/api/v1/events")
	events.Use(func(c *gin.Context) {
		middleware.SetCurrentUser(c, suite.actor)
	})
	{
		events.GET("", handler.ListEvents)
		events.GET("/active", handler.GetActiveEvent)
		events.GET("/active/stats", handler.GetActiveEventStats)
		events.POST("", handler.CreateEvent)
		events.GET("/:id", handler.GetEvent)
		events.PUT("/:id", handler.UpdateEvent)
		events.DELETE("/:id", handler.DeleteEvent)
		events.GET("/:id/stats/file", handler.DownloadStatsFile)
	}
}

func (suite *EventHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *EventHandlerTestSuite) perform(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *EventHandlerTestSuite) TestCreateAndGet() {
	w := suite.perform(http.MethodPost, "/api/v1/events", services.EventCreate{
		Title:              "Conference",
		EventDate:          time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		RegistrationActive: true,
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	var event models.Event
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &event))
	suite.NotZero(event.ID)

	w = suite.perform(http.MethodGet, "/api/v1/events/1", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.perform(http.MethodGet, "/api/v1/events/active", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var active models.Event
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &active))
	suite.Equal(event.ID, active.ID)
}

func (suite *EventHandlerTestSuite) TestCreate_SecondActiveConflicts() {
	w := suite.perform(http.MethodPost, "/api/v1/events", services.EventCreate{
		Title: "First", EventDate: time.Now().UTC(), RegistrationActive: true,
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.perform(http.MethodPost, "/api/v1/events", services.EventCreate{
		Title: "Second", EventDate: time.Now().UTC(), RegistrationActive: true,
	})
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *EventHandlerTestSuite) TestCreate_MissingTitle() {
	w := suite.perform(http.MethodPost, "/api/v1/events", map[string]interface{}{
		"event_date": time.Now().UTC(),
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *EventHandlerTestSuite) TestActiveEvent_NoneActive() {
	w := suite.perform(http.MethodGet, "/api/v1/events/active", nil)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.perform(http.MethodGet, "/api/v1/events/active/stats", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *EventHandlerTestSuite) TestActiveStats() {
	event := models.Event{Title: "Conference", RegistrationActive: true}
	suite.Require().NoError(suite.db.Create(&event).Error)

	now := time.Now().UTC()
	for i, name := range []string{"Alice", "Bob"} {
		p := models.Participant{FullName: name}
		suite.Require().NoError(suite.db.Create(&p).Error)
		registration := models.Registration{
			EventID: event.ID, ParticipantID: p.ID, RegisteredByID: suite.actor.ID,
		}
		if i == 0 {
			registration.ArrivalTime = &now
		}
		suite.Require().NoError(suite.db.Create(&registration).Error)
	}

	w := suite.perform(http.MethodGet, "/api/v1/events/active/stats", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var stats services.ActiveEventStats
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &stats))
	suite.Equal(event.ID, stats.EventID)
	suite.EqualValues(2, stats.TotalRegistrants)
	suite.EqualValues(1, stats.ArrivedParticipants)
}

func (suite *EventHandlerTestSuite) TestDownloadStatsFile() {
	event := models.Event{Title: "Conference", RegistrationActive: true}
	suite.Require().NoError(suite.db.Create(&event).Error)

	w := suite.perform(http.MethodGet, "/api/v1/events/1/stats/file", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Header().Get("Content-Disposition"), "attachment; filename=stats_1.txt")
	suite.Contains(w.Header().Get("Content-Type"), "text/plain")
	suite.Contains(w.Body.String(), "Статистика по мероприятию: Conference")
}

func (suite *EventHandlerTestSuite) TestUpdateAndDelete() {
	event := models.Event{Title: "Old"}
	suite.Require().NoError(suite.db.Create(&event).Error)

	title := "New"
	w := suite.perform(http.MethodPut, "/api/v1/events/1", services.EventUpdate{Title: &title})
	suite.Require().Equal(http.StatusOK, w.Code)
	var updated models.Event
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &updated))
	suite.Equal("New", updated.Title)

	w = suite.perform(http.MethodDelete, "/api/v1/events/1", nil)
	suite.Equal(http.StatusNoContent, w.Code)

	w = suite.perform(http.MethodGet, "/api/v1/events/1", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func TestEventHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(EventHandlerTestSuite))
}
