package main

import (
	"log"
	"time"

	"github.com/yktwalker/event-registration-api/internal/config"
	"github.com/yktwalker/event-registration-api/internal/database"
	"github.com/yktwalker/event-registration-api/internal/handlers"
	"github.com/yktwalker/event-registration-api/internal/middleware"
	"github.com/yktwalker/event-registration-api/internal/services"
	"github.com/yktwalker/event-registration-api/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// @title           Event Registration API
// @version         1.0
// @description     Event registration backend with RBAC and hybrid sync (WebSocket + REST)
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	db := database.Connect(cfg)
	database.AutoMigrate(db)
	database.SeedAdmin(db, cfg)

	hub := ws.NewHub()

	authService := services.NewAuthService(db, cfg.JWTSecret, time.Duration(cfg.TokenTTLMin)*time.Minute)
	userService := services.NewSystemUserService(db)
	eventService := services.NewEventService(db)
	participantService := services.NewParticipantService(db)
	directoryService := services.NewDirectoryService(db)
	registrationService := services.NewRegistrationService(db)

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewSystemUserHandler(userService)
	eventHandler := handlers.NewEventHandler(eventService)
	participantHandler := handlers.NewParticipantHandler(participantService)
	directoryHandler := handlers.NewDirectoryHandler(directoryService)
	registrationHandler := handlers.NewRegistrationHandler(registrationService, hub)
	wsHandler := handlers.NewWSHandler(hub)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/ws/events/:id", wsHandler.HandleWebSocket)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
		}

		users := api.Group("/system-users")
		users.Use(middleware.JWTAuth(authService), middleware.Require(middleware.OpUserManage))
		{
			users.POST("", userHandler.CreateUser)
			users.GET("", userHandler.ListUsers)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
		}

		events := api.Group("/events")
		events.Use(middleware.JWTAuth(authService))
		{
			events.GET("", middleware.Require(middleware.OpEventView), eventHandler.ListEvents)
			events.GET("/active", middleware.Require(middleware.OpRegistrationView), eventHandler.GetActiveEvent)
			events.GET("/active/stats", middleware.Require(middleware.OpRegistrationView), eventHandler.GetActiveEventStats)
			events.POST("", middleware.Require(middleware.OpEventManage), eventHandler.CreateEvent)
			events.GET("/:id", middleware.Require(middleware.OpEventView), eventHandler.GetEvent)
			events.PUT("/:id", middleware.Require(middleware.OpEventManage), eventHandler.UpdateEvent)
			events.DELETE("/:id", middleware.Require(middleware.OpEventManage), eventHandler.DeleteEvent)
			events.GET("/:id/stats/file", middleware.Require(middleware.OpEventManage), eventHandler.DownloadStatsFile)

			events.POST("/:id/register", middleware.Require(middleware.OpRegistrationManage), registrationHandler.Register)
			events.POST("/:id/sync", middleware.Require(middleware.OpRegistrationView), registrationHandler.Sync)
			events.GET("/:id/participants", middleware.Require(middleware.OpRegistrationView), registrationHandler.ListEventParticipants)
			events.GET("/:id/registrations/search", middleware.Require(middleware.OpRegistrationView), registrationHandler.SearchRegistrations)
			events.DELETE("/:id/participants/:participant_id", middleware.Require(middleware.OpRegistrationManage), registrationHandler.Unregister)
			events.PUT("/:id/participants/:participant_id/arrival", middleware.Require(middleware.OpCheckIn), registrationHandler.SetArrival)
			events.DELETE("/:id/participants/:participant_id/arrival", middleware.Require(middleware.OpCheckIn), registrationHandler.ClearArrival)
		}

		participants := api.Group("/participants")
		participants.Use(middleware.JWTAuth(authService))
		{
			participants.POST("", middleware.Require(middleware.OpParticipantManage), participantHandler.CreateParticipant)
			participants.POST("/bulk", middleware.Require(middleware.OpParticipantManage), participantHandler.BulkCreateParticipants)
			participants.GET("", middleware.Require(middleware.OpParticipantView), participantHandler.ListParticipants)
			participants.GET("/search", middleware.Require(middleware.OpParticipantView), participantHandler.SearchParticipants)
			participants.GET("/:id", middleware.Require(middleware.OpParticipantView), participantHandler.GetParticipant)
			participants.PUT("/:id", middleware.Require(middleware.OpParticipantManage), participantHandler.UpdateParticipant)
			participants.DELETE("/:id", middleware.Require(middleware.OpParticipantManage), participantHandler.DeleteParticipant)
		}

		directories := api.Group("/directories")
		directories.Use(middleware.JWTAuth(authService))
		{
			directories.POST("", middleware.Require(middleware.OpDirectoryManage), directoryHandler.CreateDirectory)
			directories.GET("", middleware.Require(middleware.OpDirectoryView), directoryHandler.ListDirectories)
			directories.POST("/add-member", middleware.Require(middleware.OpDirectoryManage), directoryHandler.AddMember)
			directories.PUT("/:id", middleware.Require(middleware.OpDirectoryManage), directoryHandler.UpdateDirectory)
			directories.DELETE("/:id", middleware.Require(middleware.OpDirectoryManage), directoryHandler.DeleteDirectory)
			directories.GET("/:id/members", middleware.Require(middleware.OpDirectoryView), directoryHandler.ListMembers)
			directories.DELETE("/:id/members/:participant_id", middleware.Require(middleware.OpDirectoryManage), directoryHandler.RemoveMember)
		}
	}

	log.Printf("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
