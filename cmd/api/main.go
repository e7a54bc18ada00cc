package main

import (
	"timeforge/cmd/internal/domain/sqlite"
	"timeforge/cmd/internal/domain/sqlite/repository"
	"timeforge/cmd/internal/integration/google/calendarclient"
	"timeforge/cmd/internal/integration/mail"
	"timeforge/cmd/internal/integration/stripepay"
	"timeforge/cmd/internal/routes"
	"timeforge/cmd/internal/service"
	"timeforge/cmd/internal/utils/validators"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

func main() {
	validate := validator.New()
	registerValidators(validate)

	err := godotenv.Load()
	if err != nil {
		log.Fatal("failed to load .env file", err)
	}

	// Init SQLite
	db, err := sqlite.Init()
	if err != nil {
		log.Fatal("failed to initialize database", err)
	}

	// Getting repositories
	userRepo := repository.NewUserRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	attendeeRepo := repository.NewAttendeeRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	timelineRepo := repository.NewTimelineRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	calendarEventRepo := repository.NewCalendarEventRepository(db)

	// Integrations
	calendarClient := calendarclient.New(tokenRepo)
	paymentClient := stripepay.New()
	mailer := mail.New()

	// Getting services
	propagator := service.NewPropagationService(
		userRepo, meetingRepo, attendeeRepo, noteRepo,
		timelineRepo, tokenRepo, calendarEventRepo, calendarClient)
	userService := service.NewUserService(userRepo, propagator, validate)
	meetingService := service.NewMeetingService(meetingRepo, userRepo, propagator, validate)
	bookingService := service.NewBookingService(
		meetingRepo, attendeeRepo, calendarEventRepo, propagator, calendarClient, validate)
	noteService := service.NewNoteService(noteRepo, propagator, validate)
	timelineService := service.NewTimelineService(timelineRepo, userRepo, validate)
	calendarService := service.NewCalendarService(
		tokenRepo, userRepo, meetingRepo, attendeeRepo, calendarEventRepo, calendarClient, validate)
	adminService := service.NewAdminService(userRepo, meetingRepo, attendeeRepo, timelineRepo)
	outboundService := service.NewOutboundService(mailer, paymentClient, validate)

	// Getting routes
	userRoutes := routes.NewUserDefault(userService)
	meetingRoutes := routes.NewMeetingDefault(meetingService)
	attendeeRoutes := routes.NewAttendeeDefault(bookingService)
	noteRoutes := routes.NewNoteDefault(noteService)
	timelineRoutes := routes.NewTimelineDefault(timelineService)
	calendarRoutes := routes.NewCalendarDefault(calendarService)
	adminRoutes := routes.NewAdminDefault(adminService)
	outboundRoutes := routes.NewOutboundDefault(outboundService)

	e := echo.New()
	e.Use(middleware.CORS())
	e.Use(middleware.Logger())

	// Home
	e.GET("/api/home", meetingRoutes.Home)

	// Users
	e.POST("/api/users", userRoutes.CreateUser)
	e.GET("/api/users/:id", userRoutes.GetUser)
	e.GET("/api/users/email/:email", userRoutes.GetUserByEmail)
	e.PUT("/api/users/:id", userRoutes.UpdateUser)
	e.DELETE("/api/users/:email", userRoutes.DeleteUser)
	e.GET("/api/users/search", userRoutes.SearchUsers)

	// Meetings
	e.POST("/api/meetings", meetingRoutes.CreateMeeting)
	e.GET("/api/meetings/:id", meetingRoutes.GetMeeting)
	e.GET("/api/meetings/user/:userId", meetingRoutes.GetMeetingsByUser)
	e.PUT("/api/meetings/:id", meetingRoutes.UpdateMeeting)
	e.DELETE("/api/meetings/:id", meetingRoutes.DeleteMeeting)
	e.GET("/api/charts/:userId", meetingRoutes.UserCharts)

	// Attendees
	e.POST("/api/attendees", attendeeRoutes.BookSlot)
	e.GET("/api/attendees/meeting/:meetingId", attendeeRoutes.GetAttendees)
	e.PUT("/api/attendees/:id", attendeeRoutes.UpdateAttendee)
	e.DELETE("/api/attendees/:id", attendeeRoutes.CancelBooking)

	// Notes
	e.GET("/api/notes/:id", noteRoutes.GetNote)
	e.GET("/api/notes/meeting/:meetingId", noteRoutes.GetNoteByMeeting)
	e.GET("/api/notes/user/:userId", noteRoutes.GetNotesByUser)
	e.PUT("/api/notes/:id", noteRoutes.UpdateNote)

	// Timelines
	e.GET("/api/timelines/:id", timelineRoutes.GetTimeline)
	e.GET("/api/timelines/meeting/:meetingId", timelineRoutes.GetTimelineByMeeting)
	e.GET("/api/timelines/user/:userId", timelineRoutes.GetTimelinesByUser)
	e.POST("/api/timelines/:id/items", timelineRoutes.AddItem)
	e.PUT("/api/timelines/:id/items", timelineRoutes.UpdateItemContent)
	e.PUT("/api/timelines/:id/reset", timelineRoutes.Reset)
	e.POST("/api/timelines/:id/guests", timelineRoutes.AddGuest)
	e.DELETE("/api/timelines/:id/guests/:index", timelineRoutes.RemoveGuest)

	// Google Calendar
	e.GET("/api/authorization", calendarRoutes.Authorization)
	e.POST("/api/tokens", calendarRoutes.InsertToken)
	e.POST("/api/calendars", calendarRoutes.InsertCalendar)
	e.GET("/api/calendars/meeting/:meetingId", calendarRoutes.GetCalendarEvents)
	e.DELETE("/api/calendars/:id", calendarRoutes.DeleteMirror)
	e.DELETE("/api/calendars/meeting/:meetingId/events", calendarRoutes.DeleteMirrorEvent)

	// Admin
	e.GET("/api/admin/users", adminRoutes.Users)
	e.GET("/api/admin/meetings", adminRoutes.Meetings)
	e.GET("/api/admin/attendees", adminRoutes.Attendees)
	e.GET("/api/admin/timelines", adminRoutes.Timelines)

	// Outbound
	e.POST("/api/sendmail", outboundRoutes.SendMail)
	e.POST("/api/payments/checkout", outboundRoutes.CreateCheckout)

	err = e.Start(":6060")
	if err != nil {
		e.Logger.Fatal(err)
	}
}

func registerValidators(validate *validator.Validate) {
	_ = validate.RegisterValidation("datekey", validators.IsDateKey)
	_ = validate.RegisterValidation("timelabel", validators.IsTimeLabel)
	_ = validate.RegisterValidation("duration", validators.IsDuration)
}
