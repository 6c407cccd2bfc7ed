package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"renthaven/internal/config"
	"renthaven/internal/database"
	"renthaven/internal/middleware"
	"renthaven/internal/modules/admin"
	"renthaven/internal/modules/auth"
	"renthaven/internal/modules/booking"
	"renthaven/internal/modules/catalog"
	"renthaven/internal/modules/maintenance"
	"renthaven/internal/modules/mpesa"
	"renthaven/internal/modules/notification"
	"renthaven/internal/modules/payment"
	"renthaven/internal/obs"
	jwtsvc "renthaven/internal/pkg/jwt"
	"renthaven/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	mpesaCfg, err := config.LoadMpesa()
	if err != nil {
		log.Fatal(err)
	}

	shutdownTracer := obs.InitTracer("renthaven-api")
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(ctx)
	}()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	apartmentRepo := repository.NewApartmentRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	maintenanceRepo := repository.NewMaintenanceRepository(db)
	familyMemberRepo := repository.NewFamilyMemberRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)

	gateway := mpesa.NewClient(mpesaCfg, log.Printf)

	authService := auth.NewService(userRepo, j, log.Printf)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(apartmentRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	bookingService := booking.NewService(bookingRepo, apartmentRepo, gateway, log.Printf)
	bookingHandler := booking.NewHandler(bookingService)

	paymentService := payment.NewService(paymentRepo, log.Printf)
	paymentHandler := payment.NewHandler(paymentService, log.Printf)

	maintenanceService := maintenance.NewService(maintenanceRepo, userRepo, log.Printf)
	maintenanceHandler := maintenance.NewHandler(maintenanceService)

	adminService := admin.NewService(userRepo, familyMemberRepo, log.Printf)
	adminHandler := admin.NewHandler(adminService)

	hub := notification.NewHub()
	notificationService := notification.NewService(notificationRepo, hub, log.Printf)
	notificationHandler := notification.NewHandler(notificationService, hub)

	// events published by the outbox dispatcher come back in here
	consumer, err := notification.NewConsumer(cfg.AMQPURL, cfg.Exchange, "renthaven.notifications", notificationService, log.Printf)
	if err != nil {
		log.Printf("level=warn msg=notification consumer disabled err=%v", err)
	} else {
		defer consumer.Close()
		go func() {
			if err := consumer.Run(context.Background()); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("level=error msg=notification consumer stopped err=%v", err)
			}
		}()
	}

	if cfg.Env == "prod" || cfg.Env == "production" || cfg.Env == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), middleware.ErrorLogger(), middleware.CORS())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)
		catalogHandler.RegisterPublicRoutes(v1)
		paymentHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			paymentHandler.RegisterProtectedRoutes(protected)
			maintenanceHandler.RegisterTenantRoutes(protected)
			adminHandler.RegisterTenantRoutes(protected)
			notificationHandler.RegisterProtectedRoutes(protected)

			landlord := protected.Group("/")
			landlord.Use(middleware.RequireRole("landlord", "admin"))
			{
				catalogHandler.RegisterLandlordRoutes(landlord)
			}

			staff := protected.Group("/staff")
			staff.Use(middleware.RequireRole("staff", "admin"))
			{
				maintenanceHandler.RegisterStaffRoutes(staff)
			}

			adminGroup := protected.Group("/admin")
			adminGroup.Use(middleware.AdminOnly())
			{
				adminHandler.RegisterAdminRoutes(adminGroup)
				maintenanceHandler.RegisterAdminRoutes(adminGroup)
			}
		}
	}

	log.Printf("level=info msg=api listening addr=%s env=%s", cfg.HTTPAddr, cfg.Env)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
