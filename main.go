package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"kclms/config"
	authController "kclms/controllers/auth"
	certificateController "kclms/controllers/certificate"
	courseController "kclms/controllers/course"
	enrollmentController "kclms/controllers/enrollment"
	healthController "kclms/controllers/health"
	paymentController "kclms/controllers/payment"
	"kclms/database"
	"kclms/routers/authRoutes"
	"kclms/routers/certificateRoutes"
	"kclms/routers/courseRoutes"
	"kclms/routers/enrollmentRoutes"
	"kclms/routers/healthRoutes"
	"kclms/routers/paymentRoutes"
	certificate "kclms/services/certificate"
	"kclms/services/notify"
	"kclms/utils"
)

func main() {
	cfg := config.LoadConfig()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Services and controllers are constructed once at startup and passed by
	// reference; there is no lazily-initialized global state.
	notifier := notify.NewDispatcher(cfg)
	issuer := certificate.NewIssuer(db, notifier, cfg.AppName)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization,Stripe-Signature",
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app, authController.New(db, cfg, notifier))
	courseRoutes.SetupCourseRoutes(app, courseController.New(db), cfg.JWTKey)
	enrollmentRoutes.SetupEnrollmentRoutes(app, enrollmentController.New(db, notifier), cfg.JWTKey)
	paymentRoutes.SetupPaymentRoutes(app, paymentController.New(db, cfg, notifier), cfg.JWTKey)
	certificateRoutes.SetupCertificateRoutes(app, certificateController.New(db, issuer), cfg.JWTKey)
	healthRoutes.SetupHealthRoutes(app, healthController.New(db, cfg))

	utils.InitializePaymentReconciliation(db)

	log.Printf("Server is running on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
