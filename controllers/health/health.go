package healthController

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kclms/config"
)

// Controller serves the liveness endpoint.
type Controller struct {
	db  *gorm.DB
	cfg *config.Config
}

func New(db *gorm.DB, cfg *config.Config) *Controller {
	return &Controller{db: db, cfg: cfg}
}

// Check reports process health. The response is always 200 while the process
// is up; the database check reflects an actual ping so operators can see
// degraded persistence without the endpoint itself failing.
func (ctl *Controller) Check(c *fiber.Ctx) error {
	dbStatus := "operational"
	sqlDB, err := ctl.db.DB()
	if err != nil {
		dbStatus = "unavailable"
	} else {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := sqlDB.PingContext(ctx); err != nil {
			dbStatus = "unavailable"
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":      "healthy",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"service":     ctl.cfg.AppName,
		"version":     ctl.cfg.AppVersion,
		"environment": ctl.cfg.Environment,
		"checks": fiber.Map{
			"api":      "operational",
			"database": dbStatus,
		},
	})
}
