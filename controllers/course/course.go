package courseController

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"kclms/middleware"
	"kclms/models"
	courseValidator "kclms/validators/course"
)

// Controller serves the course catalog.
type Controller struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Controller {
	return &Controller{db: db}
}

type courseWithCounts struct {
	models.Course
	EnrollmentCount int64 `json:"enrollment_count"`
	ReviewCount     int64 `json:"review_count"`
}

// List returns published courses with optional category/level/search filters
// and pagination.
func (ctl *Controller) List(c *fiber.Ctx) error {
	query, ok := c.Locals("courseListQuery").(*courseValidator.ListQuery)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := ctl.db.Model(&models.Course{}).Where("published = ?", true)
	if query.Category != "" {
		db = db.Where("category = ?", query.Category)
	}
	if query.Level != "" {
		db = db.Where("level = ?", query.Level)
	}
	if query.Search != "" {
		like := "%" + strings.ToLower(query.Search) + "%"
		db = db.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		log.Printf("Error counting courses: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	offset := (query.Page - 1) * query.Limit
	var courses []models.Course
	if err := db.Preload("Creator").
		Order("created_at desc").
		Offset(offset).Limit(query.Limit).
		Find(&courses).Error; err != nil {
		log.Printf("Error fetching courses: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	result := make([]courseWithCounts, len(courses))
	for i, course := range courses {
		result[i] = courseWithCounts{Course: course}
		if err := ctl.db.Model(&models.Enrollment{}).Where("course_id = ?", course.ID).
			Count(&result[i].EnrollmentCount).Error; err != nil {
			log.Printf("Error counting enrollments for course %d: %v", course.ID, err)
		}
		if err := ctl.db.Model(&models.Review{}).Where("course_id = ?", course.ID).
			Count(&result[i].ReviewCount).Error; err != nil {
			log.Printf("Error counting reviews for course %d: %v", course.ID, err)
		}
	}

	pages := total / int64(query.Limit)
	if total%int64(query.Limit) != 0 {
		pages++
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": result,
		"pagination": fiber.Map{
			"page":  query.Page,
			"limit": query.Limit,
			"total": total,
			"pages": pages,
		},
	})
}

// GetDetail returns a course with its modules, lessons, latest reviews and
// computed average rating.
func (ctl *Controller) GetDetail(c *fiber.Ctx) error {
	courseID, ok := c.Locals("courseID").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
	}

	var course models.Course
	err := ctl.db.
		Preload("Creator").
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index asc")
		}).
		Preload("Modules.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index asc")
		}).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at desc").Limit(10)
		}).
		Preload("Reviews.User").
		First(&course, courseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if err != nil {
		log.Printf("Error fetching course %d: %v", courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}

	var averageRating float64
	ctl.db.Model(&models.Review{}).
		Where("course_id = ?", courseID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&averageRating)

	var totalReviews int64
	ctl.db.Model(&models.Review{}).Where("course_id = ?", courseID).Count(&totalReviews)

	var enrollmentCount int64
	ctl.db.Model(&models.Enrollment{}).Where("course_id = ?", courseID).Count(&enrollmentCount)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course":           course,
		"average_rating":   averageRating,
		"total_reviews":    totalReviews,
		"enrollment_count": enrollmentCount,
	})
}
