package courseValidator

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"kclms/middleware"
	"kclms/validators"
)

// ListQuery carries the validated catalog listing filters.
type ListQuery struct {
	Category string
	Level    string
	Search   string
	Page     int
	Limit    int
}

// CreateRequest is the validated body for course creation.
type CreateRequest struct {
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description" validate:"required,min=5"`
	Slug        string `json:"slug"`
	Thumbnail   string `json:"thumbnail"`
	Price       int64  `json:"price" validate:"gte=0"`
	Duration    int64  `json:"duration" validate:"gte=0"`
	Level       string `json:"level" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	Category    string `json:"category"`
	Published   bool   `json:"published"`
}

// UpdateRequest is the validated body for course updates. Pointer fields
// distinguish "not sent" from zero values.
type UpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3"`
	Description *string `json:"description" validate:"omitempty,min=5"`
	Thumbnail   *string `json:"thumbnail"`
	Price       *int64  `json:"price" validate:"omitempty,gte=0"`
	Duration    *int64  `json:"duration" validate:"omitempty,gte=0"`
	Level       *string `json:"level" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	Category    *string `json:"category"`
	Published   *bool   `json:"published"`
}

// List validates catalog listing query parameters
func List() fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := &ListQuery{
			Category: strings.TrimSpace(c.Query("category")),
			Level:    strings.TrimSpace(c.Query("level")),
			Search:   strings.TrimSpace(c.Query("search")),
			Page:     1,
			Limit:    12,
		}

		if pageStr := c.Query("page"); pageStr != "" {
			page, err := strconv.Atoi(pageStr)
			if err != nil || page <= 0 {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid page number!", nil)
			}
			query.Page = page
		}

		if limitStr := c.Query("limit"); limitStr != "" {
			limit, err := strconv.Atoi(limitStr)
			if err != nil || limit <= 0 || limit > 100 {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid limit!", nil)
			}
			query.Limit = limit
		}

		c.Locals("courseListQuery", query)
		return c.Next()
	}
}

// GetDetail validates the course id path parameter
func GetDetail() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseCourseID(c)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}
		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// Create validates admin course creation request
func Create() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)

		if err := validators.Validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validators.Messages(err))
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// Update validates admin course update request
func Update() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseCourseID(c)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		reqData := new(UpdateRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validators.Validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validators.Messages(err))
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedCourseUpdate", reqData)
		return c.Next()
	}
}

// Delete validates the course id path parameter for deletion
func Delete() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := parseCourseID(c)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}
		c.Locals("courseID", courseID)
		return c.Next()
	}
}

func parseCourseID(c *fiber.Ctx) (uint, error) {
	idStr := strings.TrimSpace(c.Params("id"))
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return 0, fiber.ErrBadRequest
	}
	return uint(id), nil
}
