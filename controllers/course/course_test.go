package courseController_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	courseController "kclms/controllers/course"
	"kclms/database"
	"kclms/middleware"
	"kclms/models"
	"kclms/routers/courseRoutes"
)

const testJWTSecret = "test-secret"

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type listedCourse struct {
	models.Course
	EnrollmentCount int64 `json:"enrollment_count"`
	ReviewCount     int64 `json:"review_count"`
}

type listData struct {
	Courses    []listedCourse `json:"courses"`
	Pagination struct {
		Page  int   `json:"page"`
		Limit int   `json:"limit"`
		Total int64 `json:"total"`
		Pages int64 `json:"pages"`
	} `json:"pagination"`
}

type detailData struct {
	Course          models.Course `json:"course"`
	AverageRating   float64       `json:"average_rating"`
	TotalReviews    int64         `json:"total_reviews"`
	EnrollmentCount int64         `json:"enrollment_count"`
}

func setupCatalog(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	app := fiber.New()
	courseRoutes.SetupCourseRoutes(app, courseController.New(db), testJWTSecret)

	return app, db
}

func seedCatalog(t *testing.T, db *gorm.DB) models.User {
	t.Helper()

	trainer := models.User{Name: "Tom Trainer", Email: "tom@example.com", Password: "x", Role: models.RoleTrainer}
	require.NoError(t, db.Create(&trainer).Error)

	courses := []models.Course{
		{Title: "Go Fundamentals", Description: "Learn Go from scratch", Category: "programming", Level: "BEGINNER", Published: true, CreatorID: trainer.ID},
		{Title: "Advanced Go Concurrency", Description: "Channels and schedulers", Category: "programming", Level: "ADVANCED", Published: true, CreatorID: trainer.ID},
		{Title: "Watercolor Basics", Description: "Painting for beginners", Category: "art", Level: "BEGINNER", Published: true, CreatorID: trainer.ID},
		{Title: "Unreleased Draft", Description: "Not visible yet", Category: "programming", Level: "BEGINNER", Published: false, CreatorID: trainer.ID},
	}
	for i := range courses {
		require.NoError(t, db.Create(&courses[i]).Error)
	}

	return trainer
}

func getJSON(t *testing.T, app *fiber.App, path string) (*http.Response, envelope) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	return resp, env
}

func TestListReturnsOnlyPublishedCourses(t *testing.T) {
	app, db := setupCatalog(t)
	seedCatalog(t, db)

	resp, env := getJSON(t, app, "/api/courses/")

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var data listData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Len(t, data.Courses, 3)
	assert.Equal(t, int64(3), data.Pagination.Total)
	for _, course := range data.Courses {
		assert.True(t, course.Published)
		assert.NotEqual(t, "Unreleased Draft", course.Title)
	}
}

func TestListIncludesEnrollmentAndReviewCounts(t *testing.T) {
	app, db := setupCatalog(t)
	trainer := seedCatalog(t, db)

	var course models.Course
	require.NoError(t, db.Where("title = ?", "Go Fundamentals").First(&course).Error)

	enrollment := models.Enrollment{UserID: trainer.ID, CourseID: course.ID, Status: models.EnrollmentActive}
	require.NoError(t, db.Create(&enrollment).Error)
	review := models.Review{CourseID: course.ID, UserID: trainer.ID, Rating: 5, Comment: "Great"}
	require.NoError(t, db.Create(&review).Error)

	_, env := getJSON(t, app, "/api/courses/?search=fundamentals")

	var data listData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Courses, 1)
	assert.Equal(t, int64(1), data.Courses[0].EnrollmentCount)
	assert.Equal(t, int64(1), data.Courses[0].ReviewCount)
}

func TestListPaginates(t *testing.T) {
	app, db := setupCatalog(t)
	seedCatalog(t, db)

	_, env := getJSON(t, app, "/api/courses/?page=1&limit=2")

	var data listData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Len(t, data.Courses, 2)
	assert.Equal(t, 1, data.Pagination.Page)
	assert.Equal(t, 2, data.Pagination.Limit)
	assert.Equal(t, int64(3), data.Pagination.Total)
	assert.Equal(t, int64(2), data.Pagination.Pages)
}

func TestListFiltersByCategory(t *testing.T) {
	app, db := setupCatalog(t)
	seedCatalog(t, db)

	_, env := getJSON(t, app, "/api/courses/?category=art")

	var data listData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Courses, 1)
	assert.Equal(t, "Watercolor Basics", data.Courses[0].Title)
}

func TestListSearchMatchesTitleAndDescription(t *testing.T) {
	app, db := setupCatalog(t)
	seedCatalog(t, db)

	_, env := getJSON(t, app, "/api/courses/?search=concurrency")

	var data listData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Courses, 1)
	assert.Equal(t, "Advanced Go Concurrency", data.Courses[0].Title)
}

func TestGetDetailComputesAverageRating(t *testing.T) {
	app, db := setupCatalog(t)
	trainer := seedCatalog(t, db)

	var course models.Course
	require.NoError(t, db.Where("title = ?", "Go Fundamentals").First(&course).Error)

	reviews := []models.Review{
		{CourseID: course.ID, UserID: trainer.ID, Rating: 4, Comment: "Solid"},
		{CourseID: course.ID, UserID: trainer.ID, Rating: 5, Comment: "Great"},
	}
	for i := range reviews {
		require.NoError(t, db.Create(&reviews[i]).Error)
	}

	resp, env := getJSON(t, app, fmt.Sprintf("/api/courses/%d", course.ID))

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var data detailData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "Go Fundamentals", data.Course.Title)
	assert.InDelta(t, 4.5, data.AverageRating, 0.001)
	assert.Equal(t, int64(2), data.TotalReviews)
}

func TestGetDetailUnknownCourse(t *testing.T) {
	app, db := setupCatalog(t)
	seedCatalog(t, db)

	resp, env := getJSON(t, app, "/api/courses/9999")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Course not found!", env.Message)
}

func TestCreateRequiresStaffRole(t *testing.T) {
	app, db := setupCatalog(t)
	seedCatalog(t, db)

	student := models.User{Name: "Sam Student", Email: "sam@example.com", Password: "x", Role: models.RoleStudent}
	require.NoError(t, db.Create(&student).Error)

	token, err := middleware.GenerateJWT(testJWTSecret, student.ID, student.Name, student.Role, student.Email)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/courses/", strings.NewReader(`{"title":"Hacked Course"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestTrainerCreatesCourse(t *testing.T) {
	app, db := setupCatalog(t)
	trainer := seedCatalog(t, db)

	token, err := middleware.GenerateJWT(testJWTSecret, trainer.ID, trainer.Name, trainer.Role, trainer.Email)
	require.NoError(t, err)

	body := `{"title":"Testing in Go","description":"Tables and fakes","category":"programming","price":2999}`
	req := httptest.NewRequest(http.MethodPost, "/api/courses/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var course models.Course
	require.NoError(t, db.Where("title = ?", "Testing in Go").First(&course).Error)
	assert.Equal(t, "testing-in-go", course.Slug)
	assert.Equal(t, trainer.ID, course.CreatorID)
	assert.False(t, course.Published)
}
