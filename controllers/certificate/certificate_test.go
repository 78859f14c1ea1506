package certificateController_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	certificateController "kclms/controllers/certificate"
	"kclms/database"
	"kclms/middleware"
	"kclms/models"
	"kclms/routers/certificateRoutes"
	certificate "kclms/services/certificate"
	"kclms/services/notify"
)

const testJWTSecret = "test-secret"

type fakeTransport struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (f *fakeTransport) Name() string  { return "email" }
func (f *fakeTransport) Enabled() bool { return true }

func (f *fakeTransport) Send(_ context.Context, msg notify.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return nil
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupCertApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	notifier := notify.NewDispatcherWithTransports("Knowledge Camp LMS", "http://localhost:3000",
		map[notify.Channel]notify.Transport{notify.ChannelEmail: &fakeTransport{}})
	issuer := certificate.NewIssuer(db, notifier, "Knowledge Camp LMS")

	app := fiber.New()
	certificateRoutes.SetupCertificateRoutes(app, certificateController.New(db, issuer), testJWTSecret)

	return app, db
}

func seedLMS(t *testing.T, db *gorm.DB) (admin, student models.User, course models.Course) {
	t.Helper()

	admin = models.User{Name: "Ada Admin", Email: "ada@example.com", Password: "x", Role: models.RoleAdmin}
	require.NoError(t, db.Create(&admin).Error)

	student = models.User{Name: "Sam Student", Email: "sam@example.com", Password: "x", Role: models.RoleStudent}
	require.NoError(t, db.Create(&student).Error)

	course = models.Course{Title: "Go Fundamentals", Published: true, CreatorID: admin.ID}
	require.NoError(t, db.Create(&course).Error)
	return admin, student, course
}

func tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	token, err := middleware.GenerateJWT(testJWTSecret, user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)
	return token
}

func issueRequest(t *testing.T, app *fiber.App, token string, userID, courseID uint) (*http.Response, envelope) {
	t.Helper()

	body := fmt.Sprintf(`{"userId":%d,"courseId":%d}`, userID, courseID)
	req := httptest.NewRequest(http.MethodPost, "/api/certificates/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	return resp, env
}

func TestIssueCreatesThenReturnsExisting(t *testing.T) {
	app, db := setupCertApp(t)
	admin, student, course := seedLMS(t, db)
	token := tokenFor(t, admin)

	resp, env := issueRequest(t, app, token, student.ID, course.ID)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var first models.Certificate
	require.NoError(t, json.Unmarshal(env.Data, &first))
	assert.True(t, strings.HasPrefix(first.CertificateNumber, "KC-"))

	resp, env = issueRequest(t, app, token, student.ID, course.ID)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Certificate already issued!", env.Message)

	var second models.Certificate
	require.NoError(t, json.Unmarshal(env.Data, &second))
	assert.Equal(t, first.CertificateNumber, second.CertificateNumber)

	var count int64
	require.NoError(t, db.Model(&models.Certificate{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestIssueRejectsStudentToken(t *testing.T) {
	app, db := setupCertApp(t)
	_, student, course := seedLMS(t, db)

	resp, _ := issueRequest(t, app, tokenFor(t, student), student.ID, course.ID)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestIssueUnknownUserReturnsNotFound(t *testing.T) {
	app, db := setupCertApp(t)
	admin, _, course := seedLMS(t, db)

	resp, env := issueRequest(t, app, tokenFor(t, admin), 9999, course.ID)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User or course not found!", env.Message)
}

func TestListReturnsUserCertificates(t *testing.T) {
	app, db := setupCertApp(t)
	admin, student, course := seedLMS(t, db)

	resp, _ := issueRequest(t, app, tokenFor(t, admin), student.ID, course.ID)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/certificates/?userId=%d", student.ID), nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, student))

	listResp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, listResp.StatusCode)

	raw, err := io.ReadAll(listResp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env))

	var items []models.Certificate
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, course.ID, items[0].CourseID)
	assert.Equal(t, "Go Fundamentals", items[0].Course.Title)
}
