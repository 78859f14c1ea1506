package certificate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"kclms/database"
	"kclms/models"
	"kclms/services/notify"
)

type fakeTransport struct {
	mu      sync.Mutex
	sendErr error
	sent    []notify.Message
}

func (f *fakeTransport) Name() string  { return "email" }
func (f *fakeTransport) Enabled() bool { return true }

func (f *fakeTransport) Send(_ context.Context, msg notify.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, msg)
	return nil
}

func setupIssuer(t *testing.T, transport *fakeTransport) (*Issuer, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	notifier := notify.NewDispatcherWithTransports("Knowledge Camp LMS", "http://localhost:3000",
		map[notify.Channel]notify.Transport{notify.ChannelEmail: transport})

	return NewIssuer(db, notifier, "Knowledge Camp LMS"), db
}

func seedUserAndCourse(t *testing.T, db *gorm.DB) (models.User, models.Course) {
	t.Helper()

	user := models.User{Name: "Jane Doe", Email: "jane@example.com", Password: "x", Role: models.RoleStudent}
	require.NoError(t, db.Create(&user).Error)

	course := models.Course{Title: "Go Fundamentals", Description: "Learn Go", Published: true, CreatorID: user.ID}
	require.NoError(t, db.Create(&course).Error)

	return user, course
}

func TestIssueCreatesCertificate(t *testing.T) {
	transport := &fakeTransport{}
	issuer, db := setupIssuer(t, transport)
	user, course := seedUserAndCourse(t, db)

	cert, created, err := issuer.Issue(context.Background(), user.ID, course.ID)

	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, strings.HasPrefix(cert.CertificateNumber, "KC-"))
	assert.False(t, cert.IssuedAt.IsZero())

	require.Len(t, transport.sent, 1)
	msg := transport.sent[0]
	assert.Equal(t, "jane@example.com", msg.Recipient.Email)
	require.Len(t, msg.Attachments, 1)
	assert.Contains(t, string(msg.Attachments[0].Content), "CERTIFICATE OF COMPLETION")
	assert.Contains(t, string(msg.Attachments[0].Content), cert.CertificateNumber)
}

func TestIssueIsIdempotent(t *testing.T) {
	transport := &fakeTransport{}
	issuer, db := setupIssuer(t, transport)
	user, course := seedUserAndCourse(t, db)

	first, created, err := issuer.Issue(context.Background(), user.ID, course.ID)
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := issuer.Issue(context.Background(), user.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.CertificateNumber, second.CertificateNumber)

	var count int64
	db.Model(&models.Certificate{}).Where("user_id = ? AND course_id = ?", user.ID, course.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	// No second notification for an already-issued certificate.
	assert.Len(t, transport.sent, 1)
}

func TestIssueUnknownUserReturnsNotFound(t *testing.T) {
	issuer, db := setupIssuer(t, &fakeTransport{})
	_, course := seedUserAndCourse(t, db)

	_, _, err := issuer.Issue(context.Background(), 9999, course.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestIssueUnknownCourseReturnsNotFound(t *testing.T) {
	issuer, db := setupIssuer(t, &fakeTransport{})
	user, _ := seedUserAndCourse(t, db)

	_, _, err := issuer.Issue(context.Background(), user.ID, 9999)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestIssueSurvivesNotificationFailure(t *testing.T) {
	transport := &fakeTransport{sendErr: errors.New("smtp down")}
	issuer, db := setupIssuer(t, transport)
	user, course := seedUserAndCourse(t, db)

	cert, created, err := issuer.Issue(context.Background(), user.ID, course.ID)

	require.NoError(t, err)
	assert.True(t, created)

	var stored models.Certificate
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).First(&stored).Error)
	assert.Equal(t, cert.CertificateNumber, stored.CertificateNumber)
}

func TestGenerateNumberFormat(t *testing.T) {
	number := GenerateNumber()

	parts := strings.Split(number, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, "KC", parts[0])
	assert.NotEmpty(t, parts[1])
	assert.Len(t, parts[2], 4)
	assert.Equal(t, strings.ToUpper(number), number)
}
