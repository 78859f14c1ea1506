package certificate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kclms/models"
	"kclms/services/notify"
)

// ErrNotFound is returned when the referenced user or course does not exist.
var ErrNotFound = errors.New("user or course not found")

// Issuer creates certificate records and delivers the rendered document.
//
// Completion of the course is the caller's precondition: the issuer trusts
// that the determination has already been made and does not consult progress
// data.
type Issuer struct {
	db       *gorm.DB
	notifier *notify.Dispatcher
	appName  string
}

func NewIssuer(db *gorm.DB, notifier *notify.Dispatcher, appName string) *Issuer {
	return &Issuer{db: db, notifier: notifier, appName: appName}
}

// Issue returns the certificate for (userID, courseID), creating it if none
// exists. Issuance is idempotent: repeated calls return the same record with
// the same certificate number. The returned bool reports whether a new
// record was created on this call.
func (i *Issuer) Issue(ctx context.Context, userID, courseID uint) (*models.Certificate, bool, error) {
	var user models.User
	if err := i.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrNotFound
		}
		return nil, false, err
	}

	var course models.Course
	if err := i.db.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrNotFound
		}
		return nil, false, err
	}

	var cert models.Certificate
	err := i.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&cert).Error
	if err == nil {
		return &cert, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	cert = models.Certificate{
		UserID:            userID,
		CourseID:          courseID,
		CertificateNumber: GenerateNumber(),
		IssuedAt:          time.Now(),
	}
	if err := i.db.Create(&cert).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race with a concurrent issuance; the unique constraint
			// on (user_id, course_id) guarantees the winner is the record.
			var existing models.Certificate
			if ferr := i.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error; ferr != nil {
				return nil, false, ferr
			}
			return &existing, false, nil
		}
		return nil, false, err
	}

	// The certificate row is committed; rendering or sending failures below
	// must not invalidate it.
	document := i.RenderDocument(user.Name, course.Title, cert.IssuedAt, cert.CertificateNumber)
	delivered := i.notifier.Send(ctx, notify.ChannelEmail,
		notify.Recipient{Name: user.Name, Email: user.Email, Phone: user.Phone},
		notify.TemplateCertificate,
		notify.TemplateData{Name: user.Name, CourseTitle: course.Title, CertificateNumber: cert.CertificateNumber},
		notify.Attachment{
			Filename:    attachmentFilename(course.Title),
			ContentType: "text/plain",
			Content:     document,
		},
	)
	if !delivered {
		log.Printf("Certificate %s issued but notification was not delivered", cert.CertificateNumber)
	}

	return &cert, true, nil
}

// GenerateNumber produces a collision-resistant, human-readable certificate
// number: a base36 millisecond timestamp plus a random component.
func GenerateNumber() string {
	timestamp := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	random := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return fmt.Sprintf("KC-%s-%s", timestamp, random)
}

// RenderDocument renders the certificate document artifact.
func (i *Issuer) RenderDocument(userName, courseTitle string, issuedAt time.Time, number string) []byte {
	text := fmt.Sprintf(`CERTIFICATE OF COMPLETION

%s

This is to certify that

%s

has successfully completed the course

%s

Awarded on %s

Certificate No: %s
`, i.appName, userName, courseTitle, issuedAt.Format("January 2, 2006"), number)
	return []byte(text)
}

func attachmentFilename(courseTitle string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, courseTitle)
	return sanitized + "_Certificate.txt"
}
