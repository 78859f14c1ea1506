package models

import (
	"time"

	"gorm.io/gorm"
)

// Certificate is issued once per (user, course) and never mutated. Both the
// pair and the certificate number carry unique constraints.
type Certificate struct {
	gorm.Model
	UserID            uint      `json:"user_id" gorm:"not null;uniqueIndex:ux_certificates_user_course"`
	CourseID          uint      `json:"course_id" gorm:"not null;uniqueIndex:ux_certificates_user_course"`
	CertificateNumber string    `json:"certificate_number" gorm:"unique;not null"`
	IssuedAt          time.Time `json:"issued_at"`
	User              User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Course            Course    `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}
