package models

import "gorm.io/gorm"

// Enrollment statuses
const (
	EnrollmentActive    = "ACTIVE"
	EnrollmentCancelled = "CANCELLED"
)

// Enrollment links a user to a course they have joined. The composite unique
// index is the arbiter of the one-enrollment-per-(user,course) invariant;
// concurrent writers race on the constraint, not on application locks.
type Enrollment struct {
	gorm.Model
	UserID   uint   `json:"user_id" gorm:"not null;uniqueIndex:ux_enrollments_user_course"`
	CourseID uint   `json:"course_id" gorm:"not null;uniqueIndex:ux_enrollments_user_course"`
	Status   string `json:"status" gorm:"default:'ACTIVE'"` // ACTIVE, CANCELLED
	User     User   `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Course   Course `json:"course,omitempty" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}
