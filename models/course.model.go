package models

import "gorm.io/gorm"

// Course represents a catalog item. The published flag gates visibility to
// learners; unpublished courses are only reachable through admin endpoints.
type Course struct {
	gorm.Model
	Title       string   `json:"title" gorm:"not null"`
	Slug        string   `json:"slug" gorm:"index"`
	Description string   `json:"description" gorm:"type:text"`
	Thumbnail   string   `json:"thumbnail"`
	Price       int64    `json:"price" gorm:"default:0"`    // cents
	Duration    int64    `json:"duration" gorm:"default:0"` // hours
	Level       string   `json:"level" gorm:"default:'BEGINNER'"`
	Category    string   `json:"category" gorm:"index"`
	Published   bool     `json:"published" gorm:"default:false;index"`
	CreatorID   uint     `json:"creator_id" gorm:"index"`
	Creator     User     `json:"creator,omitempty" gorm:"foreignKey:CreatorID"`
	Modules     []Module `json:"modules,omitempty" gorm:"foreignKey:CourseID"`
	Reviews     []Review `json:"reviews,omitempty" gorm:"foreignKey:CourseID"`
}

// Module represents a section within a course
type Module struct {
	gorm.Model
	CourseID   uint     `json:"course_id" gorm:"index;not null"`
	Title      string   `json:"title"`
	OrderIndex int      `json:"order_index" gorm:"default:0"`
	Lessons    []Lesson `json:"lessons,omitempty" gorm:"foreignKey:ModuleID"`
}

// Lesson represents a unit of content within a module
type Lesson struct {
	gorm.Model
	ModuleID   uint   `json:"module_id" gorm:"index;not null"`
	Title      string `json:"title"`
	Duration   int64  `json:"duration" gorm:"default:0"` // minutes
	OrderIndex int    `json:"order_index" gorm:"default:0"`
}

// Review is a learner's rating of a course
type Review struct {
	gorm.Model
	CourseID uint   `json:"course_id" gorm:"index;not null"`
	UserID   uint   `json:"user_id" gorm:"index;not null"`
	Rating   int    `json:"rating" gorm:"not null"` // 1-5
	Comment  string `json:"comment" gorm:"type:text"`
	User     User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
