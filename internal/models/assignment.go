package models

import (
	"time"

	"gorm.io/gorm"
)

// Assignment 表示課程中的一份作業
type Assignment struct {
	gorm.Model
	CourseID    uint      `gorm:"not null;index" json:"course_id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	DueDate     time.Time `json:"due_date"`
	Points      int       `gorm:"default:100" json:"points"`
}
