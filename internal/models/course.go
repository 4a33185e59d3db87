package models

import (
	"gorm.io/gorm"
)

// Course 表示一門課程
type Course struct {
	gorm.Model
	Title        string       `gorm:"not null" json:"title"`
	Description  string       `gorm:"type:text" json:"description"`
	InstructorID uint         `gorm:"not null;index" json:"instructor_id"`
	Category     string       `gorm:"type:varchar(100)" json:"category"`
	Level        CourseLevel  `gorm:"type:varchar(20);default:beginner" json:"level"`
	Price        float64      `gorm:"default:0" json:"price"`
	IsPublished  bool         `gorm:"default:false" json:"is_published"`
	Students     []User       `gorm:"many2many:course_students" json:"students,omitempty"` // 已註冊的學生列表
	Lectures     []Lecture    `gorm:"foreignKey:CourseID" json:"lectures,omitempty"`
	Assignments  []Assignment `gorm:"foreignKey:CourseID" json:"assignments,omitempty"`
}

// CourseLevel 定義課程難度的類型
type CourseLevel string

const (
	LevelBeginner     CourseLevel = "beginner"
	LevelIntermediate CourseLevel = "intermediate"
	LevelAdvanced     CourseLevel = "advanced"
)
