package models

import (
	"gorm.io/gorm"
)

// Lecture 表示課程中的一個講座
type Lecture struct {
	gorm.Model
	CourseID uint   `gorm:"not null;index" json:"course_id"`
	Title    string `gorm:"not null" json:"title"`
	VideoURL string `json:"video_url"`
	Duration int    `json:"duration"` // 以分鐘為單位
	Position int    `json:"position"` // 在課程中的順序
}
