package models

import (
	"gorm.io/gorm"
)

// User 表示系統中的用戶
type User struct {
	gorm.Model
	Username string   `gorm:"uniqueIndex;not null" json:"username"` // 用戶名，必須唯一
	Password string   `gorm:"not null" json:"-"`                    // 密碼，json 序列化時會被忽略
	Name     string   `gorm:"not null" json:"name"`                 // 顯示名稱
	Role     UserRole `gorm:"not null;default:student" json:"role"` // 用戶角色
	IsActive bool     `gorm:"not null;default:true" json:"is_active"` // 停用的帳號無法登入
}

// UserRole 定義用戶角色的類型
type UserRole string

const (
	RoleStudent    UserRole = "student"    // 學生角色
	RoleInstructor UserRole = "instructor" // 講師角色
	RoleAdmin      UserRole = "admin"      // 管理員角色
)
