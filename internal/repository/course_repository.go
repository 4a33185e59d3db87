package repository

import (
	"course_web/internal/models"
	"course_web/internal/storage"
)

type CourseRepository interface {
	Create(course *models.Course) error
	FindByID(id uint) (*models.Course, error)
	Update(course *models.Course) error
	Delete(id uint) error
	FindAll() ([]models.Course, error)
	AddStudent(courseID, userID uint) error
	IsStudent(courseID, userID uint) (bool, error)
	Count(publishedOnly bool) (int64, error)
	CountEnrollments() (int64, error)
}

type courseRepository struct {
	db *storage.PostgresDB
}

func NewCourseRepository(db *storage.PostgresDB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(course *models.Course) error {
	return r.db.Create(course).Error
}

func (r *courseRepository) FindByID(id uint) (*models.Course, error) {
	var course models.Course
	err := r.db.Preload("Lectures").Preload("Assignments").First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepository) Update(course *models.Course) error {
	return r.db.Save(course).Error
}

func (r *courseRepository) Delete(id uint) error {
	return r.db.Delete(&models.Course{}, id).Error
}

// FindAll 查詢所有課程
func (r *courseRepository) FindAll() ([]models.Course, error) {
	var courses []models.Course
	err := r.db.Order("created_at DESC").Find(&courses).Error
	return courses, err
}

// AddStudent 將學生加入課程的選課名單
func (r *courseRepository) AddStudent(courseID, userID uint) error {
	course := models.Course{}
	course.ID = courseID
	user := models.User{}
	user.ID = userID
	return r.db.Model(&course).Association("Students").Append(&user)
}

// IsStudent 檢查用戶是否已選修該課程
func (r *courseRepository) IsStudent(courseID, userID uint) (bool, error) {
	var count int64
	err := r.db.Table("course_students").
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Count(&count).Error
	return count > 0, err
}

// Count 統計課程數，publishedOnly 為 true 時只算已發佈的課程
func (r *courseRepository) Count(publishedOnly bool) (int64, error) {
	var count int64
	query := r.db.Model(&models.Course{})
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}
	err := query.Count(&count).Error
	return count, err
}

// CountEnrollments 統計全平台的選課總數
func (r *courseRepository) CountEnrollments() (int64, error) {
	var count int64
	err := r.db.Table("course_students").Count(&count).Error
	return count, err
}
