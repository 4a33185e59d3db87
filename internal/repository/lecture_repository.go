package repository

import (
	"course_web/internal/models"
	"course_web/internal/storage"
)

type LectureRepository interface {
	Create(lecture *models.Lecture) error
	FindByCourse(courseID uint) ([]models.Lecture, error)
}

type lectureRepository struct {
	db *storage.PostgresDB
}

func NewLectureRepository(db *storage.PostgresDB) LectureRepository {
	return &lectureRepository{db: db}
}

func (r *lectureRepository) Create(lecture *models.Lecture) error {
	return r.db.Create(lecture).Error
}

func (r *lectureRepository) FindByCourse(courseID uint) ([]models.Lecture, error) {
	var lectures []models.Lecture
	err := r.db.Where("course_id = ?", courseID).Order("position ASC").Find(&lectures).Error
	return lectures, err
}
