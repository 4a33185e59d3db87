package repository

import (
	"course_web/internal/models"
	"course_web/internal/storage"
)

type AssignmentRepository interface {
	Create(assignment *models.Assignment) error
	FindByCourse(courseID uint) ([]models.Assignment, error)
}

type assignmentRepository struct {
	db *storage.PostgresDB
}

func NewAssignmentRepository(db *storage.PostgresDB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(assignment *models.Assignment) error {
	return r.db.Create(assignment).Error
}

func (r *assignmentRepository) FindByCourse(courseID uint) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := r.db.Where("course_id = ?", courseID).Order("due_date ASC").Find(&assignments).Error
	return assignments, err
}
