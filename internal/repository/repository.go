package repository

import "course_web/internal/storage"

type Repositories struct {
	User       UserRepository
	Course     CourseRepository
	Lecture    LectureRepository
	Assignment AssignmentRepository
}

func NewRepositories(db *storage.PostgresDB) *Repositories {
	return &Repositories{
		User:       NewUserRepository(db),
		Course:     NewCourseRepository(db),
		Lecture:    NewLectureRepository(db),
		Assignment: NewAssignmentRepository(db),
	}
}
