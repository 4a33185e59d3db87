package service

import (
	"course_web/internal/chat"
	"course_web/internal/config"
	"course_web/internal/repository"
)

type Services struct {
	User   *UserService
	Course *CourseService
	Broker *chat.Broker
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	broker := chat.NewBroker(cfg.Chat.SendBuffer)

	userService := NewUserService(repos.User)
	courseService := NewCourseService(repos.Course, repos.Lecture, repos.Assignment)
	return &Services{
		User:   userService,
		Course: courseService,
		Broker: broker,
	}
}
