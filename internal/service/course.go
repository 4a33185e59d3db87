package service

import (
	"errors"

	"course_web/internal/models"
	"course_web/internal/repository"
)

type CourseService struct {
	courseRepo     repository.CourseRepository
	lectureRepo    repository.LectureRepository
	assignmentRepo repository.AssignmentRepository
}

func NewCourseService(courseRepo repository.CourseRepository, lectureRepo repository.LectureRepository, assignmentRepo repository.AssignmentRepository) *CourseService {
	return &CourseService{
		courseRepo:     courseRepo,
		lectureRepo:    lectureRepo,
		assignmentRepo: assignmentRepo,
	}
}

func (s *CourseService) ListCourses() ([]models.Course, error) {
	return s.courseRepo.FindAll()
}

func (s *CourseService) GetCourse(courseID uint) (*models.Course, error) {
	return s.courseRepo.FindByID(courseID)
}

func (s *CourseService) CreateCourse(course *models.Course) error {
	return s.courseRepo.Create(course)
}

func (s *CourseService) UpdateCourse(courseID uint, instructorID uint, update func(*models.Course)) (*models.Course, error) {
	course, err := s.courseRepo.FindByID(courseID)
	if err != nil {
		return nil, err
	}
	if course.InstructorID != instructorID {
		return nil, errors.New("只有課程講師能修改課程")
	}

	update(course)
	if err := s.courseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) DeleteCourse(courseID uint, instructorID uint) error {
	course, err := s.courseRepo.FindByID(courseID)
	if err != nil {
		return err
	}
	if course.InstructorID != instructorID {
		return errors.New("只有課程講師能刪除課程")
	}
	return s.courseRepo.Delete(courseID)
}

// Enroll 將學生加入課程
func (s *CourseService) Enroll(courseID, userID uint) error {
	course, err := s.courseRepo.FindByID(courseID)
	if err != nil {
		return err
	}
	if !course.IsPublished {
		return errors.New("課程尚未發佈")
	}
	if course.InstructorID == userID {
		return errors.New("講師不需要選修自己的課程")
	}

	enrolled, err := s.courseRepo.IsStudent(courseID, userID)
	if err != nil {
		return err
	}
	if enrolled {
		return errors.New("用戶已選修該課程")
	}

	return s.courseRepo.AddStudent(courseID, userID)
}

// IsMember 檢查用戶是否為課程成員（講師或已選修的學生），
// 聊天室的 join 授權靠這裡判斷
func (s *CourseService) IsMember(courseID, userID uint) bool {
	course, err := s.courseRepo.FindByID(courseID)
	if err != nil {
		return false
	}
	if course.InstructorID == userID {
		return true
	}
	enrolled, err := s.courseRepo.IsStudent(courseID, userID)
	if err != nil {
		return false
	}
	return enrolled
}

// CourseStats 平台的課程統計數據
type CourseStats struct {
	TotalCourses     int64 `json:"totalCourses"`
	PublishedCourses int64 `json:"publishedCourses"`
	TotalEnrollments int64 `json:"totalEnrollments"`
}

// Stats 統計全平台的課程與選課數
func (s *CourseService) Stats() (*CourseStats, error) {
	total, err := s.courseRepo.Count(false)
	if err != nil {
		return nil, err
	}
	published, err := s.courseRepo.Count(true)
	if err != nil {
		return nil, err
	}
	enrollments, err := s.courseRepo.CountEnrollments()
	if err != nil {
		return nil, err
	}
	return &CourseStats{
		TotalCourses:     total,
		PublishedCourses: published,
		TotalEnrollments: enrollments,
	}, nil
}

func (s *CourseService) ListLectures(courseID uint) ([]models.Lecture, error) {
	return s.lectureRepo.FindByCourse(courseID)
}

func (s *CourseService) AddLecture(lecture *models.Lecture, instructorID uint) error {
	course, err := s.courseRepo.FindByID(lecture.CourseID)
	if err != nil {
		return err
	}
	if course.InstructorID != instructorID {
		return errors.New("只有課程講師能新增講座")
	}
	return s.lectureRepo.Create(lecture)
}

func (s *CourseService) ListAssignments(courseID uint) ([]models.Assignment, error) {
	return s.assignmentRepo.FindByCourse(courseID)
}

func (s *CourseService) AddAssignment(assignment *models.Assignment, instructorID uint) error {
	course, err := s.courseRepo.FindByID(assignment.CourseID)
	if err != nil {
		return err
	}
	if course.InstructorID != instructorID {
		return errors.New("只有課程講師能新增作業")
	}
	return s.assignmentRepo.Create(assignment)
}
