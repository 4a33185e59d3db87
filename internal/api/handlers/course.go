package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"course_web/internal/models"
	"course_web/internal/service"
)

// CourseHandler 處理與課程相關的請求
type CourseHandler struct {
	courseService *service.CourseService
}

// NewCourseHandler 創建一個新的 CourseHandler 實例
func NewCourseHandler(courseService *service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// ListCourses 處理獲取課程列表的請求
func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.courseService.ListCourses()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "無法搜尋課程列表"})
		return
	}

	c.JSON(http.StatusOK, courses)
}

// CreateCourse 處理創建新課程的請求
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var input struct {
		Title       string  `json:"title" binding:"required"`
		Description string  `json:"description"`
		Category    string  `json:"category"`
		Level       string  `json:"level"`
		Price       float64 `json:"price"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, _ := c.Get("userRole")
	if role != string(models.RoleInstructor) && role != string(models.RoleAdmin) {
		c.JSON(http.StatusForbidden, gin.H{"error": "只有講師能創建課程"})
		return
	}

	userID, _ := c.Get("userID")
	course := models.Course{
		Title:        input.Title,
		Description:  input.Description,
		InstructorID: userID.(uint),
		Category:     input.Category,
		Level:        models.CourseLevel(input.Level),
		Price:        input.Price,
	}
	if course.Level == "" {
		course.Level = models.LevelBeginner
	}

	if err := h.courseService.CreateCourse(&course); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "創建課程失敗"})
		return
	}

	c.JSON(http.StatusCreated, course)
}

// GetCourse 處理獲取課程訊息的請求
func (h *CourseHandler) GetCourse(c *gin.Context) {
	courseID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的課程 ID"})
		return
	}

	course, err := h.courseService.GetCourse(uint(courseID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "課程不存在"})
		return
	}

	c.JSON(http.StatusOK, course)
}

// UpdateCourse 處理更新課程的請求
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	courseID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的課程 ID"})
		return
	}

	var input struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Category    string   `json:"category"`
		Level       string   `json:"level"`
		Price       *float64 `json:"price"`
		IsPublished *bool    `json:"is_published"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("userID")
	course, err := h.courseService.UpdateCourse(uint(courseID), userID.(uint), func(course *models.Course) {
		if input.Title != "" {
			course.Title = input.Title
		}
		if input.Description != "" {
			course.Description = input.Description
		}
		if input.Category != "" {
			course.Category = input.Category
		}
		if input.Level != "" {
			course.Level = models.CourseLevel(input.Level)
		}
		if input.Price != nil {
			course.Price = *input.Price
		}
		if input.IsPublished != nil {
			course.IsPublished = *input.IsPublished
		}
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, course)
}

// DeleteCourse 處理刪除課程的請求
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	courseID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的課程 ID"})
		return
	}

	userID, _ := c.Get("userID")
	if err := h.courseService.DeleteCourse(uint(courseID), userID.(uint)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "課程已刪除"})
}

// Enroll 處理選修課程的請求
func (h *CourseHandler) Enroll(c *gin.Context) {
	courseID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的課程 ID"})
		return
	}

	userID, _ := c.Get("userID")
	if err := h.courseService.Enroll(uint(courseID), userID.(uint)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "選課成功"})
}

// ListLectures 處理獲取課程講座列表的請求
func (h *CourseHandler) ListLectures(c *gin.Context) {
	courseID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的課程 ID"})
		return
	}

	lectures, err := h.courseService.ListLectures(uint(courseID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "無法搜尋講座列表"})
		return
	}

	c.JSON(http.StatusOK, lectures)
}

// CreateLecture 處理新增講座的請求
func (h *CourseHandler) CreateLecture(c *gin.Context) {
	courseID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的課程 ID"})
		return
	}

	var input struct {
		Title    string `json:"title" binding:"required"`
		VideoURL string `json:"video_url"`
		Duration int    `json:"duration"`
		Position int    `json:"position"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("userID")
	lecture := models.Lecture{
		CourseID: uint(courseID),
		Title:    input.Title,
		VideoURL: input.VideoURL,
		Duration: input.Duration,
		Position: input.Position,
	}
	if err := h.courseService.AddLecture(&lecture, userID.(uint)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, lecture)
}

// ListAssignments 處理獲取課程作業列表的請求
func (h *CourseHandler) ListAssignments(c *gin.Context) {
	courseID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的課程 ID"})
		return
	}

	assignments, err := h.courseService.ListAssignments(uint(courseID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "無法搜尋作業列表"})
		return
	}

	c.JSON(http.StatusOK, assignments)
}

// CreateAssignment 處理新增作業的請求
func (h *CourseHandler) CreateAssignment(c *gin.Context) {
	courseID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的課程 ID"})
		return
	}

	var input struct {
		Title       string    `json:"title" binding:"required"`
		Description string    `json:"description"`
		DueDate     time.Time `json:"due_date"`
		Points      int       `json:"points"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("userID")
	assignment := models.Assignment{
		CourseID:    uint(courseID),
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Points:      input.Points,
	}
	if assignment.Points == 0 {
		assignment.Points = 100
	}
	if err := h.courseService.AddAssignment(&assignment, userID.(uint)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, assignment)
}
