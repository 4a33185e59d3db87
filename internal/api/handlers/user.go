package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"course_web/internal/models"
	"course_web/internal/service"
)

// UserHandler 處理與用戶管理相關的請求
type UserHandler struct {
	userService   *service.UserService
	courseService *service.CourseService
}

// NewUserHandler 創建一個新的 UserHandler 實例
func NewUserHandler(userService *service.UserService, courseService *service.CourseService) *UserHandler {
	return &UserHandler{
		userService:   userService,
		courseService: courseService,
	}
}

func isAdmin(c *gin.Context) bool {
	role, _ := c.Get("userRole")
	return role == string(models.RoleAdmin)
}

// ListUsers 處理獲取用戶列表的請求，僅限管理員
func (h *UserHandler) ListUsers(c *gin.Context) {
	if !isAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "只有管理員能查看用戶列表"})
		return
	}

	users, err := h.userService.ListUsers(c.Query("role"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "無法搜尋用戶列表"})
		return
	}

	c.JSON(http.StatusOK, users)
}

// GetUser 處理獲取用戶資料的請求，限管理員或本人
func (h *UserHandler) GetUser(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的用戶 ID"})
		return
	}

	userID, _ := c.Get("userID")
	role, _ := c.Get("userRole")
	user, err := h.userService.GetProfile(uint(targetID), userID.(uint), role.(string))
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUser 處理更新用戶資料的請求，限管理員或本人，角色只有管理員能改
func (h *UserHandler) UpdateUser(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的用戶 ID"})
		return
	}

	var input struct {
		Name string `json:"name"`
		Role string `json:"role"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("userID")
	role, _ := c.Get("userRole")
	user, err := h.userService.UpdateUser(uint(targetID), userID.(uint), role.(string), service.UpdateUserInput{
		Name: input.Name,
		Role: input.Role,
	})
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}

// ToggleUserStatus 處理切換用戶啟用狀態的請求，僅限管理員
func (h *UserHandler) ToggleUserStatus(c *gin.Context) {
	if !isAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "只有管理員能停用用戶"})
		return
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的用戶 ID"})
		return
	}

	user, err := h.userService.ToggleActive(uint(targetID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "用戶不存在"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser 處理刪除用戶的請求，僅限管理員，且不能刪除自己
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if !isAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "只有管理員能刪除用戶"})
		return
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的用戶 ID"})
		return
	}

	userID, _ := c.Get("userID")
	if err := h.userService.DeleteUser(uint(targetID), userID.(uint)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "用戶已刪除"})
}

// StatsOverview 處理獲取平台統計數據的請求，僅限管理員
func (h *UserHandler) StatsOverview(c *gin.Context) {
	if !isAdmin(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "只有管理員能查看統計數據"})
		return
	}

	totalUsers, err := h.userService.CountByRole("")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "無法搜尋統計數據"})
		return
	}
	totalStudents, err := h.userService.CountByRole(string(models.RoleStudent))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "無法搜尋統計數據"})
		return
	}
	totalInstructors, err := h.userService.CountByRole(string(models.RoleInstructor))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "無法搜尋統計數據"})
		return
	}
	courseStats, err := h.courseService.Stats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "無法搜尋統計數據"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"totalUsers":       totalUsers,
		"totalStudents":    totalStudents,
		"totalInstructors": totalInstructors,
		"totalCourses":     courseStats.TotalCourses,
		"publishedCourses": courseStats.PublishedCourses,
		"totalEnrollments": courseStats.TotalEnrollments,
	})
}
