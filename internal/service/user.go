package service

import (
	"errors"

	"course_web/internal/models"
	"course_web/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) CreateUser(user *models.User) error {
	return s.userRepo.Create(user)
}

func (s *UserService) GetUser(id uint) (*models.User, error) {
	return s.userRepo.FindByID(id)
}

func (s *UserService) GetUserByUsername(username string) (*models.User, error) {
	return s.userRepo.FindByUsername(username)
}

// ListUsers 列出所有用戶，role 非空時只列該角色
func (s *UserService) ListUsers(role string) ([]models.User, error) {
	return s.userRepo.FindAll(role)
}

// CountByRole 統計用戶數
func (s *UserService) CountByRole(role string) (int64, error) {
	return s.userRepo.CountByRole(role)
}

// UpdateUserInput 定義用戶資料更新的欄位，空值表示不修改
type UpdateUserInput struct {
	Name string
	Role string
}

// GetProfile 獲取用戶資料，只有管理員或本人能查看
func (s *UserService) GetProfile(targetID, actorID uint, actorRole string) (*models.User, error) {
	if actorRole != string(models.RoleAdmin) && actorID != targetID {
		return nil, errors.New("無權查看該用戶資料")
	}
	return s.userRepo.FindByID(targetID)
}

// UpdateUser 更新用戶資料，只有管理員或本人能修改，角色只有管理員能改
func (s *UserService) UpdateUser(targetID, actorID uint, actorRole string, input UpdateUserInput) (*models.User, error) {
	if actorRole != string(models.RoleAdmin) && actorID != targetID {
		return nil, errors.New("無權修改該用戶資料")
	}
	if input.Role != "" && actorRole != string(models.RoleAdmin) {
		return nil, errors.New("只有管理員能修改用戶角色")
	}

	user, err := s.userRepo.FindByID(targetID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Role != "" {
		user.Role = models.UserRole(input.Role)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ToggleActive 切換用戶的啟用狀態，停用的帳號無法登入
func (s *UserService) ToggleActive(targetID uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(targetID)
	if err != nil {
		return nil, err
	}

	user.IsActive = !user.IsActive
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser 刪除用戶，管理員不能刪除自己的帳號
func (s *UserService) DeleteUser(targetID, actorID uint) error {
	if targetID == actorID {
		return errors.New("不能刪除自己的帳號")
	}
	if _, err := s.userRepo.FindByID(targetID); err != nil {
		return err
	}
	return s.userRepo.Delete(targetID)
}
