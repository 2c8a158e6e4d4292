package service

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"time"

	"growth_journal_backend/internal/model"
	"growth_journal_backend/internal/repository"
	"growth_journal_backend/internal/util"
	"growth_journal_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	leaderboardCacheKey = "leaderboard:points"
	leaderboardCacheTTL = 5 * time.Minute
)

// LeaderboardEntry 排行榜条目，只暴露展示字段
type LeaderboardEntry struct {
	UserID      uint   `json:"userId"`
	Name        string `json:"name"`
	Avatar      string `json:"avatar"`
	TotalPoints int    `json:"totalPoints"`
	Level       int    `json:"level"`
	StreakCount int    `json:"streakCount"`
}

// UpdateProfileInput 个人资料更新字段
type UpdateProfileInput struct {
	Name *string `json:"name" binding:"omitempty,min=1,max=100"`
}

// UserService 用户资料与管理
type UserService struct {
	users   *repository.UserRepository
	storage *StorageService
	rdb     *redis.Client
}

func NewUserService(users *repository.UserRepository, storage *StorageService, rdb *redis.Client) *UserService {
	return &UserService{users: users, storage: storage, rdb: rdb}
}

func (s *UserService) GetByID(id uint) (*model.User, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateProfile(id uint, input *UpdateProfileInput) (*model.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		user.Name = *input.Name
	}
	if err := s.users.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ChangePassword(id uint, oldPassword, newPassword string) error {
	user, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return errors.New("原密码错误")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	return s.users.Update(user)
}

// UploadAvatar 上传头像并更新用户资料
func (s *UserService) UploadAvatar(ctx context.Context, userID uint, file *multipart.FileHeader) (string, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return "", err
	}

	url, err := s.storage.SaveAvatar(ctx, userID, file)
	if err != nil {
		return "", err
	}

	user.Avatar = url
	if err := s.users.Update(user); err != nil {
		return "", err
	}
	return url, nil
}

// Leaderboard 积分排行榜。读的是用户行上的展示缓存字段，
// 结果再套一层redis短缓存，两层都不参与权威计算
func (s *UserService) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, leaderboardCacheKey).Result(); err == nil {
			var entries []LeaderboardEntry
			if jerr := json.Unmarshal([]byte(cached), &entries); jerr == nil && len(entries) >= limit {
				return entries[:limit], nil
			}
		}
	}

	users, err := s.users.FindTopByPoints(100)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, LeaderboardEntry{
			UserID:      u.ID,
			Name:        u.Name,
			Avatar:      u.Avatar,
			TotalPoints: u.TotalPoints,
			Level:       u.Level,
			StreakCount: u.StreakCount,
		})
	}

	if s.rdb != nil {
		if data, jerr := json.Marshal(entries); jerr == nil {
			if err := s.rdb.Set(ctx, leaderboardCacheKey, data, leaderboardCacheTTL).Err(); err != nil {
				logger.Log.Warn("排行榜缓存写入失败", zap.Error(err))
			}
		}
	}

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// List 管理端用户列表
func (s *UserService) List(page, pageSize int, keyword string) ([]model.User, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return s.users.List((page-1)*pageSize, pageSize, keyword)
}

func (s *UserService) SetDisabled(id uint, disabled bool) error {
	user, err := s.GetByID(id)
	if err != nil {
		return err
	}
	user.Disabled = disabled
	return s.users.Update(user)
}

func (s *UserService) SetRole(id uint, role model.UserRole) error {
	user, err := s.GetByID(id)
	if err != nil {
		return err
	}
	user.Role = role
	return s.users.Update(user)
}

func (s *UserService) TouchLastSeen(id uint) {
	if err := s.users.UpdateLastSeen(id); err != nil {
		logger.Log.Debug("更新最后活跃时间失败", zap.Uint("userId", id), zap.Error(err))
	}
}
