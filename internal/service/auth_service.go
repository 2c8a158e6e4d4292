package service

import (
	"errors"

	"growth_journal_backend/internal/config"
	"growth_journal_backend/internal/model"
	"growth_journal_backend/internal/util"
	"growth_journal_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LoginResult 登录响应：令牌 + 用户信息 + 自动签到结果
type LoginResult struct {
	Token          string      `json:"token"`
	User           *model.User `json:"user"`
	CheckedInToday bool        `json:"checkedInToday"`
	CheckinCreated bool        `json:"checkinCreated"`
}

type userAccountStore interface {
	Create(user *model.User) error
	FindByEmail(email string) (*model.User, error)
	FindByID(id uint) (*model.User, error)
	UpdateLastLogin(userID uint) error
}

type AuthService struct {
	UserRepo     userAccountStore
	Checkin      *CheckinService
	Gamification *GamificationService
	Cfg          *config.Config
}

func NewAuthService(userRepo userAccountStore, checkin *CheckinService, gamification *GamificationService, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo:     userRepo,
		Checkin:      checkin,
		Gamification: gamification,
		Cfg:          cfg,
	}
}

func (s *AuthService) Register(name, email, password string) (*model.User, error) {
	_, err := s.UserRepo.FindByEmail(email)
	if err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     name,
		Email:    email,
		Password: string(hashedPassword),
		Role:     model.Member,
		Level:    1,
	}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login 校验凭据并签发JWT。登录同时触发当日签到与统计刷新，
// 这两个副作用失败不影响登录本身
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		return nil, errors.New("邮箱或密码错误")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, errors.New("邮箱或密码错误")
	}
	if user.Disabled {
		return nil, errors.New("账号已被禁用")
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	if err := s.UserRepo.UpdateLastLogin(user.ID); err != nil {
		logger.Log.Warn("更新最后登录时间失败", zap.Uint("userId", user.ID), zap.Error(err))
	}

	result := &LoginResult{Token: token, User: user}
	if _, created, cerr := s.Checkin.CheckIn(user.ID); cerr != nil {
		logger.Log.Warn("登录自动签到失败", zap.Uint("userId", user.ID), zap.Error(cerr))
	} else {
		result.CheckedInToday = true
		result.CheckinCreated = created
	}

	s.Gamification.RefreshUserStatsAsync(user.ID)

	return result, nil
}

// GetCurrentUser 根据JWT claims加载用户。用户不存在（如已注销）时返回nil，
// 调用方按未登录处理
func (s *AuthService) GetCurrentUser(c *gin.Context) *model.User {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}
	user, err := s.UserRepo.FindByID(claims.UserID)
	if err != nil {
		return nil
	}
	return user
}
