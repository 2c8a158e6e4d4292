package service

import (
	"net/http/httptest"
	"testing"

	"growth_journal_backend/internal/config"
	"growth_journal_backend/internal/model"
	"growth_journal_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memUserStore struct {
	users  map[uint]*model.User
	nextID uint
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[uint]*model.User), nextID: 1}
}

func (s *memUserStore) Create(user *model.User) error {
	if user.ID == 0 {
		user.ID = s.nextID
		s.nextID++
	}
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *memUserStore) FindByEmail(email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memUserStore) FindByID(id uint) (*model.User, error) {
	if u, ok := s.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memUserStore) UpdateLastLogin(userID uint) error {
	return nil
}

func newTestAuthService(store *memUserStore) *AuthService {
	return NewAuthService(store, nil, nil, &config.Config{})
}

func authedContext(claims *util.Claims) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if claims != nil {
		c.Set("user", claims)
	}
	return c
}

func TestGetCurrentUser_Found(t *testing.T) {
	store := newMemUserStore()
	svc := newTestAuthService(store)

	require.NoError(t, store.Create(&model.User{Name: "小王", Email: "wang@example.com"}))

	user := svc.GetCurrentUser(authedContext(&util.Claims{UserID: 1}))
	require.NotNil(t, user)
	assert.Equal(t, "wang@example.com", user.Email)
}

func TestGetCurrentUser_DeletedAccount(t *testing.T) {
	svc := newTestAuthService(newMemUserStore())

	// 令牌仍有效但账号已不存在，必须按未登录处理而不是返回空用户
	user := svc.GetCurrentUser(authedContext(&util.Claims{UserID: 99}))
	assert.Nil(t, user)
}

func TestGetCurrentUser_NoClaims(t *testing.T) {
	svc := newTestAuthService(newMemUserStore())

	user := svc.GetCurrentUser(authedContext(nil))
	assert.Nil(t, user)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	store := newMemUserStore()
	svc := newTestAuthService(store)

	_, err := svc.Register("小李", "li@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Register("李四", "li@example.com", "password456")
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}
