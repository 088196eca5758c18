package service

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/model"
	"github.com/chalasimon/Child-Protection-Case-Management-System-sub001/internal/policy"
	jwtpkg "github.com/chalasimon/Child-Protection-Case-Management-System-sub001/pkg/jwt"
)

type AuthService struct {
	db        *gorm.DB
	jwtSecret string
	jwtExpire int
}

func NewAuthService(db *gorm.DB, jwtSecret string, jwtExpire int) *AuthService {
	return &AuthService{db: db, jwtSecret: jwtSecret, jwtExpire: jwtExpire}
}

// Login verifies credentials and issues a bearer token carrying the role.
func (s *AuthService) Login(email, password string) (*model.User, string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user model.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, "", time.Time{}, fmt.Errorf("40101:invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", time.Time{}, fmt.Errorf("40101:invalid credentials")
	}
	if !user.IsActive {
		return nil, "", time.Time{}, fmt.Errorf("40301:account is deactivated")
	}

	now := time.Now()
	s.db.Model(&user).Update("last_login_at", &now)

	token, expireAt, err := jwtpkg.GenerateToken(s.jwtSecret, user.ID, user.Role, s.jwtExpire)
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("generate token: %w", err)
	}
	return &user, token, expireAt, nil
}

func (s *AuthService) GetUserByID(id uint) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("40401:user not found")
		}
		return nil, err
	}
	return &user, nil
}

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     string
}

func (s *AuthService) CreateUser(in CreateUserInput) (*model.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("40001:name, email and password are required")
	}
	if _, ok := policy.ParseRole(in.Role); !ok {
		return nil, fmt.Errorf("40001:unknown role %q", in.Role)
	}

	var count int64
	s.db.Model(&model.User{}).Where("email = ?", in.Email).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("40001:email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: string(hashed),
		Phone:    in.Phone,
		Role:     in.Role,
		IsActive: true,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) ListUsers(keyword, role string, isActive *bool, page, pageSize int) ([]model.User, int64, error) {
	query := s.db.Model(&model.User{})
	if keyword != "" {
		query = query.Where("name LIKE ? OR email LIKE ?", "%"+keyword+"%", "%"+keyword+"%")
	}
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if isActive != nil {
		query = query.Where("is_active = ?", *isActive)
	}

	var total int64
	query.Count(&total)

	var users []model.User
	if err := query.Order("created_at desc").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *AuthService) UpdateRole(userID uint, role string) (*model.User, error) {
	if _, ok := policy.ParseRole(role); !ok {
		return nil, fmt.Errorf("40001:unknown role %q", role)
	}
	var user model.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("40401:user not found")
		}
		return nil, err
	}
	user.Role = role
	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) SetActive(userID uint, active bool) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("40401:user not found")
		}
		return nil, err
	}
	user.IsActive = active
	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// SeedAdmin creates the initial system_admin account when no user exists.
func (s *AuthService) SeedAdmin(email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	var count int64
	if err := s.db.Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err := s.CreateUser(CreateUserInput{
		Name:     "System Administrator",
		Email:    email,
		Password: password,
		Role:     string(policy.RoleSystemAdmin),
	})
	return err
}
