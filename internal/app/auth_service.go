package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"warbler/internal/model"
	"warbler/internal/pkg/jwtutil"
)

type AuthService struct {
	userStore        UserStore
	jwtSecret        string
	jwtExpiration    time.Duration
	defaultImageURL  string
	defaultHeaderURL string
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	ImageURL string
}

type LoginInput struct {
	Username string
	Password string
}

type AuthResult struct {
	Token string
	User  *model.User
}

func NewAuthService(userStore UserStore, jwtSecret string, jwtExpiration time.Duration, defaultImageURL, defaultHeaderURL string) *AuthService {
	if defaultImageURL == "" {
		defaultImageURL = model.DefaultImageURL
	}
	if defaultHeaderURL == "" {
		defaultHeaderURL = model.DefaultHeaderImageURL
	}
	return &AuthService{
		userStore:        userStore,
		jwtSecret:        jwtSecret,
		jwtExpiration:    jwtExpiration,
		defaultImageURL:  defaultImageURL,
		defaultHeaderURL: defaultHeaderURL,
	}
}

// Register creates the account and signs the caller in. Uniqueness of
// username and email is not pre-checked: the insert is attempted and a
// duplicate-key violation from the store maps to ErrDuplicateAccount.
func (s *AuthService) Register(input RegisterInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := strings.TrimSpace(input.Password)

	if username == "" || email == "" || len(password) < 8 {
		return nil, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	imageURL := strings.TrimSpace(input.ImageURL)
	if imageURL == "" {
		imageURL = s.defaultImageURL
	}

	user := &model.User{
		Username:       username,
		Email:          email,
		PasswordHash:   string(hash),
		ImageURL:       imageURL,
		HeaderImageURL: s.defaultHeaderURL,
	}
	if err := s.userStore.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateAccount
		}
		return nil, err
	}

	token, err := jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// Login returns ErrInvalidCredential for an unknown username and for a
// wrong password alike; callers cannot tell which one it was.
func (s *AuthService) Login(input LoginInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	password := strings.TrimSpace(input.Password)
	if username == "" || password == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.userStore.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredential
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredential
	}

	token, err := jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) GetUserByID(id uint) (*model.User, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	return s.userStore.GetByID(id)
}
