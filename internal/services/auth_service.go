package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"restoran/internal/models"
	"restoran/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many failed login attempts, try again later")
	ErrEmailTaken         = errors.New("email already registered")
	ErrMobileTaken        = errors.New("mobile number already registered")
	ErrInvalidToken       = errors.New("invalid token")
)

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo   repositories.UserRepository
	limiter    *LoginLimiter
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
	logger     *zap.SugaredLogger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, limiter *LoginLimiter, jwtSecret string, tokenTTL time.Duration, logger *zap.SugaredLogger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		userRepo:   userRepo,
		limiter:    limiter,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: tokenTTL,
		logger:     logger,
	}
}

// RegisterUser hashes the password and saves a new password user.
func (s *AuthService) RegisterUser(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	email := NormalizeEmail(req.Email)
	if err := s.ensureAvailable(ctx, email, req.MobileNumber); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:    &email,
		FullName: req.FullName,
		Password: string(hashedPassword),
	}
	if mobile := strings.TrimSpace(req.MobileNumber); mobile != "" {
		user.MobileNumber = &mobile
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	s.logger.Infow("user registered", "user_id", user.ID)
	return user, nil
}

// Login authenticates with email+password, or identifies a customer by mobile+name.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.User, string, error) {
	var (
		user *models.User
		err  error
	)
	if req.Email != "" {
		user, err = s.loginWithPassword(ctx, NormalizeEmail(req.Email), req.Password)
	} else {
		user, err = s.loginWithMobile(ctx, req.MobileNumber, req.FullName)
	}
	if err != nil {
		return nil, "", err
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) loginWithPassword(ctx context.Context, email, password string) (*models.User, error) {
	if s.limiter != nil && !s.limiter.Allowed(email) {
		s.logger.Warnw("login blocked by limiter", "email", email)
		return nil, ErrTooManyAttempts
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if err != nil || !user.HasPassword() ||
		bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		if s.limiter != nil {
			s.limiter.RecordFailure(email)
		}
		// Don't reveal whether the account exists.
		return nil, ErrInvalidCredentials
	}

	if s.limiter != nil {
		s.limiter.Reset(email)
	}
	return user, nil
}

// loginWithMobile only identifies passwordless customers. Accounts holding a
// password or admin rights must log in with their credentials or an OTP.
func (s *AuthService) loginWithMobile(ctx context.Context, mobile, fullName string) (*models.User, error) {
	user, err := s.FindOrCreateCustomer(ctx, "", mobile, fullName)
	if err != nil {
		return nil, err
	}
	if user.HasPassword() || user.IsAdmin {
		s.logger.Warnw("mobile login refused for protected account", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// FindOrCreateCustomer returns the user owning email or mobile, creating one when absent.
// Email takes precedence when both are given.
func (s *AuthService) FindOrCreateCustomer(ctx context.Context, email, mobile, fullName string) (*models.User, error) {
	email = NormalizeEmail(email)
	mobile = strings.TrimSpace(mobile)

	var (
		user *models.User
		err  error
	)
	switch {
	case email != "":
		user, err = s.userRepo.GetByEmail(ctx, email)
	case mobile != "":
		user, err = s.userRepo.GetByMobile(ctx, mobile)
	default:
		return nil, fmt.Errorf("email or mobile number is required: %w", ErrInvalidCredentials)
	}
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	user = &models.User{FullName: fullName}
	if email != "" {
		user.Email = &email
	}
	if mobile != "" {
		user.MobileNumber = &mobile
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	s.logger.Infow("customer created", "user_id", user.ID)
	return user, nil
}

// SeedAdmin creates the administrator account unless its email is already registered.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password, fullName string) error {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return errors.New("admin email and password are required")
	}
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	admin := &models.User{
		Email:    &email,
		FullName: fullName,
		Password: string(hashedPassword),
		IsAdmin:  true,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	s.logger.Infow("admin user seeded", "email", email)
	return nil
}

// GetUser returns a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// IssueToken signs a JWT for user.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"email":    user.EmailAddress(),
		"is_admin": user.IsAdmin,
		"exp":      time.Now().Add(s.tokenDurat).Unix(),
		"iat":      time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

func (s *AuthService) ensureAvailable(ctx context.Context, email, mobile string) error {
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	if mobile = strings.TrimSpace(mobile); mobile != "" {
		if _, err := s.userRepo.GetByMobile(ctx, mobile); err == nil {
			return ErrMobileTaken
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return err
		}
	}
	return nil
}

// NormalizeEmail lowercases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
