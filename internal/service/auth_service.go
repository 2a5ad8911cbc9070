package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lshigami/proctorexam/config"
	"github.com/lshigami/proctorexam/internal/dto"
	"github.com/lshigami/proctorexam/internal/model"
	"github.com/lshigami/proctorexam/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// Claims is the JWT payload issued at login.
type Claims struct {
	UserID   uint       `json:"uid"`
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	// Login authenticates a user of the given role. A valid user of another
	// role is rejected like a wrong password.
	Login(ctx context.Context, req dto.LoginRequest, role model.Role) (*dto.AuthResponse, error)
	EnsureAdmin(ctx context.Context, username, password string) error
	ValidateToken(token string) (*Claims, error)
}

type authService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	ttl := cfg.Auth.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &authService{userRepo: userRepo, jwtSecret: []byte(cfg.Auth.JWTSecret), tokenTTL: ttl}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, invalidInput("Username and password are required.")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{Username: username, PasswordHash: string(hash), Role: model.RoleStudent}
	created, err := s.userRepo.CreateIfAbsent(ctx, &user)
	if err != nil {
		log.Error().Err(err).Str("username", username).Msg("Register: failed to create user")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if !created {
		return nil, conflict("Username %s is already taken.", username)
	}
	log.Info().Uint("userID", user.ID).Str("username", username).Msg("Register: student registered")
	return s.issue(&user)
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest, role model.Role) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil || user.Role != role {
		return nil, fmt.Errorf("%w: Invalid credentials.", ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: Invalid credentials.", ErrUnauthorized)
	}
	return s.issue(user)
}

func (s *authService) EnsureAdmin(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		log.Info().Msg("EnsureAdmin: ADMIN_USERNAME/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	admin := model.User{Username: username, PasswordHash: string(hash), Role: model.RoleAdmin}
	created, err := s.userRepo.CreateIfAbsent(ctx, &admin)
	if err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	if created {
		log.Info().Str("username", username).Msg("EnsureAdmin: admin account created")
	} else {
		log.Info().Str("username", username).Msg("EnsureAdmin: account already exists")
	}
	return nil
}

func (s *authService) issue(user *model.User) (*dto.AuthResponse, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &dto.AuthResponse{Token: token, Username: user.Username, Role: string(user.Role)}, nil
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: invalid or expired token", ErrUnauthorized)
	}
	if claims.UserID == 0 {
		return nil, fmt.Errorf("%w: token carries no user", ErrUnauthorized)
	}
	return claims, nil
}
