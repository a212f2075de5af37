package service

import (
	"context"
	"fmt"
	"time"

	"github.com/LaTashkhat17/Inventory-Management-System/internal/config"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/dto"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/model"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// Principal is the authenticated caller.
type Principal struct {
	Username string
	Role     string
}

// JWTClaims is the access token payload. Subject carries the username.
type JWTClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Authenticate(token string) (*Principal, error)
	VerifyRole(p *Principal, roles ...string) error
	EnsureDefaultAdmin(ctx context.Context, username, password string) error
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error)
	ListUsers(ctx context.Context) ([]dto.UserResponse, error)
}

type authService struct {
	repo repository.UserRepository
	cfg  *config.Config
	now  func() time.Time
}

func NewAuthService(repo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg, now: time.Now}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		if !repository.IsNotFound(err) {
			return nil, persistence("login", err)
		}
		return nil, &AuthenticationError{Msg: "Invalid username or password"}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, &AuthenticationError{Msg: "Invalid username or password"}
	}
	if user.Role != req.Role {
		return nil, &AuthorizationError{Msg: "Invalid role"}
	}

	ttl := time.Duration(s.cfg.JWTExpirationHours) * time.Hour
	token, err := s.generateToken(user, ttl)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		Role:        user.Role,
		ExpiresIn:   int(ttl.Seconds()),
	}, nil
}

func (s *authService) Authenticate(tokenStr string) (*Principal, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, &AuthenticationError{Msg: "Invalid authentication credentials"}
	}
	if claims.Subject == "" || claims.Role == "" {
		return nil, &AuthenticationError{Msg: "Invalid authentication credentials"}
	}
	return &Principal{Username: claims.Subject, Role: claims.Role}, nil
}

func (s *authService) VerifyRole(p *Principal, roles ...string) error {
	if p == nil {
		return &AuthenticationError{Msg: "Not authenticated"}
	}
	for _, r := range roles {
		if p.Role == r {
			return nil
		}
	}
	return &AuthorizationError{Msg: "Insufficient permissions"}
}

// EnsureDefaultAdmin creates the bootstrap admin account when it does not exist yet.
func (s *authService) EnsureDefaultAdmin(ctx context.Context, username, password string) error {
	_, err := s.repo.FindByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !repository.IsNotFound(err) {
		return persistence("ensure default admin", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	u := &model.User{Username: username, PasswordHash: string(hash), Role: model.RoleAdmin, Active: true}
	if err := s.repo.Create(ctx, u); err != nil {
		return persistence("ensure default admin", err)
	}
	log.Info().Str("username", username).Msg("default admin user created")
	return nil
}

func (s *authService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{Username: req.Username, PasswordHash: string(hash), Role: req.Role, Active: true}
	if err := s.repo.Create(ctx, u); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, newValidation("username %q already exists", req.Username)
		}
		return nil, persistence("create user", err)
	}
	resp := userToResponse(u)
	return &resp, nil
}

func (s *authService) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, persistence("list users", err)
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, userToResponse(&users[i]))
	}
	return out, nil
}

func (s *authService) generateToken(user *model.User, ttl time.Duration) (string, error) {
	now := s.now()
	claims := JWTClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func userToResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}
