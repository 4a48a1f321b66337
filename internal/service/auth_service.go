package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"employee-management/internal/config"
	"employee-management/internal/dto"
	"employee-management/internal/model"
	"employee-management/internal/repository"
	"employee-management/pkg/apperror"
	"employee-management/pkg/storage"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// PictureFile represents an uploaded profile picture.
type PictureFile struct {
	Reader   io.Reader
	FileName string
}

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, input dto.LoginRequest) (*dto.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	ChangePassword(ctx context.Context, userID uuid.UUID, input dto.ChangePasswordRequest) error
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileRequest, picture *PictureFile) (*model.User, error)
}

type authService struct {
	repo        repository.UserRepository
	fileStorage storage.FileStorage
	rdb         *redis.Client
	secret      string
	accessTTL   time.Duration
	refreshTTL  time.Duration
	loginLock   time.Duration
	defaultRole string
}

func NewAuthService(repo repository.UserRepository, fileStorage storage.FileStorage, rdb *redis.Client, cfg *config.Config) AuthService {
	return &authService{
		repo:        repo,
		fileStorage: fileStorage,
		rdb:         rdb,
		secret:      cfg.JWTSecret,
		accessTTL:   cfg.AccessTTL,
		refreshTTL:  cfg.RefreshTTL,
		loginLock:   cfg.RateLimitLogin,
		defaultRole: "staff",
	}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterRequest) (*dto.AuthResponse, error) {
	if _, err := s.repo.FindByUsername(ctx, input.Username); err == nil {
		return nil, apperror.NewValidation("username", "username already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperror.NewValidation("email", "email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
	}

	if role, err := s.repo.FindRoleByName(ctx, s.defaultRole); err == nil {
		user.RoleID = &role.ID
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueTokens(ctx, user)
}

func (s *authService) Login(ctx context.Context, input dto.LoginRequest) (*dto.AuthResponse, error) {
	if ttl, err := GetRateLimitTTL(ctx, s.rdb, input.Username, "login_fail"); err == nil && ttl > 0 {
		return nil, apperror.ErrRateLimitExceeded
	}

	user, err := s.repo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		// Lock further attempts for this account until the window expires.
		if _, rlErr := CheckAndSetRateLimit(ctx, s.rdb, input.Username, "login_fail", s.loginLock); rlErr != nil {
			log.Printf("failed to set login rate limit: %v", rlErr)
		}
		return nil, apperror.ErrUnauthorized
	}

	if err := ClearRateLimit(ctx, s.rdb, input.Username, "login_fail"); err != nil {
		log.Printf("failed to clear login rate limit: %v", err)
	}

	return s.issueTokens(ctx, user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	claims, err := s.parseToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	if s.rdb != nil {
		storedUserID, err := s.rdb.Get(ctx, refreshKey(claims.ID)).Result()
		if err != nil || storedUserID != claims.Subject {
			return nil, apperror.ErrUnauthorized
		}

		// Rotation: the old refresh token is revoked as part of the exchange.
		if err := s.rdb.Del(ctx, refreshKey(claims.ID)).Err(); err != nil {
			log.Printf("failed to revoke refresh token: %v", err)
		}
	}

	user, err := s.repo.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	return s.issueTokens(ctx, user)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.parseToken(refreshToken)
	if err != nil {
		return apperror.ErrUnauthorized
	}

	if s.rdb != nil {
		if err := s.rdb.Del(ctx, refreshKey(claims.ID)).Err(); err != nil {
			return fmt.Errorf("failed to revoke refresh token: %w", err)
		}
	}

	return nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, input dto.ChangePasswordRequest) error {
	user, err := s.repo.FindByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.OldPassword)); err != nil {
		return apperror.NewValidation("old_password", "current password is incorrect")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = string(hashedPassword)
	return s.repo.Update(ctx, user)
}

func (s *authService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	return user, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileRequest, picture *PictureFile) (*model.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Email != nil && *input.Email != user.Email {
		if _, err := s.repo.FindByEmail(ctx, *input.Email); err == nil {
			return nil, apperror.NewValidation("email", "email already exists")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		user.Email = *input.Email
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = input.PhoneNumber
	}
	if input.Address != nil {
		user.Address = input.Address
	}
	if input.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *input.DateOfBirth)
		if err != nil {
			return nil, apperror.NewValidation("date_of_birth", "must be a date in YYYY-MM-DD format")
		}
		user.DateOfBirth = &dob
	}

	if picture != nil && s.fileStorage != nil {
		url, err := s.fileStorage.UploadFile(ctx, picture.Reader, "profile_pics", picture.FileName)
		if err != nil {
			return nil, fmt.Errorf("failed to upload profile picture: %w", err)
		}

		if user.ProfilePictureURL != nil {
			if err := s.fileStorage.DeleteFile(ctx, *user.ProfilePictureURL); err != nil {
				log.Printf("failed to delete old profile picture: %v", err)
			}
		}
		user.ProfilePictureURL = &url
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}

func (s *authService) issueTokens(ctx context.Context, user *model.User) (*dto.AuthResponse, error) {
	now := time.Now()

	accessClaims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString([]byte(s.secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	jti := uuid.NewString()
	refreshClaims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		ID:        jti,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString([]byte(s.secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	if s.rdb != nil {
		if err := s.rdb.Set(ctx, refreshKey(jti), user.ID.String(), s.refreshTTL).Err(); err != nil {
			return nil, fmt.Errorf("failed to store refresh token: %w", err)
		}
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
		User:         user,
	}, nil
}

func (s *authService) parseToken(tokenString string) (*jwt.RegisteredClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		return nil, apperror.ErrUnauthorized
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return nil, apperror.ErrUnauthorized
	}

	return claims, nil
}

func refreshKey(jti string) string {
	return "refresh_token:" + jti
}
