package services

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/thesurvey/api/internal/apperrors"
	"github.com/thesurvey/api/internal/data/repos"
	"github.com/thesurvey/api/internal/domain"
	"github.com/thesurvey/api/internal/platform/dbctx"
	"github.com/thesurvey/api/internal/platform/logger"
	"github.com/thesurvey/api/internal/utils"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// ParseToken validates an access token and returns the user id it was
	// issued to.
	ParseToken(token string) (uuid.UUID, error)
}

type authService struct {
	users  repos.UserRepo
	log    *logger.Logger
	secret []byte
	ttl    time.Duration
}

func NewAuthService(users repos.UserRepo, secret string, ttl time.Duration, baseLog *logger.Logger) AuthService {
	return &authService{
		users:  users,
		log:    baseLog.With("service", "AuthService"),
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.ToLower(utils.Trim(email))
	user, err := s.users.GetByEmail(dbctx.Context{Ctx: ctx}, email)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, err
	}
	s.log.Info("user logged in", "user_id", user.ID)
	return token, user, nil
}

func (s *authService) ParseToken(token string) (uuid.UUID, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, apperrors.ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return uuid.Nil, apperrors.ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, apperrors.ErrInvalidToken
	}
	return userID, nil
}
