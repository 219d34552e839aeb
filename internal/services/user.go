package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/thesurvey/api/internal/apperrors"
	"github.com/thesurvey/api/internal/data/repos"
	"github.com/thesurvey/api/internal/domain"
	"github.com/thesurvey/api/internal/platform/dbctx"
	"github.com/thesurvey/api/internal/platform/logger"
	"github.com/thesurvey/api/internal/utils"
)

type RegisterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
}

type ProfileResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phone_number"`
	Address     string    `json:"address"`
	Point       int       `json:"point"`
	CreatedAt   time.Time `json:"created_at"`
}

type UserService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.User, error)
	Profile(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error)
	PointHistory(ctx context.Context, userID uuid.UUID) ([]*domain.PointHistory, error)
}

type userService struct {
	db     *gorm.DB
	log    *logger.Logger
	users  repos.UserRepo
	points PointHistoryService
}

func NewUserService(db *gorm.DB, users repos.UserRepo, points PointHistoryService, baseLog *logger.Logger) UserService {
	return &userService{
		db:     db,
		log:    baseLog.With("service", "UserService"),
		users:  users,
		points: points,
	}
}

// Register creates the user and writes their registration bonus as the first
// ledger entry, atomically. A user row without a ledger row would have no
// balance at all, so the two go in one transaction.
func (s *userService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	req.Name = utils.Trim(req.Name)
	req.Email = strings.ToLower(utils.Trim(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, apperrors.New(apperrors.KindValidation, "register_fields_required", "name, email and password are required")
	}

	exists, err := s.users.EmailExists(dbctx.Context{Ctx: ctx}, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:          uuid.New(),
		Email:       req.Email,
		Password:    string(hashed),
		Name:        req.Name,
		PhoneNumber: utils.Trim(req.PhoneNumber),
		Address:     utils.Trim(req.Address),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := s.users.Create(txc, user); err != nil {
			return err
		}
		_, err := s.points.Append(txc, user.ID, domain.UserInitialPoint)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("user registered", "user_id", user.ID)
	return user, nil
}

func (s *userService) Profile(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error) {
	dbc := dbctx.Context{Ctx: ctx}
	user, err := s.users.GetByID(dbc, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}
	balance, err := s.points.CurrentBalance(dbc, userID)
	if err != nil {
		return nil, err
	}
	return &ProfileResponse{
		UserID:      user.ID,
		Email:       user.Email,
		Name:        user.Name,
		PhoneNumber: user.PhoneNumber,
		Address:     user.Address,
		Point:       balance,
		CreatedAt:   user.CreatedAt,
	}, nil
}

func (s *userService) PointHistory(ctx context.Context, userID uuid.UUID) ([]*domain.PointHistory, error) {
	return s.points.History(dbctx.Context{Ctx: ctx}, userID)
}
