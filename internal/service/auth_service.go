package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"voice-notes-be/internal/dto"
	"voice-notes-be/internal/entity"
	"voice-notes-be/internal/pkg/apperror"
	"voice-notes-be/internal/pkg/logger"
	"voice-notes-be/internal/repository/specification"
	"voice-notes-be/internal/repository/unitofwork"
	"voice-notes-be/pkg/token"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Me(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error)
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	tokens     *token.Manager
	userCache  *cache.Cache
	logger     logger.ILogger
	hashCost   int
}

// NewAuthService wires the account flows. userCache may be nil to disable caching of profile lookups.
func NewAuthService(uowFactory unitofwork.RepositoryFactory, tokens *token.Manager, userCache *cache.Cache, logger logger.ILogger) IAuthService {
	return &authService{
		uowFactory: uowFactory,
		tokens:     tokens,
		userCache:  userCache,
		logger:     logger,
		hashCost:   bcrypt.DefaultCost,
	}
}

const maxPasswordBytes = 72

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	uow := s.uowFactory.NewUnitOfWork(ctx)

	count, err := uow.UserRepository().Count(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if count > 0 {
		return nil, apperror.Conflict("email already registered")
	}

	// bcrypt limits by bytes, the validator counts runes
	if len(req.Password) > maxPasswordBytes {
		return nil, apperror.Validation("password must be at most 72 bytes")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apperror.Validation("password must be at most 72 bytes")
		}
		return nil, err
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	user := &entity.User{
		Id:           uuid.New(),
		Username:     strings.TrimSpace(req.Username),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		// lost a race with a concurrent signup
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("email already registered")
		}
		return nil, apperror.Persistence(err)
	}

	s.logger.Info("AuthService", "user registered", map[string]interface{}{"user_id": user.Id.String()})

	res := toUserResponse(user)
	return &res, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if user == nil {
		return nil, apperror.Auth("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.Auth("invalid email or password")
	}

	signed, expiresAt, err := s.tokens.Issue(user.Id)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
		User:      toUserResponse(user),
	}, nil
}

func (s *authService) Me(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error) {
	cacheKey := "user:" + userId.String()
	if s.userCache != nil {
		if cached, ok := s.userCache.Get(cacheKey); ok {
			res := cached.(dto.UserResponse)
			return &res, nil
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}

	res := toUserResponse(user)
	if s.userCache != nil {
		s.userCache.SetDefault(cacheKey, res)
	}
	return &res, nil
}

func toUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		Id:        u.Id,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
