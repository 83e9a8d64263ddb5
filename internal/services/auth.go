package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mrhason/aitaskify/internal/config"
	"github.com/mrhason/aitaskify/internal/lib/jwt"
	"github.com/mrhason/aitaskify/internal/lib/password"
	"github.com/mrhason/aitaskify/internal/lib/refcode"
	"github.com/mrhason/aitaskify/internal/lib/sl"
	"github.com/mrhason/aitaskify/internal/models"
	"github.com/mrhason/aitaskify/internal/storage/repository"
)

// Ошибки бизнес-логики аутентификации.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPhoneTaken         = errors.New("phone already registered")
	ErrUnknownRefCode     = errors.New("unknown referral code")
	ErrBlocked            = errors.New("account is blocked")
)

// Количество попыток сгенерировать свободный реферальный код.
const refCodeAttempts = 5

// Интерфейс репозитория пользователей для аутентификации.
type AuthRepository interface {
	CreateUser(ctx context.Context, user models.User) (string, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)
	GetUserByRefCode(ctx context.Context, refCode string) (*models.User, error)
}

// AuthService реализует регистрацию, вход и первичное создание администратора.
type AuthService struct {
	users          AuthRepository
	jwtMaker       jwt.Maker
	defaultRefCode string
	log            *slog.Logger
}

// NewAuthService собирает сервис аутентификации. defaultRefCode — код
// администратора, закрепляемый аплайном при регистрации без кода.
func NewAuthService(users AuthRepository, jwtMaker jwt.Maker, defaultRefCode string, log *slog.Logger) *AuthService {
	return &AuthService{
		users:          users,
		jwtMaker:       jwtMaker,
		defaultRefCode: defaultRefCode,
		log:            log,
	}
}

// Register создаёт нового пользователя: проверяет код пригласившего,
// хэширует пароль и подбирает свободный реферальный код. Без кода из
// приглашения аплайном записывается код администратора.
func (s *AuthService) Register(ctx context.Context, req models.DummyRegister) (*models.User, string, error) {
	uplineRefCode := s.defaultRefCode
	if req.UplineRefCode != "" {
		if _, err := s.users.GetUserByRefCode(ctx, req.UplineRefCode); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return nil, "", ErrUnknownRefCode
			}
			return nil, "", err
		}
		uplineRefCode = req.UplineRefCode
	}

	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return nil, "", err
	}

	user := models.User{
		FullName:      req.FullName,
		Phone:         req.Phone,
		Email:         req.Email,
		PasswordHash:  hashed,
		UplineRefCode: uplineRefCode,
		Role:          models.RoleUser,
		AccountType:   models.AccountFree,
	}

	var userID string
	for attempt := 0; attempt < refCodeAttempts; attempt++ {
		user.RefCode, err = refcode.New()
		if err != nil {
			return nil, "", err
		}
		userID, err = s.users.CreateUser(ctx, user)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrDuplicateActive) {
			return nil, "", err
		}
		// Конфликт либо по телефону, либо по сгенерированному коду.
		if _, phoneErr := s.users.GetUserByPhone(ctx, req.Phone); phoneErr == nil {
			return nil, "", ErrPhoneTaken
		}
	}
	if err != nil {
		return nil, "", err
	}

	created, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	token, err := s.jwtMaker.GenerateToken(created.ID, created.Phone, created.Role)
	if err != nil {
		return nil, "", err
	}

	s.log.Info("registered new user", slog.String("user_id", created.ID))
	return created, token, nil
}

// Login проверяет пароль и выдаёт JWT. Заблокированный аккаунт не входит.
func (s *AuthService) Login(ctx context.Context, phone, rawPassword string) (*models.User, string, error) {
	user, err := s.users.GetUserByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if user.IsBlocked {
		return nil, "", ErrBlocked
	}
	token, err := s.jwtMaker.GenerateToken(user.ID, user.Phone, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// EnsureAdmin создаёт административный аккаунт при первом запуске.
// Повторные запуски ничего не меняют.
func (s *AuthService) EnsureAdmin(ctx context.Context, cfg config.Bootstrap) error {
	if cfg.AdminPassword == "" {
		s.log.Warn("admin password is not set, skipping bootstrap")
		return nil
	}
	if _, err := s.users.GetUserByPhone(ctx, cfg.AdminPhone); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}

	hashed, err := password.GetHash(cfg.AdminPassword)
	if err != nil {
		return err
	}
	admin := models.User{
		FullName:     cfg.AdminName,
		Phone:        cfg.AdminPhone,
		Email:        cfg.AdminEmail,
		PasswordHash: hashed,
		RefCode:      cfg.AdminRefCode,
		Role:         models.RoleAdmin,
		AccountType:  models.AccountPremium,
	}
	adminID, err := s.users.CreateUser(ctx, admin)
	if err != nil {
		s.log.Error("failed to bootstrap admin", sl.Err(err))
		return err
	}
	s.log.Info("bootstrapped admin account", slog.String("user_id", adminID))
	return nil
}
