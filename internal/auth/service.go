// Package auth is the session collaborator behind the admin gate: email and
// password accounts, opaque session tokens and roles.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"portfolio/internal/apperr"
	"portfolio/internal/models"
)

const RoleAdmin = "admin"

// User-facing messages. Invalid credentials never say which field was wrong.
const (
	MsgInvalidCredentials = "Invalid email or password. Please try again."
	MsgAlreadyRegistered  = "This email is already registered. Please sign in instead."
	MsgSessionExpired     = "Your session has expired. Please sign in again."
)

var ErrNoSession = apperr.New(apperr.CodeAuth, MsgSessionExpired)

type Credentials struct {
	Email    string `json:"email" form:"email" validate:"required,email,max=255"`
	Password string `json:"password" form:"password" validate:"required,min=6,max=72"`
}

type Principal struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (p Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type Service struct {
	db       *gorm.DB
	validate *validator.Validate
	ttl      time.Duration
	now      func() time.Time
	log      *logrus.Entry
}

func NewService(db *gorm.DB, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Service{
		db:       db,
		validate: validator.New(),
		ttl:      ttl,
		now:      time.Now,
		log:      logrus.WithField("component", "auth"),
	}
}

func (s *Service) checkCredentials(c *Credentials) error {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	err := s.validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Field() {
		case "Email":
			return apperr.Validation("Please enter a valid email address")
		case "Password":
			if verrs[0].Tag() == "max" {
				return apperr.Validation("Password must be at most 72 characters")
			}
			return apperr.Validation("Password must be at least 6 characters")
		}
	}
	return apperr.Validation("invalid credentials")
}

func (s *Service) SignUp(ctx context.Context, c Credentials) (Principal, error) {
	if err := s.checkCredentials(&c); err != nil {
		return Principal{}, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", c.Email).Count(&count).Error; err != nil {
		return Principal{}, apperr.Store("check email", err)
	}
	if count > 0 {
		return Principal{}, apperr.New(apperr.CodeAuth, MsgAlreadyRegistered)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), bcrypt.DefaultCost)
	if err != nil {
		return Principal{}, apperr.Wrap(apperr.CodeAuth, "could not create account", err)
	}
	user := models.User{ID: uuid.New().String(), Email: c.Email, PasswordHash: string(hash)}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return Principal{}, apperr.Store("create user", err)
	}
	s.log.WithField("user", user.ID).Info("account created")
	return s.startSession(ctx, user)
}

func (s *Service) SignIn(ctx context.Context, c Credentials) (Principal, error) {
	if err := s.checkCredentials(&c); err != nil {
		return Principal{}, err
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", c.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Principal{}, apperr.New(apperr.CodeAuth, MsgInvalidCredentials)
		}
		return Principal{}, apperr.Store("load user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(c.Password)); err != nil {
		return Principal{}, apperr.New(apperr.CodeAuth, MsgInvalidCredentials)
	}
	return s.startSession(ctx, user)
}

func (s *Service) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.db.WithContext(ctx).Delete(&models.Session{}, "token = ?", token).Error; err != nil {
		return apperr.Store("delete session", err)
	}
	return nil
}

// Lookup resolves a session token to its principal. Unknown and expired
// tokens yield ErrNoSession.
func (s *Service) Lookup(ctx context.Context, token string) (Principal, error) {
	if token == "" {
		return Principal{}, ErrNoSession
	}
	var sess models.Session
	err := s.db.WithContext(ctx).Where("token = ? AND expires_at > ?", token, s.now()).First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Principal{}, ErrNoSession
	}
	if err != nil {
		return Principal{}, apperr.Store("load session", err)
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", sess.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Principal{}, ErrNoSession
		}
		return Principal{}, apperr.Store("load user", err)
	}
	roles, err := s.roles(ctx, user.ID)
	if err != nil {
		return Principal{}, err
	}
	return Principal{UserID: user.ID, Email: user.Email, Roles: roles, Token: token, ExpiresAt: sess.ExpiresAt}, nil
}

// GrantRole gives userID the role. Granting twice is a no-op.
func (s *Service) GrantRole(ctx context.Context, userID, role string) error {
	row := models.UserRole{UserID: userID, Role: role}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "role"}},
		DoUpdates: clause.AssignmentColumns([]string{"updated_at"}),
	}).Create(&row).Error; err != nil {
		return apperr.Store("grant role", err)
	}
	return nil
}

func (s *Service) GrantRoleByEmail(ctx context.Context, email, role string) error {
	var user models.User
	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("user", email)
		}
		return apperr.Store("load user", err)
	}
	return s.GrantRole(ctx, user.ID, role)
}

// PurgeExpired removes sessions past their expiry.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", s.now()).Delete(&models.Session{})
	if res.Error != nil {
		return 0, apperr.Store("purge sessions", res.Error)
	}
	if res.RowsAffected > 0 {
		s.log.WithField("count", res.RowsAffected).Info("purged expired sessions")
	}
	return res.RowsAffected, nil
}

func (s *Service) roles(ctx context.Context, userID string) ([]string, error) {
	var rows []models.UserRole
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("role asc").Find(&rows).Error; err != nil {
		return nil, apperr.Store("load roles", err)
	}
	roles := make([]string, 0, len(rows))
	for _, r := range rows {
		roles = append(roles, r.Role)
	}
	return roles, nil
}

func (s *Service) startSession(ctx context.Context, user models.User) (Principal, error) {
	token := strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
	sess := models.Session{Token: token, UserID: user.ID, ExpiresAt: s.now().Add(s.ttl)}
	if err := s.db.WithContext(ctx).Create(&sess).Error; err != nil {
		return Principal{}, apperr.Store("create session", err)
	}
	roles, err := s.roles(ctx, user.ID)
	if err != nil {
		return Principal{}, err
	}
	return Principal{UserID: user.ID, Email: user.Email, Roles: roles, Token: token, ExpiresAt: sess.ExpiresAt}, nil
}
