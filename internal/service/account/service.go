package account

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"waves-backend/internal/domain"
)

const resetTokenTTL = 24 * time.Hour

type userRepo interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByToken(ctx context.Context, token string) (*domain.User, error)
	GetByResetToken(ctx context.Context, token string, notBefore time.Time) (*domain.User, error)
	SetToken(ctx context.Context, id, token string) error
	SetResetToken(ctx context.Context, id, token string, exp time.Time) error
	ResetPassword(ctx context.Context, id, passwordHash string) error
	UpdateProfile(ctx context.Context, id string, fields map[string]interface{}) error
}

type mailer interface {
	SendWelcome(ctx context.Context, email, name string) error
	SendPasswordReset(ctx context.Context, email, name, resetToken string) error
}

// Service handles account lifecycle: registration, sessions, password
// reset, profile updates.
type Service struct {
	users  userRepo
	mail   mailer
	logger *log.Logger
}

func New(users userRepo, mail mailer, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{users: users, mail: mail, logger: logger}
}

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	switch {
	case email == "" || !strings.Contains(email, "@"):
		return nil, fmt.Errorf("%w: valid email is required", domain.ErrValidation)
	case len(in.Password) < 6:
		return nil, fmt.Errorf("%w: password must be at least 6 characters", domain.ErrValidation)
	case strings.TrimSpace(in.Name) == "":
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Create(ctx, domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(in.Name),
		Lastname:     strings.TrimSpace(in.Lastname),
		Address:      in.Address,
		Phone:        in.Phone,
		Role:         domain.RoleUser,
	})
	if err != nil {
		return nil, err
	}

	if s.mail != nil {
		if err := s.mail.SendWelcome(ctx, u.Email, u.Name); err != nil {
			s.logger.Printf("account: welcome email user=%s error=%v", u.ID, err)
		}
	}
	return u, nil
}

// Login verifies credentials and issues a fresh session token.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("%w: wrong password", domain.ErrValidation)
	}

	token := uuid.NewString()
	if err := s.users.SetToken(ctx, u.ID, token); err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *Service) Logout(ctx context.Context, userID string) error {
	return s.users.SetToken(ctx, userID, "")
}

// Authenticate resolves a session token to its user. The auth middleware
// calls this per request.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	return s.users.GetByToken(ctx, token)
}

// RequestPasswordReset issues a reset token and emails it. An unknown email
// reports NotFound to the caller.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}

	token := uuid.NewString()
	if err := s.users.SetResetToken(ctx, u.ID, token, time.Now().UTC().Add(resetTokenTTL)); err != nil {
		return err
	}

	if s.mail != nil {
		if err := s.mail.SendPasswordReset(ctx, u.Email, u.Name, token); err != nil {
			s.logger.Printf("account: reset email user=%s error=%v", u.ID, err)
		}
	}
	return nil
}

// ResetPassword consumes an unexpired reset token and stores the new hash.
func (s *Service) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if len(newPassword) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", domain.ErrValidation)
	}

	u, err := s.users.GetByResetToken(ctx, resetToken, time.Now().UTC())
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.ResetPassword(ctx, u.ID, string(hash))
}

// UpdateProfile applies the request body as a field-set patch. The field
// set is deliberately unrestricted apart from operator-shaped keys; see the
// handler for the accepted body.
func (s *Service) UpdateProfile(ctx context.Context, userID string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return fmt.Errorf("%w: no fields to update", domain.ErrValidation)
	}
	for key := range fields {
		if strings.HasPrefix(key, "$") || strings.Contains(key, ".") {
			return fmt.Errorf("%w: invalid field name %q", domain.ErrValidation, key)
		}
	}
	return s.users.UpdateProfile(ctx, userID, fields)
}
