package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/rof/invgen/internal/core/domain"
	"github.com/rof/invgen/internal/core/ports"
)

// AuthService implements registration, login and account maintenance.
type AuthService struct {
	repo   ports.UserRepository
	signer ports.TokenSigner
	logger zerolog.Logger
	now    func() time.Time
}

func NewAuthService(repo ports.UserRepository, signer ports.TokenSigner, logger zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, signer: signer, logger: logger, now: time.Now}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, domain.ErrUserFieldsRequired
	}

	role := domain.Role(in.Role)
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	project := domain.Project(in.Project)
	if role == domain.RoleAdmin {
		project = ""
	}

	email := trimEmail(in.Email)
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Project:      project,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user registered")
	return created, nil
}

// Login checks role and project before the password so that a caller
// learns about a wrong role or project even with a bad or empty password.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (string, *domain.User, error) {
	email := trimEmail(in.Email)
	if email == "" {
		return "", nil, domain.ErrInvalidLogin
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, domain.ErrInvalidLogin
	}
	if err != nil {
		return "", nil, err
	}

	if user.Role != domain.Role(in.Role) {
		return "", nil, domain.ErrRoleMismatch
	}
	if user.Role == domain.RoleUser && user.Project != domain.Project(in.Project) {
		return "", nil, domain.ErrProjectMismatch
	}
	if in.Password == "" || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return "", nil, domain.ErrInvalidLogin
	}

	token, err := s.signer.Sign(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Edit merges the supplied fields into the caller's account.
func (s *AuthService) Edit(ctx context.Context, userID string, in ports.EditUserInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(in.Name); v != "" {
		user.Name = v
	}
	if v := strings.TrimSpace(in.Email); v != "" {
		email := trimEmail(v)
		if email != user.Email {
			other, err := s.repo.FindByEmail(ctx, email)
			if err == nil && other.ID != user.ID {
				return nil, domain.ErrUserExists
			}
			if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
				return nil, err
			}
		}
		user.Email = email
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if in.Role != "" {
		user.Role = domain.Role(in.Role)
	}
	if in.Project != "" {
		user.Project = domain.Project(in.Project)
	}
	if user.Role == domain.RoleAdmin && in.Project == "" {
		user.Project = ""
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	user.UpdatedAt = s.now().UTC()
	updated, err := s.repo.Update(ctx, user.ID, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", updated.ID).Msg("user updated")
	return updated, nil
}

// List returns the users visible to the caller, judged by the caller's
// stored role and project rather than the token.
func (s *AuthService) List(ctx context.Context, userID string) ([]*domain.User, error) {
	caller, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if caller.Role == domain.RoleAdmin {
		return s.repo.List(ctx, "")
	}
	return s.repo.List(ctx, caller.Project)
}

// trimEmail drops surrounding whitespace only. Stored addresses keep their
// case and lookups match them exactly.
func trimEmail(email string) string {
	return strings.TrimSpace(email)
}
