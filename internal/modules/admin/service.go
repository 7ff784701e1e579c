package admin

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"xalqbahosi/internal/middleware"
)

type TokenIssuer interface {
	GenerateToken(login, role string) (string, error)
}

// Service checks the single configured admin account. Failed attempts are
// logged; there is no lockout.
type Service struct {
	login        string
	passwordHash []byte
	tokens       TokenIssuer
	logger       *slog.Logger
}

func NewService(login, passwordHash string, tokens TokenIssuer, logger *slog.Logger) *Service {
	return &Service{
		login:        login,
		passwordHash: []byte(passwordHash),
		tokens:       tokens,
		logger:       logger,
	}
}

func (s *Service) Login(_ context.Context, login, password string) (string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return "", ErrCredentialsRequired
	}

	loginOK := subtle.ConstantTimeCompare([]byte(login), []byte(s.login)) == 1
	// compare the password even for an unknown login
	passErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if !loginOK || passErr != nil {
		s.logger.Warn("admin login failed", "login", login)
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(s.login, middleware.RoleAdmin)
	if err != nil {
		return "", err
	}
	s.logger.Info("admin logged in", "login", login)
	return token, nil
}

type DataStore interface {
	Reset(ctx context.Context) error
}

type StateResetter interface {
	Reset()
}

// DataService wipes the local fallback data: reviews, announcements and
// locations, which are reseeded with the demo set on the next read.
type DataService struct {
	store  DataStore
	state  StateResetter
	logger *slog.Logger
}

func NewDataService(store DataStore, state StateResetter, logger *slog.Logger) *DataService {
	return &DataService{store: store, state: state, logger: logger}
}

func (s *DataService) Reset(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset local data: %w", err)
	}
	if s.state != nil {
		s.state.Reset()
	}
	s.logger.Warn("local data cleared")
	return nil
}
