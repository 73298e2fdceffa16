package session

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// tokenTTL bounds the lifetime of minted session tokens.
const tokenTTL = 12 * time.Hour

// Service owns the session state container: the current session, the
// authenticated flag, and the durable slot behind them. All mutation goes
// through Login/Logout/Restore.
type Service struct {
	mu         sync.RWMutex
	store      Store
	signingKey []byte
	logger     zerolog.Logger
	current    *Session
}

// NewService creates a session Service persisting to store and signing
// tokens with signingKey.
func NewService(store Store, signingKey []byte, logger zerolog.Logger) *Service {
	return &Service{store: store, signingKey: signingKey, logger: logger}
}

// Login establishes a session iff email is non-empty and the password is at
// least MinPasswordLength characters. This is the workstation's mock rule,
// not real credential verification. On failure it returns false and leaves
// all state unchanged; no error detail beyond the boolean is exposed.
func (s *Service) Login(email, password string) bool {
	if email == "" || len(password) < MinPasswordLength {
		s.logger.Info().Str("email", email).Msg("login rejected")
		return false
	}

	token, err := s.mintToken(email)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to mint session token")
		return false
	}

	sess := &Session{
		ID:           "USR-" + uuid.New().String()[:8],
		Name:         demoUserName,
		Email:        email,
		Role:         demoUserRole,
		Organization: demoOrganization,
		Token:        token,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Save(sess); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist session")
		return false
	}
	s.current = sess
	s.logger.Info().Str("email", email).Msg("session established")
	return true
}

// Logout clears the session and removes the persisted record. Total: it
// succeeds whether or not a session exists.
func (s *Service) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	if err := s.store.Clear(); err != nil {
		s.logger.Error().Err(err).Msg("failed to clear persisted session")
	}
}

// Restore re-establishes the session from the persisted slot when a
// well-formed record with a valid token is present. Malformed or missing
// data leaves the state unauthenticated without error.
func (s *Service) Restore() {
	sess, err := s.store.Load()
	if err != nil {
		return
	}
	if _, err := s.ParseToken(sess.Token); err != nil {
		return
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
	s.logger.Info().Str("email", sess.Email).Msg("session restored")
}

// Current returns a copy of the active session, or nil when unauthenticated.
func (s *Service) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil
	}
	copied := *s.current
	return &copied
}

// IsAuthenticated reports whether a session is active.
func (s *Service) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// Claims carried by minted session tokens.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

func (s *Service) mintToken(email string) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Role:  demoUserRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "workstation",
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
}

// ParseToken validates a minted token and returns its claims.
func (s *Service) ParseToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.signingKey, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
