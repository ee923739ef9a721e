package services

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type AuthStore interface {
	FindParticipantByAccessCode(code string) (*Participant, error)
	GetSession(id string) (*Session, error)
	TouchParticipant(id, lastAccess string) error
	FindAdminByEmail(email string) (*AdminUser, error)
	AddAdmin(a *AdminUser) error
}

// TokenSigner issues an auth token for a subject. Role is either
// "participant" or "admin"; sessionID is empty for admins.
type TokenSigner func(subject, sessionID, role string, ttl time.Duration) (string, error)

type AuthService struct {
	store     AuthStore
	now       func() time.Time
	idGen     func(prefix string, n int) string
	signToken TokenSigner
	tokenTTL  time.Duration
}

type LoginResult struct {
	Token       string
	Participant *Participant
	Session     *Session
}

type AdminLoginResult struct {
	Token string
	Admin *AdminUser
}

func NewAuthService(store AuthStore, signer TokenSigner) *AuthService {
	return &AuthService{
		store:     store,
		now:       func() time.Time { return time.Now().UTC() },
		idGen:     func(prefix string, n int) string { return prefix + shortID(n) },
		signToken: signer,
		tokenTTL:  24 * time.Hour,
	}
}

// NormalizeAccessCode applies the case-insensitive comparison rule:
// codes are stored and matched uppercase.
func NormalizeAccessCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// LoginWithAccessCode resolves an access code to its participant,
// verifies the owning session has both survey templates assigned,
// stamps last access, and issues a token.
func (s *AuthService) LoginWithAccessCode(code string) (*LoginResult, error) {
	code = NormalizeAccessCode(code)
	if code == "" {
		return nil, NewInvalidError("access code required")
	}
	p, err := s.store.FindParticipantByAccessCode(code)
	if err != nil {
		return nil, NewUnavailableError(err.Error())
	}
	if p == nil {
		return nil, NewUnauthorizedError("invalid access code")
	}
	sess, err := s.store.GetSession(p.SessionID)
	if err != nil {
		return nil, NewUnavailableError(err.Error())
	}
	if sess == nil {
		return nil, NewNotFoundError("session not found")
	}
	if sess.SensoryTemplateID == "" || sess.ProgressTemplateID == "" {
		return nil, NewInvalidError("session template assignment incomplete")
	}
	last := isoTimestamp(s.now())
	if err := s.store.TouchParticipant(p.ID, last); err != nil {
		return nil, NewUnavailableError(err.Error())
	}
	p.LastAccess = last
	if s.signToken == nil {
		return nil, NewInvalidError("token signer not configured")
	}
	token, err := s.signToken(p.ID, sess.ID, "participant", s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, Participant: p, Session: sess}, nil
}

// AdminLogin verifies dashboard credentials against the stored bcrypt
// hash and issues an admin token.
func (s *AuthService) AdminLogin(email, password string) (*AdminLoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, NewInvalidError("email/password required")
	}
	u, err := s.store.FindAdminByEmail(email)
	if err != nil {
		return nil, NewUnavailableError(err.Error())
	}
	if u == nil {
		return nil, NewUnauthorizedError("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(u.PassHash, []byte(password)); err != nil {
		return nil, NewUnauthorizedError("invalid credentials")
	}
	if s.signToken == nil {
		return nil, NewInvalidError("token signer not configured")
	}
	token, err := s.signToken(u.ID, "", "admin", s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &AdminLoginResult{Token: token, Admin: u}, nil
}

// RegisterAdmin creates a dashboard account. Used by seeding and
// operator tooling; there is no self-service signup.
func (s *AuthService) RegisterAdmin(email, password string) (*AdminUser, error) {
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, NewInvalidError("email/password required")
	}
	existing, err := s.store.FindAdminByEmail(email)
	if err != nil {
		return nil, NewUnavailableError(err.Error())
	}
	if existing != nil {
		return nil, NewConflictError("email exists")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &AdminUser{
		ID:        s.idGen("a", 7),
		Email:     email,
		PassHash:  hash,
		CreatedAt: isoTimestamp(s.now()),
	}
	if err := s.store.AddAdmin(u); err != nil {
		return nil, NewUnavailableError(err.Error())
	}
	return u, nil
}

func (s *AuthService) TokenTTL() time.Duration { return s.tokenTTL }
