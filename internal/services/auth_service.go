package services

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/soaringjerry/Scorecard/internal/rubric"
)

// AuthStore is the identity slice of the store auth needs.
type AuthStore interface {
	GetPerson(id string) (*Person, error)
	PutPerson(p *Person) error
	LoadPeople() (map[string]*Person, error)
}

// TokenSigner mints a session token for a person.
type TokenSigner func(personID string, admin AdminRole, ttl time.Duration) (string, error)

// AuthService registers people and verifies credentials. The very
// first registration bootstraps the superadmin.
type AuthService struct {
	store     AuthStore
	now       func() time.Time
	signToken TokenSigner
	tokenTTL  time.Duration
}

type AuthResult struct {
	Token     string
	PersonID  string
	AdminRole AdminRole
}

func NewAuthService(store AuthStore, signer TokenSigner) *AuthService {
	return &AuthService{
		store:     store,
		now:       func() time.Time { return time.Now().UTC() },
		signToken: signer,
		tokenTTL:  30 * 24 * time.Hour,
	}
}

func (s *AuthService) Register(name, password, roleLabel string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.TrimSpace(password) == "" {
		return nil, NewInvalidError("name/password required")
	}
	if !rubric.IsRole(roleLabel) {
		return nil, NewInvalidError("unknown role " + roleLabel)
	}
	existing, err := s.store.GetPerson(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, NewConflictError("person exists")
	}
	people, err := s.store.LoadPeople()
	if err != nil {
		return nil, err
	}
	admin := AdminUser
	if len(people) == 0 {
		admin = AdminSuperadmin
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	p := &Person{ID: name, Role: roleLabel, AdminRole: admin, PassHash: hash, CreatedAt: s.now()}
	if err := s.store.PutPerson(p); err != nil {
		return nil, err
	}
	if s.signToken == nil {
		return nil, NewInvalidError("token signer not configured")
	}
	token, err := s.signToken(p.ID, p.AdminRole, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, PersonID: p.ID, AdminRole: p.AdminRole}, nil
}

func (s *AuthService) Login(name, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.TrimSpace(password) == "" {
		return nil, NewInvalidError("name/password required")
	}
	p, err := s.store.GetPerson(name)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, NewUnauthorizedError("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(p.PassHash, []byte(password)); err != nil {
		return nil, NewUnauthorizedError("invalid credentials")
	}
	if s.signToken == nil {
		return nil, NewInvalidError("token signer not configured")
	}
	token, err := s.signToken(p.ID, p.AdminRole, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, PersonID: p.ID, AdminRole: p.AdminRole}, nil
}
