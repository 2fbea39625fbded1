package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/samukelok/harvviie-backend/internal/domain"
	"github.com/samukelok/harvviie-backend/internal/repos"
)

var (
	ErrBadCreds   = errors.New("invalid email or password")
	ErrEmailTaken = errors.New("email already registered")
)

// AuthService issues opaque bearer tokens; only the SHA-256 of a token is
// stored, so a leaked database does not leak usable credentials. Tokens
// expire after TokenTTLHours.
type AuthService struct {
	Users         *repos.UserRepo
	TokenTTLHours int
}

func NewAuthService(users *repos.UserRepo, tokenTTLHours int) *AuthService {
	if tokenTTLHours <= 0 {
		tokenTTLHours = 720
	}
	return &AuthService{Users: users, TokenTTLHours: tokenTTLHours}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Register creates a customer account and logs it in.
func (s *AuthService) Register(name, email, password string) (*domain.User, string, error) {
	if _, err := s.Users.ByEmail(email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, "", err
	}
	u := domain.User{
		ID:    uuid.NewString(),
		Name:  name,
		Email: email,
		Hash:  string(hash),
		Role:  domain.RoleCustomer,
	}
	if err := s.Users.Create(u); err != nil {
		return nil, "", err
	}
	token, err := s.issueToken(u.ID)
	if err != nil {
		return nil, "", err
	}
	return &u, token, nil
}

func (s *AuthService) Login(email, password string) (*domain.User, string, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, "", ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, "", ErrBadCreds
	}
	token, err := s.issueToken(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *AuthService) issueToken(userID string) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}
	if err := s.Users.InsertToken(userID, hashToken(token)); err != nil {
		return "", err
	}
	return token, nil
}

// UserForToken resolves a bearer token; unknown tokens read as not found.
func (s *AuthService) UserForToken(token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrNotFound
	}
	return s.Users.ByTokenHash(hashToken(token), s.TokenTTLHours)
}

func (s *AuthService) Logout(token string) error {
	return s.Users.DeleteToken(hashToken(token))
}

func (s *AuthService) UpdateProfile(userID, name, phone string, address *domain.Address) (*domain.User, error) {
	addrJSON := ""
	if address != nil {
		b, err := json.Marshal(address)
		if err != nil {
			return nil, err
		}
		addrJSON = string(b)
	}
	if err := s.Users.UpdateProfile(userID, name, phone, addrJSON); err != nil {
		return nil, err
	}
	return s.Users.ByID(userID)
}
