package users

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	Repo Repo
	// Cost is the bcrypt work factor; zero means bcrypt.DefaultCost.
	Cost int
	Now  func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Now: time.Now}
}

// SignupInput is the raw signup form.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// Signup creates a password account. Emails are matched exactly after trimming.
func (s *Service) Signup(ctx context.Context, in SignupInput) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return User{}, ErrMissingFields
	}
	hash, err := bcrypt.GenerateFromPassword(prehash(in.Password), s.cost())
	if err != nil {
		return User{}, err
	}
	user := User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Authenticate checks an email and password pair. Unknown emails and wrong
// passwords both return ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	user, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Keep timing close to the found-user path.
			_ = bcrypt.CompareHashAndPassword(s.dummy(), prehash(password))
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if !user.HasPassword() {
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), prehash(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

// EnsureOAuthUser returns the account for email, creating a password-less one
// on first sign-in.
func (s *Service) EnsureOAuthUser(ctx context.Context, email, name string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	email = normalizeEmail(email)
	if email == "" {
		return User{}, errors.New("email is required")
	}
	user, err := s.Repo.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = email
	}
	user = User{ID: uuid.NewString(), Name: name, Email: email, CreatedAt: s.now()}
	if err := s.Repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return s.Repo.GetByEmail(ctx, email)
		}
		return User{}, err
	}
	return user, nil
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID)
}

func (s *Service) cost() int {
	if s.Cost == 0 {
		return bcrypt.DefaultCost
	}
	return s.Cost
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *Service) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword(prehash("not-a-real-password"), s.cost())
	})
	return s.dummyHash
}

// prehash digests a password to a fixed 44 bytes, under bcrypt's 72-byte
// input limit, so long passwords keep all of their entropy.
func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

// normalizeEmail only trims; addresses compare case-sensitively.
func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
