// Package identity implements the account subsystem: creation, password
// hashing, role membership and session tokens. The registration and admin
// flows only orchestrate calls into it.
package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"rentacar.com/internal/config"
	"rentacar.com/internal/constants"
	"rentacar.com/internal/domain"
	"rentacar.com/internal/model"
	"rentacar.com/internal/validation"
)

const persistentSessionTTL = 30 * 24 * time.Hour

// Service implements domain.IdentityService.
var _ domain.IdentityService = (*Service)(nil)

type Service struct {
	users     domain.UserRepository
	enforcer  *casbin.Enforcer
	rdb       *redis.Client
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewService(users domain.UserRepository, enforcer *casbin.Enforcer, rdb *redis.Client, cfg config.AuthConfig) *Service {
	secret := cfg.JWTSecret
	if secret == "" {
		secret = "rentacar-dev-secret"
	}
	ttl := time.Duration(cfg.TokenTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &Service{
		users:     users,
		enforcer:  enforcer,
		rdb:       rdb,
		jwtSecret: []byte(secret),
		tokenTTL:  ttl,
	}
}

// CreateAccount hashes the password and inserts the record. A unique-index
// violation is translated back into the same field messages the uniqueness
// validators produce, so a lost check-then-insert race still surfaces as a
// form error rather than a 500.
func (s *Service) CreateAccount(ctx context.Context, user *model.User, password string) error {
	hashed, err := s.HashPassword(password)
	if err != nil {
		return domain.NewInternalError("failed to hash password", err)
	}
	user.Password = hashed
	if user.Version == 0 {
		user.Version = 1
	}

	if err := s.users.Insert(ctx, user); err != nil {
		if err == domain.ErrAlreadyExists {
			return s.duplicateFieldErrors(ctx, user)
		}
		return err
	}
	return nil
}

// duplicateFieldErrors re-runs the uniqueness predicates to report which
// columns collided.
func (s *Service) duplicateFieldErrors(ctx context.Context, user *model.User) error {
	var errs []domain.FieldError
	for _, check := range []struct {
		fn    func(context.Context, domain.UserRepository, string) (*domain.FieldError, error)
		value string
	}{
		{validation.UniqueEmail, user.Email},
		{validation.UniquePhone, user.Phone},
		{validation.UniqueEGN, user.EGN},
	} {
		fe, err := check.fn(ctx, s.users, check.value)
		if err != nil {
			return err
		}
		if fe != nil {
			errs = append(errs, *fe)
		}
	}
	if len(errs) == 0 {
		errs = append(errs, domain.FieldError{Field: "", Message: "A user with these details already exists."})
	}
	return &domain.ValidationError{Errors: errs}
}

func (s *Service) HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword reports whether the plaintext matches the stored hash.
func (s *Service) VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// AssignRole writes the role membership: the Casbin grouping policy plus the
// mirror column on the record. Happens once at creation; the edit flow never
// touches roles.
func (s *Service) AssignRole(ctx context.Context, user *model.User, role string) error {
	if _, err := s.enforcer.AddGroupingPolicy(subjectFor(user), role); err != nil {
		return domain.NewInternalError("failed to assign role", err)
	}
	user.Role = role
	return nil
}

// RemoveRoles clears the user's grouping policies when the record is deleted.
func (s *Service) RemoveRoles(ctx context.Context, user *model.User) error {
	if _, err := s.enforcer.DeleteRolesForUser(subjectFor(user)); err != nil {
		return domain.NewInternalError("failed to remove roles", err)
	}
	return nil
}

// SignIn issues the session JWT. Non-persistent sessions use the configured
// TTL; persistent ones last 30 days.
func (s *Service) SignIn(ctx context.Context, user *model.User, persistent bool) (string, error) {
	ttl := s.tokenTTL
	if persistent {
		ttl = persistentSessionTTL
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       user.ID,
		"email":    user.Email,
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(ttl).Unix(),
	})

	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", domain.NewInternalError("failed to sign token", err)
	}
	return signed, nil
}

// SignOut puts the token on the Redis revocation list until its natural
// expiry. The middleware refuses revoked tokens.
func (s *Service) SignOut(ctx context.Context, token string) error {
	if s.rdb == nil {
		return nil
	}
	ttl := s.remainingTTL(token)
	if ttl <= 0 {
		return nil // already expired, nothing to revoke
	}
	key := constants.RevokedTokenKeyPrefix + TokenDigest(token)
	if err := s.rdb.Set(ctx, key, "1", ttl).Err(); err != nil {
		return domain.NewInternalError("failed to revoke token", err)
	}
	return nil
}

// ExternalAuthSchemes lists configured external login providers. None are
// wired in this deployment.
func (s *Service) ExternalAuthSchemes() []string {
	return []string{}
}

func (s *Service) remainingTTL(token string) time.Duration {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return 0
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0
	}
	return time.Until(exp.Time)
}

// TokenDigest is the revocation-list key for a raw token.
func TokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// subjectFor keys grouping policies by id, not email, so an admin edit of
// the email cannot orphan the membership.
func subjectFor(user *model.User) string {
	return "user:" + strconv.FormatUint(uint64(user.ID), 10)
}
