package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTTL is the access-token lifetime used when the caller does not pick one.
const DefaultTTL = 720 * time.Minute

// ErrInvalidHash marks a structurally broken password hash. This is a contract
// violation by the caller, not a failed password check: VerifyPassword reports
// a plain mismatch as (false, nil).
var ErrInvalidHash = errors.New("malformed password hash")

// HashPassword produces a salted bcrypt digest. The salt is freshly randomized
// on every call, so hashing the same password twice yields different strings.
func HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// VerifyPassword reports whether plain matches the stored hash.
func VerifyPassword(plain, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("%w: %v", ErrInvalidHash, err)
}

// Issuer mints and verifies signed bearer tokens. It owns the signing secret
// and default TTL explicitly (no ambient globals), and the clock is injectable
// so expiry behavior can be tested without sleeping.
type Issuer struct {
	secret     []byte
	defaultTTL time.Duration
	now        func() time.Time
}

func NewIssuer(secret string, defaultTTL time.Duration) *Issuer {
	if defaultTTL == 0 {
		defaultTTL = DefaultTTL
	}
	return &Issuer{secret: []byte(secret), defaultTTL: defaultTTL, now: time.Now}
}

// WithClock overrides the issuer's time source. Used by tests.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	i.now = now
	return i
}

// Issue creates an HS256 token carrying subject and an absolute expiry of
// now+ttl. A zero or negative ttl is accepted and simply produces a token that
// is already expired; issuance never fails on it.
func (i *Issuer) Issue(subject string, ttl time.Duration) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := jt.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// IssueDefault issues a token with the issuer's default TTL.
func (i *Issuer) IssueDefault(subject string) (string, error) {
	return i.Issue(subject, i.defaultTTL)
}

// Verify returns the embedded subject iff the signature checks out under the
// issuer's secret and the expiry lies strictly in the future. Malformed,
// tampered and expired tokens all come back as ok=false; none of those are
// error conditions worth surfacing to callers, who must deny access either way.
func (i *Issuer) Verify(raw string) (subject string, ok bool) {
	tok, err := jwt.Parse(raw,
		func(t *jwt.Token) (interface{}, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !tok.Valid {
		return "", false
	}
	claims, okc := tok.Claims.(jwt.MapClaims)
	if !okc {
		return "", false
	}
	// exp is mandatory: a token without one never expires and is rejected
	if exp, err := claims.GetExpirationTime(); err != nil || exp == nil {
		return "", false
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", false
	}
	return sub, true
}
