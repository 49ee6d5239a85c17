package services

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strconv"
	"time"
	"yatube/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

var ErrInvalidResetToken = errors.New("password reset link is invalid or has expired")

type resetClaims struct {
	// Fingerprint of the password hash at issue time; changing the password voids the token.
	Fingerprint string `json:"fp"`
	jwt.RegisteredClaims
}

// ResetTokens issues and checks signed password-reset tokens.
type ResetTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewResetTokens(secret string, ttl time.Duration) *ResetTokens {
	return &ResetTokens{
		secret: []byte("password-reset:" + secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock is used by tests to move time.
func (r *ResetTokens) WithClock(now func() time.Time) *ResetTokens {
	r.now = now
	return r
}

func (r *ResetTokens) Make(u *models.User) (string, error) {
	now := r.now()
	claims := resetClaims{
		Fingerprint: fingerprint(u.Password),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(u.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(r.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
	return token, errors.Wrap(err, "sign reset token")
}

// Check verifies signature, expiry, subject and that the password is unchanged.
func (r *ResetTokens) Check(u *models.User, token string) error {
	claims := &resetClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return r.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(r.now))
	if err != nil {
		return ErrInvalidResetToken
	}
	if claims.Subject != strconv.FormatUint(uint64(u.ID), 10) || claims.Fingerprint != fingerprint(u.Password) {
		return ErrInvalidResetToken
	}
	return nil
}

func fingerprint(passwordHash string) string {
	sum := sha256.Sum256([]byte(passwordHash))
	return hex.EncodeToString(sum[:8])
}

// EncodeUID is the URL-safe user id used in reset links.
func EncodeUID(id uint) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatUint(uint64(id), 10)))
}

func DecodeUID(s string) (uint, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return 0, ErrInvalidResetToken
	}
	id, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidResetToken
	}
	return uint(id), nil
}
