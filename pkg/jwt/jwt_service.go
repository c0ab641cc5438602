package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var (
	ErrTokenMalformed   = errors.New("token is malformed")
	ErrInvalidSignature = errors.New("token signature is invalid")
)

type (
	JWTService interface {
		IssueToken(userID string, role string) (string, time.Time, error)
		VerifyToken(token string) (*Claims, error)
	}

	// Claims is the verified content of a token. Expiry is reported, not
	// enforced; the caller decides what an expired token means.
	Claims struct {
		UserID    string
		Role      string
		IssuedAt  time.Time
		ExpiresAt time.Time
	}

	jwtUserClaim struct {
		UserID string `json:"user_id"`
		Role   string `json:"role"`
		jwt.RegisteredClaims
	}

	jwtService struct {
		secretKey []byte
		issuer    string
		lifetime  time.Duration
		now       func() time.Time
		parser    *jwt.Parser
	}

	Option func(*jwtService)
)

// WithClock replaces time.Now for issuing tokens.
func WithClock(now func() time.Time) Option {
	return func(s *jwtService) {
		s.now = now
	}
}

func NewJWTService(secretKey string, issuer string, lifetime time.Duration, opts ...Option) JWTService {
	s := &jwtService{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		lifetime:  lifetime,
		now:       time.Now,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (j *jwtService) IssueToken(userID string, role string) (string, time.Time, error) {
	now := j.now()
	expiresAt := now.Add(j.lifetime)
	claims := jwtUserClaim{
		userID,
		role,
		jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (j *jwtService) parseToken(t_ *jwt.Token) (any, error) {
	if _, ok := t_.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t_.Header["alg"])
	}
	return j.secretKey, nil
}

func (j *jwtService) VerifyToken(token string) (*Claims, error) {
	claims := &jwtUserClaim{}
	t_Token, err := j.parser.ParseWithClaims(token, claims, j.parseToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, ErrTokenMalformed
		}
		return nil, ErrInvalidSignature
	}
	if !t_Token.Valid {
		return nil, ErrInvalidSignature
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" || claims.ExpiresAt == nil {
		return nil, ErrTokenMalformed
	}

	out := &Claims{
		UserID:    userID,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}
