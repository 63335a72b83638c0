package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// VisitorTokenService firma la cookie que identifica a un visitante del sitio.
// El token no transporta identidad de usuario: solo el id del visitante, que
// selecciona su sesión.
type VisitorTokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

type VisitorClaims struct {
	VisitorID string `json:"vid"`
	jwt.RegisteredClaims
}

var (
	ErrVisitorTokenInvalid = errors.New("visitor token invalid")
	ErrVisitorTokenExpired = errors.New("visitor token expired")
)

func NewVisitorTokenService(secret string, ttl time.Duration) *VisitorTokenService {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &VisitorTokenService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "hackhub-web",
	}
}

// TTL devuelve la vigencia de los tokens emitidos.
func (s *VisitorTokenService) TTL() time.Duration {
	return s.ttl
}

// Issue emite un token para un visitante nuevo.
func (s *VisitorTokenService) Issue() (token string, visitorID string, err error) {
	if len(s.secret) == 0 {
		return "", "", ErrVisitorTokenInvalid
	}
	visitorID = uuid.NewString()
	now := time.Now().UTC()
	claims := VisitorClaims{
		VisitorID: visitorID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   visitorID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", "", err
	}
	return signed, visitorID, nil
}

// Parse valida el token y devuelve el id del visitante.
func (s *VisitorTokenService) Parse(token string) (string, error) {
	if len(s.secret) == 0 || strings.TrimSpace(token) == "" {
		return "", ErrVisitorTokenInvalid
	}
	var claims VisitorClaims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(token, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrVisitorTokenExpired
		}
		return "", ErrVisitorTokenInvalid
	}
	if claims.Issuer != s.issuer || claims.VisitorID == "" || claims.Subject != claims.VisitorID {
		return "", ErrVisitorTokenInvalid
	}
	if _, err := uuid.Parse(claims.VisitorID); err != nil {
		return "", ErrVisitorTokenInvalid
	}
	return claims.VisitorID, nil
}
