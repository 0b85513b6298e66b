package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken token malformado, vencido, con firma o emisor incorrectos.
var ErrInvalidToken = errors.New("jwt: token inválido")

// Identity usuario autenticado: quién opera, para qué empresa y con qué rol.
type Identity struct {
	UserID    string
	CompanyID string
	Role      string // "admin" | "contador" | "bodeguero"
}

// Claims claims estándar más la identidad. Los tokens los emite el ERP.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"`
	Role      string `json:"role"`
}

// Generate firma un token HS256 para la identidad. Lo usan las pruebas y herramientas internas.
func Generate(secret string, id Identity, issuer string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:    id.UserID,
		CompanyID: id.CompanyID,
		Role:      id.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Validator verifica tokens con un secreto compartido y, si se indica, el emisor.
type Validator struct {
	secret []byte
	opts   []jwt.ParserOption
}

// NewValidator issuer vacío acepta cualquier emisor.
func NewValidator(secret, issuer string) *Validator {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30 * time.Second),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	return &Validator{secret: []byte(secret), opts: opts}
}

// Parse valida el token y devuelve la identidad. Todo fallo se reporta como ErrInvalidToken.
func (v *Validator) Parse(tokenString string) (Identity, error) {
	if len(v.secret) == 0 {
		return Identity{}, fmt.Errorf("%w: secret vacío", ErrInvalidToken)
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, v.opts...)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	return Identity{UserID: claims.UserID, CompanyID: claims.CompanyID, Role: claims.Role}, nil
}
