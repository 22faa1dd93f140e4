// Package token verifies the auth provider's access tokens.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/felixgeelhaar/inkwell/internal/identity/domain"
)

const defaultLeeway = 30 * time.Second

// DefaultAudience is the audience the provider stamps on user access tokens.
const DefaultAudience = "authenticated"

// Config selects the verification keys. At least one of Secret or JWKSURL must
// be set; HMAC tokens use Secret and RSA/ECDSA tokens use the JWKS.
type Config struct {
	Secret   string
	JWKSURL  string
	Issuer   string
	Audience string
}

// Verifier validates bearer tokens and turns them into sessions.
type Verifier struct {
	secret []byte
	jwks   keyfunc.Keyfunc
	parser *jwt.Parser
}

// NewVerifier builds a verifier. The JWKS is fetched and refreshed in the
// background by keyfunc.
func NewVerifier(cfg Config) (*Verifier, error) {
	if cfg.Secret == "" && cfg.JWKSURL == "" {
		return nil, errors.New("a JWT secret or a JWKS URL must be set")
	}

	v := &Verifier{}
	var methods []string
	if cfg.Secret != "" {
		v.secret = []byte(cfg.Secret)
		methods = append(methods, jwt.SigningMethodHS256.Name)
	}
	if cfg.JWKSURL != "" {
		k, err := keyfunc.NewDefault([]string{cfg.JWKSURL})
		if err != nil {
			return nil, fmt.Errorf("init JWKS keyfunc: %w", err)
		}
		v.jwks = k
		methods = append(methods,
			jwt.SigningMethodRS256.Name, jwt.SigningMethodRS384.Name, jwt.SigningMethodRS512.Name,
			jwt.SigningMethodES256.Name, jwt.SigningMethodES384.Name,
		)
	}

	audience := cfg.Audience
	if audience == "" {
		audience = DefaultAudience
	}
	opts := []jwt.ParserOption{
		jwt.WithAudience(audience),
		jwt.WithLeeway(defaultLeeway),
		jwt.WithValidMethods(methods),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	v.parser = jwt.NewParser(opts...)
	return v, nil
}

func (v *Verifier) key(t *jwt.Token) (any, error) {
	switch t.Method.(type) {
	case *jwt.SigningMethodHMAC:
		if v.secret == nil {
			return nil, errors.New("hmac tokens are not accepted")
		}
		return v.secret, nil
	default:
		if v.jwks == nil {
			return nil, errors.New("asymmetric tokens are not accepted")
		}
		return v.jwks.Keyfunc(t)
	}
}

// Verify parses and validates a token. Every failure wraps domain.ErrInvalidToken.
func (v *Verifier) Verify(tokenString string) (*domain.Session, error) {
	claims := jwt.MapClaims{}
	tok, err := v.parser.ParseWithClaims(tokenString, claims, v.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if !tok.Valid {
		return nil, domain.ErrInvalidToken
	}

	sub, _ := claims.GetSubject()
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("%w: subject is not a user id", domain.ErrInvalidToken)
	}

	session := &domain.Session{
		UserID: userID,
		Email:  readString(claims, "email"),
		Role:   readString(claims, "role"),
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		session.ExpiresAt = exp.Time
	}
	return session, nil
}

// ExtractBearerToken returns the token from an Authorization header value.
func ExtractBearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	tok := strings.TrimSpace(parts[1])
	return tok, tok != ""
}

func readString(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}
