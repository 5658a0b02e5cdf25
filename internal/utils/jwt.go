package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"  // sentinel error for any token that fails validation
	"sort"    // canonical ordering of role claims
	"strings" // claim joining and Bearer prefix handling
	"time"    // issued-at and expiry timestamps

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AccessTokenTTL is the fixed lifetime of every issued token.  There is no
// refresh mechanism: clients re-authenticate after a day.
const AccessTokenTTL = 24 * time.Hour

// ErrInvalidToken is returned by ParseAccessToken for any token that is
// malformed, carries a bad signature, or has expired.  Callers do not need
// to distinguish the three cases.
var ErrInvalidToken = errors.New("invalid token")

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the JWT string.  Exp stores the expiration
// timestamp as a time.Time.  Access tokens are encoded in the Authorization
// header when calling protected endpoints.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// Claims is the decoded content of an access token: the subject email and
// the role list carried in the "authorities" claim.
type Claims struct {
	Email string
	Roles []string
}

// NewAccessToken builds and signs an HS256 JWT for a principal.  The token
// embeds the subject email, the comma-joined role list under "authorities",
// the issue time and a fixed 24 hour expiry.  Roles are sorted before
// joining so that two tokens for the same principal always decode to the
// same claim set regardless of input order.
func NewAccessToken(secret, email string, roles []string) (AccessToken, error) {
	sorted := append([]string(nil), roles...)
	sort.Strings(sorted)

	now := time.Now().UTC()
	exp := now.Add(AccessTokenTTL)
	claims := jwt.MapClaims{
		"email":       email,
		"authorities": strings.Join(sorted, ","),
		"exp":         exp.Unix(),
		"iat":         now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken validates a token string and returns its claims.  A
// leading "Bearer " scheme prefix is stripped if present, so callers may
// pass either the raw JWT or the full Authorization header value.  Any
// validation failure is reported as ErrInvalidToken.
func ParseAccessToken(secret, token string) (Claims, error) {
	raw := strings.TrimPrefix(token, "Bearer ")

	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything other than HMAC.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	email, ok := mc["email"].(string)
	if !ok || email == "" {
		return Claims{}, ErrInvalidToken
	}
	var roles []string
	if auth, ok := mc["authorities"].(string); ok && auth != "" {
		roles = strings.Split(auth, ",")
	}
	return Claims{Email: email, Roles: roles}, nil
}
