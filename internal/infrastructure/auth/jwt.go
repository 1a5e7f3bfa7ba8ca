package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated member resolved from a token. Token issuance
// lives in the auth service; this package only verifies and extracts.
type Identity struct {
	MemberID int64
	Email    string
	Name     string
}

// GenerateToken signs an HS256 token carrying the member identity.
func GenerateToken(secret string, id Identity, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"mid":   id.MemberID,
		"email": id.Email,
		"name":  id.Name,
		"exp":   time.Now().Add(ttl).Unix(),
		"iat":   time.Now().Unix(),
		"iss":   "market-chat",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies tokenStr and returns the embedded identity.
func ParseToken(secret, tokenStr string) (Identity, error) {
	if tokenStr == "" {
		return Identity{}, errors.New("token is empty")
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return Identity{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, errors.New("invalid claims")
	}

	midF, ok1 := claims["mid"].(float64)
	email, ok2 := claims["email"].(string)
	name, _ := claims["name"].(string)
	if !ok1 || !ok2 {
		return Identity{}, errors.New("bad claims")
	}

	return Identity{MemberID: int64(midF), Email: email, Name: name}, nil
}
