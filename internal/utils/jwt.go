package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL : expiration fixe, pas de refresh.
const TokenTTL = 24 * time.Hour

var ErrMissingEmail = errors.New("email claim is required")

// GenerateJWT signe les claims d'identité fournis (HS256). exp et iat sont toujours imposés par le serveur.
func GenerateJWT(identity map[string]any, secret []byte, now time.Time) (string, error) {
	email, _ := identity["email"].(string)
	if email == "" {
		return "", ErrMissingEmail
	}

	claims := jwt.MapClaims{}
	for k, v := range identity {
		claims[k] = v
	}
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(TokenTTL).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseJWT vérifie la signature (HMAC uniquement) et l'expiration.
func ParseJWT(tokenString string, secret []byte) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("méthode de signature inattendue: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("claims invalides")
	}
	return claims, nil
}

// ClaimEmail retourne le claim email, vide s'il est absent ou mal typé.
func ClaimEmail(claims jwt.MapClaims) string {
	email, _ := claims["email"].(string)
	return email
}
