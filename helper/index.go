package helper

import (
	"fmt"

	"bus_ticketing/model"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func ParseToken(tokenString string, secret []byte) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// only HMAC signatures are accepted
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})

	return token, err
}

// ClaimFromToken reads the user id and role from a parsed token. Tokens carry
// userId as a JSON number.
func ClaimFromToken(token *jwt.Token) (model.TokenClaim, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return model.TokenClaim{}, fmt.Errorf("unexpected claims type")
	}
	rawID, ok := claims["userId"].(float64)
	if !ok || rawID <= 0 {
		return model.TokenClaim{}, fmt.Errorf("token has no userId")
	}
	role, _ := claims["role"].(string)
	return model.TokenClaim{UserId: uint(rawID), Role: role}, nil
}
