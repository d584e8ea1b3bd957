package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Tipos de token emitidos.
const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Role viaja en el token para que el middleware RBAC decida sin consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`       // "admin" | "superadmin"
	TokenType string `json:"token_type"` // "access" | "refresh"
}

// Generate genera un token de acceso firmado (HS256) con userID, username y role.
func Generate(secret, userID, username, role, issuer string, expMinutes int) (string, error) {
	return sign(secret, issuer, TokenAccess, userID, username, role, time.Duration(expMinutes)*time.Minute)
}

// GenerateRefresh genera un token de refresco; solo sirve para pedir un nuevo token de acceso.
func GenerateRefresh(secret, userID, username, role, issuer string, expMinutes int) (string, error) {
	return sign(secret, issuer, TokenRefresh, userID, username, role, time.Duration(expMinutes)*time.Minute)
}

func sign(secret, issuer, tokenType, userID, username, role string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:    userID,
		Username:  username,
		Role:      role,
		TokenType: tokenType,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida firma y expiración y devuelve los claims.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return claims, nil
}

// ParseAccess como Parse pero rechaza tokens que no sean de acceso.
func ParseAccess(secret, tokenString string) (*Claims, error) {
	claims, err := Parse(secret, tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenAccess {
		return nil, fmt.Errorf("jwt: se esperaba token de acceso")
	}
	return claims, nil
}
