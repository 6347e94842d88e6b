package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ContextKey is the type for context keys.
type ContextKey string

const (
	// WalletIDKey is the context key for the session's wallet id.
	WalletIDKey ContextKey = "wallet_id"
	// AddressKey is the context key for the session's account address.
	AddressKey ContextKey = "address"
)

// Claims are the session token claims. One token corresponds to one
// unlocked wallet session.
type Claims struct {
	WalletID uuid.UUID `json:"wallet_id"`
	Address  string    `json:"address"`
	jwt.RegisteredClaims
}

// JWTService handles session token generation and validation.
type JWTService struct {
	secret []byte
}

func NewJWTService(secret string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
	}
}

// GenerateToken issues a 24-hour session token for a wallet.
func (s *JWTService) GenerateToken(walletID uuid.UUID, address string) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour)

	claims := &Claims{
		WalletID: walletID,
		Address:  address,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "walletd",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates a session token and returns the claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Reject unexpected algorithms outright.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}

// JWTMiddleware creates a middleware that validates session tokens.
func JWTMiddleware(jwtService *JWTService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := jwtService.ValidateToken(parts[1])
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), WalletIDKey, claims.WalletID)
			ctx = context.WithValue(ctx, AddressKey, claims.Address)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetWalletIDFromContext extracts the wallet id from the request context.
func GetWalletIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	walletID, ok := ctx.Value(WalletIDKey).(uuid.UUID)
	return walletID, ok
}

// GetAddressFromContext extracts the account address from the request context.
func GetAddressFromContext(ctx context.Context) (string, bool) {
	address, ok := ctx.Value(AddressKey).(string)
	return address, ok
}
