package utils

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Principal kinds carried in the token "type" claim.
const (
	PrincipalStaff    = "staff"
	PrincipalUser     = "user" // legacy accounts from before the staff/customer split
	PrincipalCustomer = "customer"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Principal is an authenticated actor resolved from a verified token.
type Principal struct {
	Kind string
	ID   string
	Role string // staff only
}

// Generate JWT secret key (run once initially)
func GenerateJWTSecret() string {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic("failed to generate JWT secret")
	}
	return base64.StdEncoding.EncodeToString(key)
}

// Hash password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

// Check password
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateToken issues a signed token for a principal. Besides the "type"
// claim it sets a kind-specific id claim (staffId/userId/customerId) so
// verifiers predating the "type" claim can still resolve the principal.
func GenerateToken(principalID, kind string, extra map[string]interface{}) (string, error) {
	expiryHours := 24 // default
	if env := os.Getenv("JWT_EXPIRY_HOURS"); env != "" {
		if h, err := strconv.Atoi(env); err == nil {
			expiryHours = h
		}
	}

	claims := jwt.MapClaims{
		"sub":  principalID,
		"type": kind,
		"exp":  time.Now().Add(time.Duration(expiryHours) * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}
	switch kind {
	case PrincipalStaff:
		claims["staffId"] = principalID
	case PrincipalCustomer:
		claims["customerId"] = principalID
	default:
		claims["userId"] = principalID
	}
	for k, v := range extra {
		claims[k] = v
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET not set")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies a token and maps its claims onto a Principal.
// Tokens issued before the "type" claim existed are recognised by which
// kind-specific id claim they carry; a bare "sub" means a legacy user.
func ParseToken(tokenString string) (*Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	p := &Principal{}
	if kind, _ := claims["type"].(string); kind != "" {
		p.Kind = kind
	} else if _, ok := claims["staffId"]; ok {
		p.Kind = PrincipalStaff
	} else if _, ok := claims["customerId"]; ok {
		p.Kind = PrincipalCustomer
	} else {
		p.Kind = PrincipalUser
	}

	switch p.Kind {
	case PrincipalStaff:
		p.ID, _ = claims["staffId"].(string)
	case PrincipalCustomer:
		p.ID, _ = claims["customerId"].(string)
	default:
		p.ID, _ = claims["userId"].(string)
	}
	if p.ID == "" {
		p.ID, _ = claims["sub"].(string)
	}
	if p.ID == "" {
		return nil, ErrInvalidToken
	}

	p.Role, _ = claims["role"].(string)
	return p, nil
}

func bearerToken(c *gin.Context) string {
	tokenString := c.GetHeader("Authorization")
	if len(tokenString) > 7 && strings.ToUpper(tokenString[0:6]) == "BEARER" {
		return tokenString[7:]
	}
	return tokenString
}

// AuthMiddleware authenticates the request and, when kinds are given,
// rejects principals of any other kind with 403.
func AuthMiddleware(kinds ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization header required"})
			return
		}

		principal, err := ParseToken(tokenString)
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, ErrExpiredToken) {
				msg = "Token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msg})
			return
		}

		if len(kinds) > 0 {
			allowed := false
			for _, k := range kinds {
				if principal.Kind == k {
					allowed = true
					break
				}
			}
			if !allowed {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Insufficient permissions"})
				return
			}
		}

		c.Set("principalId", principal.ID)
		c.Set("principalKind", principal.Kind)
		c.Set("principalRole", principal.Role)
		c.Next()
	}
}

// AdminOnly must run after AuthMiddleware(PrincipalStaff).
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if role, _ := c.Get("principalRole"); role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Admin role required"})
			return
		}
		c.Next()
	}
}

// OAuthProfile is a provider-verified identity payload. Token
// verification against the provider happens upstream; this layer only
// consumes the result.
type OAuthProfile struct {
	Subject string `json:"sub" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Name    string `json:"name"`
}

// ExchangeOAuthProfile normalises a verified OAuth profile into customer
// identity fields. Pure function: no strategy registry, no session state.
func ExchangeOAuthProfile(p OAuthProfile) (email, name, googleID string, err error) {
	email = strings.ToLower(strings.TrimSpace(p.Email))
	if email == "" || p.Subject == "" {
		return "", "", "", errors.New("profile missing subject or email")
	}
	name = strings.TrimSpace(p.Name)
	if name == "" {
		name = email
	}
	return email, name, p.Subject, nil
}
