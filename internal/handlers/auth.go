package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hostwatch/internal/models"
)

const (
	// TokenCookie carries the session token alongside the Authorization
	// header; the dashboard relies on the cookie.
	TokenCookie = "token"

	sessionTTL  = 24 * time.Hour
	rememberTTL = 30 * 24 * time.Hour

	// DefaultUsername and DefaultPassword seed the credential store on
	// first boot so the query API is reachable out of the box.
	DefaultUsername = "admin"
	DefaultPassword = "admin123"
)

type sessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// EnsureDefaultUser creates the seeded default account when the users
// table is empty. Any later credential changes go through an
// administrative path, not this service.
func EnsureDefaultUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return db.Create(&models.User{
		Username:     DefaultUsername,
		PasswordHash: string(hash),
	}).Error
}

// Login verifies a username/password pair and issues a signed session
// token, delivered both in the response body and as an HTTP-only
// cookie. Unknown user and wrong password answer identically.
func (h *APIHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	var user models.User
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	ttl := sessionTTL
	if req.Remember {
		ttl = rememberTTL
	}
	signed, err := h.issueToken(user.Username, ttl)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.SetCookie(TokenCookie, signed, int(ttl.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"message":  "login successful",
		"token":    signed,
		"username": user.Username,
	})
}

// Logout clears the token cookie. Gated: it sits behind RequireToken
// like the query endpoints.
func (h *APIHandler) Logout(c *gin.Context) {
	c.SetCookie(TokenCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *APIHandler) issueToken(username string, ttl time.Duration) (string, error) {
	claims := sessionClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.TokenSecret)
}

// RequireToken gates read endpoints. The token is stateless, but the
// username inside it is re-resolved against the credential store on
// every request so a deleted account loses access without a token
// blacklist.
func (h *APIHandler) RequireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := tokenFromRequest(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		var claims sessionClaims
		_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return h.TokenSecret, nil
		})
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		var user models.User
		if err := h.DB.Where("username = ?", claims.Username).First(&user).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("username", user.Username)
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}
	return ""
}
