package handler

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"togedr/backend/internal/config"
	"togedr/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	jwt "github.com/golang-jwt/jwt/v5"
)

const userIDKey = "user_id"

func jwtSecret() []byte {
	if v := os.Getenv("JWT_SECRET"); v != "" {
		return []byte(v)
	}
	return []byte("togedr-dev-secret")
}

// GenerateJWT issues a signed bearer token for a user ID.
func GenerateJWT(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(config.TokenTTL).Unix(),
		"iss":     config.TokenIssuer,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// ValidateJWT parses a token and returns the user ID it was issued for.
func ValidateJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return "", errors.New("missing user_id claim")
	}
	return userID, nil
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(authHeader, "Bearer "), true
}

// RequireAuth is the gin middleware that resolves the caller's identity from
// the Authorization header. Every ownership and membership check downstream
// trusts the identity set here.
func (h *Handler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
			return
		}
		userID, err := ValidateJWT(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

func callerID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

type registerRequest struct {
	Name              string   `json:"name" binding:"required"`
	ProfilePictureURL string   `json:"profile_picture_url"`
	Interests         []string `json:"interests"`
}

// Register creates an identity and returns it with a bearer token. Credential
// handling proper lives in the external auth collaborator; this is the
// minimal surface the core needs.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := &models.User{
		Name:              req.Name,
		ProfilePictureURL: req.ProfilePictureURL,
		Interests:         pq.StringArray(req.Interests),
	}
	if err := h.Storage.SaveUser(user); err != nil {
		fail(c, err)
		return
	}

	token, err := GenerateJWT(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

// Me returns the caller's profile.
func (h *Handler) Me(c *gin.Context) {
	user, err := h.Storage.GetUserByID(callerID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
