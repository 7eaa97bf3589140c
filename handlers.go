package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/golang-jwt/jwt/v5"
)

func setupRoutes(r *gin.Engine) {
	r.POST("/webhook/:token", webhookHandler)
	r.GET("/health", healthHandler)
	r.GET("/", indexHandler)

	r.POST("/login", loginHandler)
	ops := r.Group("")
	ops.Use(jwtAuthMiddleware())
	ops.GET("/users", listUsersHandler)
	ops.GET("/bookings", listBookingsHandler)
}

// webhookHandler receives Telegram updates. The path token must match the
// bot token so third parties can't inject updates.
func webhookHandler(c *gin.Context) {
	if c.Param("token") != cfg.Token {
		c.Status(http.StatusForbidden)
		return
	}
	var update tgbotapi.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	// Process in a goroutine so Telegram gets its 200 immediately.
	go processUpdate(update)
	c.Status(http.StatusOK)
}

func healthHandler(c *gin.Context) {
	if err := pingDB(); err != nil {
		c.String(http.StatusInternalServerError, "bot is running but database connection failed: %v", err)
		return
	}
	c.String(http.StatusOK, "bot is running with database connection")
}

func indexHandler(c *gin.Context) {
	c.String(http.StatusOK, "tennis booking bot is running")
}

// loginHandler issues a JWT for the operator API.
func loginHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := authenticateOperator(req.Username, req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": req.Username,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	})
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenString})
}

func jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}
		token, err := jwt.Parse(authHeader[7:], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func listUsersHandler(c *gin.Context) {
	users, err := listUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, users)
}

func listBookingsHandler(c *gin.Context) {
	bookings, err := listAllBookings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, bookings)
}
