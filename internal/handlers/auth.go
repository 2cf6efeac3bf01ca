package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"backend/internal/apperr"
	"backend/internal/config"
	"backend/internal/logger"
	"backend/internal/models"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a user account and returns a signed bearer token.
func Register(db *mongo.Database, jwtSecret string, tokenTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/user/register"

		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		name := strings.TrimSpace(req.Name)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("users").CountDocuments(ctx, bson.M{"email": email})
		if err != nil {
			respondError(c, route, apperr.Wrap(apperr.Internal, "", err))
			return
		}
		if count > 0 {
			respondError(c, route, apperr.New(apperr.Conflict, "User already exists."))
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondError(c, route, apperr.Wrap(apperr.Internal, "", err))
			return
		}

		now := time.Now()
		user := models.User{
			Name:         name,
			Email:        email,
			PasswordHash: string(hash),
			Role:         models.RoleUser,
			CartData:     models.CartData{},
			Addresses:    []models.Address{},
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		res, err := db.Collection("users").InsertOne(ctx, user)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondError(c, route, apperr.New(apperr.Conflict, "User already exists."))
				return
			}
			respondError(c, route, apperr.Wrap(apperr.Internal, "", err))
			return
		}

		id, _ := res.InsertedID.(primitive.ObjectID)
		token, err := issueUserToken(id, jwtSecret, tokenTTL)
		if err != nil {
			respondError(c, route, apperr.Wrap(apperr.Internal, "", err))
			return
		}

		logger.L().Info("user registered", zap.String("email", email))
		c.JSON(http.StatusCreated, gin.H{"success": true, "token": token})
	}
}

// Login authenticates a user by email and password.
func Login(db *mongo.Database, jwtSecret string, tokenTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/user/login"

		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
			if err == mongo.ErrNoDocuments {
				respondError(c, route, apperr.New(apperr.NotFound, "User doesn't exist."))
				return
			}
			respondError(c, route, apperr.Wrap(apperr.Internal, "", err))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			respondError(c, route, apperr.New(apperr.Unauthorized, "Invalid credentials."))
			return
		}

		token, err := issueUserToken(user.ID, jwtSecret, tokenTTL)
		if err != nil {
			respondError(c, route, apperr.Wrap(apperr.Internal, "", err))
			return
		}

		logger.L().Info("user login succeeded", zap.String("email", email))
		c.JSON(http.StatusOK, gin.H{"success": true, "token": token})
	}
}

// AdminLogin checks the configured admin credentials and issues a token
// carrying the admin role.
func AdminLogin(jwtSecret string, tokenTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/user/admin/login"

		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if req.Email != config.AppEnv.AdminEmail || req.Password != config.AppEnv.AdminPassword {
			respondError(c, route, apperr.New(apperr.Unauthorized, "Invalid credentials."))
			return
		}

		claims := jwt.MapClaims{
			"email": req.Email,
			"role":  models.RoleAdmin,
			"exp":   time.Now().Add(tokenTTL).Unix(),
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString([]byte(jwtSecret))
		if err != nil {
			respondError(c, route, apperr.Wrap(apperr.Internal, "", err))
			return
		}

		logger.L().Info("admin login succeeded", zap.String("email", req.Email))
		c.JSON(http.StatusOK, gin.H{"success": true, "token": signed})
	}
}

// GetProfile returns the caller's user record without the password hash.
func GetProfile(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/user/profile"

		userID, err := userIDFromContext(c)
		if err != nil {
			respondError(c, route, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			if err == mongo.ErrNoDocuments {
				respondError(c, route, apperr.New(apperr.NotFound, "User not found."))
				return
			}
			respondError(c, route, apperr.Wrap(apperr.Internal, "", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
	}
}

func issueUserToken(userID primitive.ObjectID, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"id":  userID.Hex(),
		"exp": time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// userIDFromContext reads the ObjectID placed by the UserAuth
// middleware.
func userIDFromContext(c *gin.Context) (primitive.ObjectID, error) {
	value, ok := c.Get("userId")
	if !ok {
		return primitive.NilObjectID, apperr.New(apperr.Unauthorized, "Not Authorized. Login Again.")
	}
	userID, ok := value.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, apperr.New(apperr.Unauthorized, "Not Authorized. Login Again.")
	}
	return userID, nil
}
