package users

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"producthunt_back_end/internal/database"
	"producthunt_back_end/internal/middleware"
	"producthunt_back_end/internal/models"
	"producthunt_back_end/internal/utils"
)

type Store interface {
	ListUsers(ctx context.Context) ([]models.Document, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	InsertUser(ctx context.Context, user models.Document) (primitive.ObjectID, bool, error)
	SetUserRole(ctx context.Context, id primitive.ObjectID, role string) (models.UpdateResult, error)
}

type Handler struct {
	store  Store
	secret []byte
	log    zerolog.Logger
	now    func() time.Time
}

func NewHandler(store Store, secret []byte, log zerolog.Logger) *Handler {
	return &Handler{store: store, secret: secret, log: log, now: time.Now}
}

// IssueToken - POST /jwt : signe les claims reçus (email obligatoire), valable 24h.
func (h *Handler) IssueToken(c *gin.Context) {
	var identity map[string]any
	if err := c.ShouldBindJSON(&identity); err != nil || identity == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "body must be a JSON object"})
		return
	}

	token, err := utils.GenerateJWT(identity, h.secret, h.now())
	if errors.Is(err, utils.ErrMissingEmail) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email is required"})
		return
	}
	if err != nil {
		middleware.RespondError(c, h.log, err, "Erreur génération token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// GetUsers - GET /users (admin)
func (h *Handler) GetUsers(c *gin.Context) {
	users, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		middleware.RespondError(c, h.log, err, "Erreur lecture utilisateurs")
		return
	}
	c.JSON(http.StatusOK, users)
}

// CheckAdmin - GET /users/admin/:email
func (h *Handler) CheckAdmin(c *gin.Context) {
	user, err := h.lookup(c)
	if err != nil {
		middleware.RespondError(c, h.log, err, "Erreur lecture rôle")
		return
	}
	c.JSON(http.StatusOK, gin.H{"admin": user.IsAdmin()})
}

// CheckModerator - GET /users/moderator/:email
func (h *Handler) CheckModerator(c *gin.Context) {
	user, err := h.lookup(c)
	if err != nil {
		middleware.RespondError(c, h.log, err, "Erreur lecture rôle")
		return
	}
	c.JSON(http.StatusOK, gin.H{"moderator": user.IsModerator()})
}

// lookup : un utilisateur inconnu n'a aucun rôle (nil, nil).
func (h *Handler) lookup(c *gin.Context) (*models.User, error) {
	user, err := h.store.FindUserByEmail(c.Request.Context(), c.Param("email"))
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	return user, err
}

// CreateUser - POST /users : insertion unique par email.
func (h *Handler) CreateUser(c *gin.Context) {
	var user models.Document
	if err := c.ShouldBindJSON(&user); err != nil || user == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "user must be a JSON object"})
		return
	}

	email, _ := user["email"].(string)
	if strings.TrimSpace(email) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email is required"})
		return
	}

	id, inserted, err := h.store.InsertUser(c.Request.Context(), user)
	if err != nil {
		middleware.RespondError(c, h.log, err, "Erreur création utilisateur")
		return
	}
	if !inserted {
		c.JSON(http.StatusOK, gin.H{"message": "user already exists", "insertedId": nil})
		return
	}

	middleware.LoggerFrom(c, h.log).Info().Str("user_id", id.Hex()).Str("email", email).Msg("✅ Utilisateur créé")
	c.JSON(http.StatusCreated, models.Inserted(id))
}

// SetRole - PATCH /users/admin/:id et /users/moderator/:id (admin)
func (h *Handler) SetRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := database.ParseID(c.Param("id"))
		if err != nil {
			middleware.RespondError(c, h.log, err, "ID utilisateur invalide")
			return
		}

		res, err := h.store.SetUserRole(c.Request.Context(), id, role)
		if err != nil {
			middleware.RespondError(c, h.log, err, "Erreur mise à jour rôle")
			return
		}

		middleware.LoggerFrom(c, h.log).Info().
			Str("user_id", id.Hex()).
			Str("role", role).
			Int64("matched", res.MatchedCount).
			Msg("🔑 Rôle mis à jour")
		c.JSON(http.StatusOK, res)
	}
}
