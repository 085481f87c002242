package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prismhq/prism-api/internal/auth"
	"github.com/prismhq/prism-api/internal/cache"
	"github.com/prismhq/prism-api/internal/config"
	"github.com/prismhq/prism-api/internal/domain/user"
	"github.com/prismhq/prism-api/internal/security"
)

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type UserWriter interface {
	Create(ctx context.Context, email, passwordHash, firstName, lastName, role string) (user.User, error)
}

type PasswordVerifier interface {
	VerifyPassword(ctx context.Context, email, password string) (auth.Identity, error)
}

type AuthHandler struct {
	users    UserReader
	writer   UserWriter
	verifier PasswordVerifier
	cache    *cache.Cache
}

func NewAuthHandler(users UserReader, writer UserWriter, verifier PasswordVerifier, listCache *cache.Cache) *AuthHandler {
	return &AuthHandler{
		users:    users,
		writer:   writer,
		verifier: verifier,
		cache:    listCache,
	}
}

type SignUpRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) SignUp(ctx *gin.Context) {
	var req SignUpRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	u, err := h.writer.Create(cctx, req.Email, hash, req.FirstName, req.LastName, user.DefaultRole)

	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			RespondConflict(ctx, "already_exists", "a user with this email already exists")
			return
		}

		RespondInternal(ctx, "Could not create user")
		return
	}

	h.cache.Delete(cctx, usersListCacheKey)

	// the hash never serializes: json:"-" on the domain type
	ctx.JSON(http.StatusCreated, gin.H{"user": u})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, req.Email)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// same wording as a failed password check; an unknown email
			// must not be distinguishable by message
			RespondNotFound(ctx, auth.ErrBadEmailOrPassword.Error())
			return
		}

		RespondInternal(ctx, "Could not log in")
		return
	}

	_, err = h.verifier.VerifyPassword(cctx, req.Email, req.Password)

	if err != nil {
		if errors.Is(err, auth.ErrBadEmailOrPassword) {
			RespondUnauthorized(ctx, "unauthenticated", err.Error())
			return
		}

		RespondInternal(ctx, "Could not log in")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": foundUser})
}
