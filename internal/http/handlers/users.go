package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prismhq/prism-api/internal/cache"
	"github.com/prismhq/prism-api/internal/config"
	"github.com/prismhq/prism-api/internal/domain/user"
	"github.com/prismhq/prism-api/internal/repo/postgres"
)

const usersListCacheKey = "users:list:v1"

type UserStore interface {
	List(ctx context.Context) ([]user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	UpdatePartial(ctx context.Context, id string, fields postgres.PartialUpdate) (user.User, error)
	Delete(ctx context.Context, id string) error
}

type UsersHandler struct {
	repo  UserStore
	cache *cache.Cache
}

func NewUsersHandler(repo UserStore, listCache *cache.Cache) *UsersHandler {
	return &UsersHandler{
		repo:  repo,
		cache: listCache,
	}
}

func (h *UsersHandler) ListUsers(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	if b, ok := h.cache.Get(cctx, usersListCacheKey); ok {
		RespondRawJSONWithETag(ctx, http.StatusOK, b)
		return
	}

	users, err := h.repo.List(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list users")
		return
	}

	b, err := json.Marshal(gin.H{
		"users": users,
		"count": len(users),
	})

	if err != nil {
		RespondInternal(ctx, "Could not list users")
		return
	}

	h.cache.Set(cctx, usersListCacheKey, b)

	RespondRawJSONWithETag(ctx, http.StatusOK, b)
}

func (h *UsersHandler) GetUser(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	u, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, user.ErrNotFound.Error())
			return
		}

		RespondInternal(ctx, "Could not fetch user")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{"user": u})
}

func (h *UsersHandler) UpdateUser(ctx *gin.Context) {
	id := ctx.Param("id")

	var req user.UpdateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// nil pointers were omitted from the payload and stay untouched
	fields := postgres.PartialUpdate{}

	if req.FirstName != nil {
		fields["firstName"] = postgres.FieldValue(*req.FirstName)
	}

	if req.LastName != nil {
		fields["lastName"] = postgres.FieldValue(*req.LastName)
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	u, err := h.repo.UpdatePartial(cctx, id, fields)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, user.ErrNotFound.Error())
			return
		}

		RespondInternal(ctx, "Could not update user")
		return
	}

	h.cache.Delete(cctx, usersListCacheKey)

	ctx.JSON(http.StatusOK, gin.H{"user": u})
}

func (h *UsersHandler) DeleteUser(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.repo.Delete(cctx, id)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, user.ErrNotFound.Error())
			return
		}

		RespondInternal(ctx, "Could not delete user")
		return
	}

	h.cache.Delete(cctx, usersListCacheKey)

	ctx.Status(http.StatusNoContent)
}
