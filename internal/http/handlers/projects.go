package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prismhq/prism-api/internal/cache"
	"github.com/prismhq/prism-api/internal/config"
	"github.com/prismhq/prism-api/internal/domain/project"
)

const projectsListCacheKey = "projects:list:v1"

type ProjectStore interface {
	List(ctx context.Context) ([]project.Project, error)
	GetByID(ctx context.Context, id string) (project.Project, error)
	Create(ctx context.Context, name string, description *string, ownerID string) (project.Project, error)
	Update(ctx context.Context, id, name string, description *string, status string) (project.Project, error)
	Delete(ctx context.Context, id string) error
}

type ProjectsHandler struct {
	repo  ProjectStore
	cache *cache.Cache
}

func NewProjectsHandler(repo ProjectStore, listCache *cache.Cache) *ProjectsHandler {
	return &ProjectsHandler{
		repo:  repo,
		cache: listCache,
	}
}

func (h *ProjectsHandler) ListProjects(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	if b, ok := h.cache.Get(cctx, projectsListCacheKey); ok {
		RespondRawJSONWithETag(ctx, http.StatusOK, b)
		return
	}

	projects, err := h.repo.List(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list projects")
		return
	}

	b, err := json.Marshal(gin.H{
		"projects": projects,
		"count":    len(projects),
	})

	if err != nil {
		RespondInternal(ctx, "Could not list projects")
		return
	}

	h.cache.Set(cctx, projectsListCacheKey, b)

	RespondRawJSONWithETag(ctx, http.StatusOK, b)
}

func (h *ProjectsHandler) GetProject(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	p, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, project.ErrNotFound) {
			RespondNotFound(ctx, project.ErrNotFound.Error())
			return
		}

		RespondInternal(ctx, "Could not fetch project")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{"project": p})
}

func (h *ProjectsHandler) CreateProject(ctx *gin.Context) {
	var req project.CreateProjectRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	// an omitted or empty description lands as NULL, not ""
	var description *string

	if req.Description != nil && *req.Description != "" {
		description = req.Description
	}

	p, err := h.repo.Create(cctx, req.Name, description, req.OwnerID)

	if err != nil {
		if errors.Is(err, project.ErrOwnerNotFound) {
			RespondError(ctx, http.StatusBadRequest, "invalid_argument", project.ErrOwnerNotFound.Error(), nil)
			return
		}

		RespondInternal(ctx, "Could not create project")
		return
	}

	h.cache.Delete(cctx, projectsListCacheKey)

	ctx.JSON(http.StatusCreated, gin.H{"project": p})
}

func (h *ProjectsHandler) UpdateProject(ctx *gin.Context) {
	id := ctx.Param("id")

	var req project.UpdateProjectRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	name := strings.TrimSpace(req.Name)
	status := strings.TrimSpace(req.Status)

	// explicit null and whitespace-only both store NULL
	var description *string

	if req.Description != nil {
		if trimmed := strings.TrimSpace(*req.Description); trimmed != "" {
			description = &trimmed
		}
	}

	p, err := h.repo.Update(cctx, id, name, description, status)

	if err != nil {
		if errors.Is(err, project.ErrNotFound) {
			RespondNotFound(ctx, project.ErrNotFound.Error())
			return
		}

		RespondInternal(ctx, "Could not update project")
		return
	}

	h.cache.Delete(cctx, projectsListCacheKey)

	ctx.JSON(http.StatusOK, gin.H{"project": p})
}

func (h *ProjectsHandler) DeleteProject(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.repo.Delete(cctx, id)

	if err != nil {
		if errors.Is(err, project.ErrNotFound) {
			RespondNotFound(ctx, project.ErrNotFound.Error())
			return
		}

		RespondInternal(ctx, "Could not delete project")
		return
	}

	h.cache.Delete(cctx, projectsListCacheKey)

	ctx.Status(http.StatusNoContent)
}
