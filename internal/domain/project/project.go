package project

import (
	"errors"
	"time"
)

type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	OwnerID     string    `json:"ownerId"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Every new project starts in DRAFT; status is otherwise free-form.
const DefaultStatus = "DRAFT"

var (
	ErrNotFound      = errors.New("project not found")
	ErrOwnerNotFound = errors.New("owner not found")
)

type CreateProjectRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	OwnerID     string  `json:"ownerId" binding:"required,uuid"`
}

// Full-field update: every field is sent on each call. A nil (or
// blank-after-trim) description stores NULL.
type UpdateProjectRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Status      string  `json:"status" binding:"required,min=1,max=50"`
}
