package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/prismhq/prism-api/internal/domain/user"
	"github.com/prismhq/prism-api/internal/http/handlers"
	"github.com/prismhq/prism-api/internal/repo/postgres"
)

type fakeUserStore struct {
	listFn   func(ctx context.Context) ([]user.User, error)
	getFn    func(ctx context.Context, id string) (user.User, error)
	updateFn func(ctx context.Context, id string, fields postgres.PartialUpdate) (user.User, error)
	deleteFn func(ctx context.Context, id string) error
}

func (f *fakeUserStore) List(ctx context.Context) ([]user.User, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return []user.User{}, nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id string) (user.User, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return user.User{}, nil
}

func (f *fakeUserStore) UpdatePartial(ctx context.Context, id string, fields postgres.PartialUpdate) (user.User, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, fields)
	}
	return user.User{}, nil
}

func (f *fakeUserStore) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func TestListUsersKeepsRepoOrder(t *testing.T) {
	now := time.Now().UTC()

	newest := user.User{ID: uuid.NewString(), Email: "new@x.com", CreatedAt: now}
	oldest := user.User{ID: uuid.NewString(), Email: "old@x.com", CreatedAt: now.Add(-time.Hour)}

	store := &fakeUserStore{
		listFn: func(ctx context.Context) ([]user.User, error) {
			// the repo orders by created_at DESC; the handler must not reorder
			return []user.User{newest, oldest}, nil
		},
	}

	h := handlers.NewUsersHandler(store, nil)
	r := setupRouter(http.MethodGet, "/users", h.ListUsers)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var out struct {
		Users []user.User `json:"users"`
		Count int         `json:"count"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}

	if out.Count != 2 || len(out.Users) != 2 {
		t.Fatalf("want 2 users, got %+v", out)
	}

	if out.Users[0].Email != "new@x.com" || out.Users[1].Email != "old@x.com" {
		t.Fatalf("order changed: %+v", out.Users)
	}
}

func TestGetUserNotFound(t *testing.T) {
	store := &fakeUserStore{
		getFn: func(ctx context.Context, id string) (user.User, error) {
			return user.User{}, user.ErrNotFound
		},
	}

	h := handlers.NewUsersHandler(store, nil)
	r := setupRouter(http.MethodGet, "/users/:id", h.GetUser)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/"+uuid.NewString(), nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d", w.Code)
	}

	if msg := errorMessage(t, w.Body.Bytes()); msg != "user not found" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestUpdateUserPartialFields(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantFields map[string]any
	}{
		{
			name:       "only_first_name",
			body:       `{"firstName":"Ada"}`,
			wantFields: map[string]any{"first_name": "Ada"},
		},
		{
			name:       "only_last_name",
			body:       `{"lastName":"Lovelace"}`,
			wantFields: map[string]any{"last_name": "Lovelace"},
		},
		{
			name: "both",
			body: `{"firstName":"Ada","lastName":"Lovelace"}`,
			wantFields: map[string]any{
				"first_name": "Ada",
				"last_name":  "Lovelace",
			},
		},
		{
			name:       "neither",
			body:       `{}`,
			wantFields: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got postgres.PartialUpdate

			store := &fakeUserStore{
				updateFn: func(ctx context.Context, id string, fields postgres.PartialUpdate) (user.User, error) {
					got = fields
					return user.User{ID: id}, nil
				},
			}

			h := handlers.NewUsersHandler(store, nil)
			r := setupRouter(http.MethodPatch, "/users/:id", h.UpdateUser)

			req := httptest.NewRequest(http.MethodPatch, "/users/"+uuid.NewString(), bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
			}

			fields, _ := got.SQLFields()

			if len(fields) != len(tt.wantFields) {
				t.Fatalf("got fields %v, want %v", fields, tt.wantFields)
			}

			for col, want := range tt.wantFields {
				if fields[col] != want {
					t.Fatalf("field %s: got %v, want %v", col, fields[col], want)
				}
			}
		})
	}
}

func TestUpdateUserNotFound(t *testing.T) {
	store := &fakeUserStore{
		updateFn: func(ctx context.Context, id string, fields postgres.PartialUpdate) (user.User, error) {
			return user.User{}, user.ErrNotFound
		},
	}

	h := handlers.NewUsersHandler(store, nil)
	r := setupRouter(http.MethodPatch, "/users/:id", h.UpdateUser)

	req := httptest.NewRequest(http.MethodPatch, "/users/"+uuid.NewString(), bytes.NewBufferString(`{"firstName":"A"}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d", w.Code)
	}
}

func TestDeleteUser(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		store := &fakeUserStore{}

		h := handlers.NewUsersHandler(store, nil)
		r := setupRouter(http.MethodDelete, "/users/:id", h.DeleteUser)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/users/"+uuid.NewString(), nil))

		if w.Code != http.StatusNoContent {
			t.Fatalf("got status %d", w.Code)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		store := &fakeUserStore{
			deleteFn: func(ctx context.Context, id string) error {
				return user.ErrNotFound
			},
		}

		h := handlers.NewUsersHandler(store, nil)
		r := setupRouter(http.MethodDelete, "/users/:id", h.DeleteUser)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/users/"+uuid.NewString(), nil))

		if w.Code != http.StatusNotFound {
			t.Fatalf("got status %d", w.Code)
		}
	})
}
