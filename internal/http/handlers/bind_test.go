package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/prismhq/prism-api/internal/http/handlers"
)

type bindProbe struct {
	Email   string `json:"email" binding:"required,email"`
	OwnerID string `json:"ownerId" binding:"required,uuid"`
	Name    string `json:"name" binding:"omitempty,min=2,max=10"`
}

// Mounts a handler that only binds, so the 400 details can be inspected
// in isolation.

func bindRouter() *gin.Engine {
	return setupRouter(http.MethodPost, "/probe", func(c *gin.Context) {
		var req bindProbe
		if !handlers.BindJSON(c, &req) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
}

type bindErrorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details struct {
			JSON   string                `json:"json"`
			Reason string                `json:"reason"`
			Fields []handlers.FieldError `json:"fields"`
		} `json:"details"`
	} `json:"error"`
}

func decodeBindError(t *testing.T, body []byte) bindErrorBody {
	t.Helper()

	var out bindErrorBody
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("bad error body: %v", err)
	}

	return out
}

func fieldRules(out bindErrorBody) map[string]string {
	rules := make(map[string]string, len(out.Error.Details.Fields))
	for _, f := range out.Error.Details.Fields {
		rules[f.Field] = f.Rule
	}
	return rules
}

func TestBindJSONValidationDetails(t *testing.T) {
	r := bindRouter()

	tests := []struct {
		name      string
		body      string
		wantRules map[string]string
	}{
		{
			name:      "missing_required_fields",
			body:      `{}`,
			wantRules: map[string]string{"email": "required", "ownerId": "required"},
		},
		{
			name:      "bad_email_and_uuid",
			body:      `{"email":"not-an-email","ownerId":"not-a-uuid"}`,
			wantRules: map[string]string{"email": "email", "ownerId": "uuid"},
		},
		{
			name:      "name_too_short",
			body:      `{"email":"a@x.com","ownerId":"b51acaaf-6b17-4f8d-9e37-4f7dbe5b2b53","name":"x"}`,
			wantRules: map[string]string{"name": "min"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, r, "/probe", tt.body)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
			}

			out := decodeBindError(t, w.Body.Bytes())

			if out.Error.Code != "invalid_argument" {
				t.Fatalf("got code %q, want invalid_argument", out.Error.Code)
			}

			got := fieldRules(out)
			for field, rule := range tt.wantRules {
				if got[field] != rule {
					t.Fatalf("field %q: got rule %q, want %q (fields=%v)", field, got[field], rule, out.Error.Details.Fields)
				}
			}
		})
	}
}

func TestBindJSONUsesJSONFieldNames(t *testing.T) {
	r := bindRouter()

	w := postJSON(t, r, "/probe", `{"email":"a@x.com"}`)

	out := decodeBindError(t, w.Body.Bytes())

	for _, f := range out.Error.Details.Fields {
		if f.Field == "OwnerID" {
			t.Fatalf("struct field name leaked into details: %+v", f)
		}
	}
}

func TestBindJSONSyntaxError(t *testing.T) {
	r := bindRouter()

	w := postJSON(t, r, "/probe", `{email: "a@x.com"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d", w.Code)
	}

	out := decodeBindError(t, w.Body.Bytes())

	if out.Error.Details.JSON != "invalid_json_syntax" {
		t.Fatalf("got details %+v, want invalid_json_syntax", out.Error.Details)
	}
}

func TestBindJSONTypeMismatch(t *testing.T) {
	r := bindRouter()

	w := postJSON(t, r, "/probe", `{"email":123}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d", w.Code)
	}

	out := decodeBindError(t, w.Body.Bytes())

	if out.Error.Details.JSON != "invalid_json_type" {
		t.Fatalf("got details %+v, want invalid_json_type", out.Error.Details)
	}

	rules := fieldRules(out)
	if rules["email"] != "type" {
		t.Fatalf("got rules %v, want email type mismatch", rules)
	}
}
