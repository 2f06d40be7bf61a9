package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/studybuddy-app/studybuddy/internal/model"
)

type fakeLookup struct {
	users map[int64]*model.User
}

func (f *fakeLookup) GetUserByID(id int64) (*model.User, error) {
	return f.users[id], nil
}

func testUser() *model.User {
	return &model.User{ID: 42, Username: "sam", Active: true}
}

func TestIssueAndParse(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	token, err := svc.IssueToken(testUser())
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	claims, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Subject != "sam" {
		t.Errorf("Subject = %q, want sam", claims.Subject)
	}
}

func TestParseRejectsBadTokens(t *testing.T) {
	svc := NewService("test-secret", time.Hour)
	other := NewService("other-secret", time.Hour)
	expired := NewService("test-secret", -time.Hour)

	good, _ := svc.IssueToken(testUser())
	wrongKey, _ := other.IssueToken(testUser())
	old, _ := expired.IssueToken(testUser())

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"wrong key", wrongKey},
		{"expired", old},
		{"tampered", good + "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Parse(tt.token); err == nil {
				t.Error("Parse accepted a bad token")
			}
		})
	}
}

func TestMiddleware(t *testing.T) {
	svc := NewService("test-secret", time.Hour)
	lookup := &fakeLookup{users: map[int64]*model.User{
		42: testUser(),
		43: {ID: 43, Username: "off", Active: false},
	}}

	var gotUser *model.User
	handler := svc.Middleware(lookup)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = model.UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	goodToken, _ := svc.IssueToken(testUser())
	inactiveToken, _ := svc.IssueToken(&model.User{ID: 43, Username: "off"})
	unknownToken, _ := svc.IssueToken(&model.User{ID: 99, Username: "ghost"})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid token", "Bearer " + goodToken, http.StatusOK},
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"invalid token", "Bearer junk", http.StatusUnauthorized},
		{"inactive user", "Bearer " + inactiveToken, http.StatusUnauthorized},
		{"unknown user", "Bearer " + unknownToken, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUser = nil
			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.status == http.StatusOK && (gotUser == nil || gotUser.ID != 42) {
				t.Errorf("context user = %+v, want id 42", gotUser)
			}
		})
	}
}
