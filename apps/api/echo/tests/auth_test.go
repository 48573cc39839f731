package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	. "github.com/clinigoal/backoffice/apps/api/echo"
	"github.com/clinigoal/backoffice/core/user"
)

func Test_authApi_login(t *testing.T) {
	deactivated := user.User{Name: "Gone", Email: "gone@test.cd"}
	if err := deactivated.SetPassword("long enough"); err != nil {
		t.Fatalf("SetPassword(): %v", err)
	}
	if _, err := usrSvc.UpdateOrCreate(deactivated); err != nil {
		t.Fatalf("UpdateOrCreate(): %v", err)
	}

	fieldRequired := "this field is required"
	tests := []httpTest{
		{
			name:     "empty body",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"email": fieldRequired, "password": fieldRequired}),
		},
		{
			name:     "unknown account",
			body:     []byte(`{"email": "lol@test.cd", "password": "long enough"}`),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name:     "wrong password",
			body:     []byte(`{"email": "admin@test.cd", "password": "lol"}`),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name:     "deactivated account",
			body:     []byte(`{"email": "gone@test.cd", "password": "long enough"}`),
			wantCode: http.StatusForbidden,
			wantData: marshallObj(t, httpErr{Error: "account deactivated"}),
		},
		{
			name:     "email is case-insensitive",
			body:     []byte(`{"email": "ADMIN@Test.cd", "password": "long enough"}`),
			wantCode: http.StatusOK,
		},
		{
			name:     "ok",
			body:     []byte(`{"email": "admin@test.cd", "password": "long enough"}`),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/auth/login", tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Fatalf("code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
				}
				var resp TokenResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("unmarshal: %v", err)
				}
				if resp.Token == "" {
					t.Error("empty token")
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_authApi_tokenRefresh(t *testing.T) {
	t.Run("no token", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/auth/token-refresh")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)}, rec)
	})

	t.Run("ok", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/auth/token-refresh", getToken(t, admin))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var resp TokenResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if resp.Token == "" {
			t.Error("empty token")
		}
	})
}
