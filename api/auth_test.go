package api_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/PhamNghia11/career-web/api"
	"github.com/PhamNghia11/career-web/internal/models"
	"github.com/PhamNghia11/career-web/pkg/repository/mock"
)

func TestAuthHandlers(t *testing.T) {
	secret := "testsecret"
	tokenDur := 1 * time.Hour

	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		prepare    func(m *mock.Mocks)
		wantStatus int
		checkBody  func(t *testing.T, body []byte, m *mock.Mocks)
	}{
		{
			name:       "Register_InvalidRequest",
			method:     http.MethodPost,
			path:       "/register",
			body:       "not a json",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Register_MissingFields_Name",
			method:     http.MethodPost,
			path:       "/register",
			body:       map[string]string{"email": "an@example.com", "password": "s3cret"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Register_MissingFields_Email",
			method:     http.MethodPost,
			path:       "/register",
			body:       map[string]string{"name": "An", "password": "s3cret"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Register_ShortPassword",
			method:     http.MethodPost,
			path:       "/register",
			body:       map[string]string{"name": "An", "email": "an@example.com", "password": "123"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Register_AdminRoleRejected",
			method:     http.MethodPost,
			path:       "/register",
			body:       map[string]string{"name": "An", "email": "an@example.com", "password": "s3cret", "role": "admin"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Register_DefaultsToStudent",
			method:     http.MethodPost,
			path:       "/register",
			body:       map[string]string{"name": "An", "email": "An@Example.com", "password": "s3cret", "phone": "090 123 4567"},
			wantStatus: http.StatusCreated,
			checkBody: func(t *testing.T, b []byte, m *mock.Mocks) {
				var resp struct {
					OK      bool           `json:"ok"`
					Account models.Account `json:"account"`
				}
				if err := json.Unmarshal(b, &resp); err != nil {
					t.Fatalf("unmarshal: %v", err)
				}
				if !resp.OK || resp.Account.Role != models.RoleStudent {
					t.Fatalf("unexpected response: %+v", resp)
				}
				stored := m.Accounts.Snapshot(resp.Account.ID)
				if stored == nil {
					t.Fatalf("account not stored")
				}
				if stored.Email != "an@example.com" || stored.Phone != "0901234567" {
					t.Fatalf("stored email/phone not normalized: %q %q", stored.Email, stored.Phone)
				}
				if stored.EmailVerified || stored.PhoneVerified {
					t.Fatalf("new account must start unverified")
				}
				if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret")) != nil {
					t.Fatalf("password hash does not match")
				}
				if bytes.Contains(b, []byte("s3cret")) || bytes.Contains(b, []byte(stored.PasswordHash)) {
					t.Fatalf("response leaks credentials: %s", b)
				}
			},
		},
		{
			name:       "Register_Employer",
			method:     http.MethodPost,
			path:       "/register",
			body:       map[string]string{"name": "Công ty", "email": "hr@acme.vn", "password": "s3cret", "role": "employer"},
			wantStatus: http.StatusCreated,
			checkBody: func(t *testing.T, b []byte, m *mock.Mocks) {
				if !bytes.Contains(b, []byte(`"role":"employer"`)) {
					t.Fatalf("unexpected body: %s", b)
				}
			},
		},
		{
			name:   "Register_DuplicateEmail",
			method: http.MethodPost,
			path:   "/register",
			body:   map[string]string{"name": "Dup", "email": "dup@example.com", "password": "s3cret"},
			prepare: func(m *mock.Mocks) {
				m.Accounts.Put(models.Account{Email: "dup@example.com", Role: models.RoleStudent})
			},
			wantStatus: http.StatusConflict,
			checkBody: func(t *testing.T, b []byte, m *mock.Mocks) {
				if !bytes.Contains(b, []byte("Email đã được sử dụng")) {
					t.Fatalf("unexpected body: %s", b)
				}
			},
		},
		{
			name:   "Register_StorageFailure",
			method: http.MethodPost,
			path:   "/register",
			body:   map[string]string{"name": "X", "email": "x@example.com", "password": "s3cret"},
			prepare: func(m *mock.Mocks) {
				m.Accounts.CreateErr = errors.New("disk full")
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "Signin_InvalidRequest",
			method:     http.MethodPost,
			path:       "/signin",
			body:       "not a json",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Signin_MissingFields_Password",
			method:     http.MethodPost,
			path:       "/signin",
			body:       map[string]string{"email": "missing@example.com"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Signin_MissingUser",
			method:     http.MethodPost,
			path:       "/signin",
			body:       map[string]string{"email": "missing@example.com", "password": "nop"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "Signin_Success",
			method: http.MethodPost,
			path:   "/signin",
			body:   map[string]string{"email": "bob@example.com", "password": "hunter2"},
			prepare: func(m *mock.Mocks) {
				hash, _ := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.DefaultCost)
				m.Accounts.Put(models.Account{ID: "acc-bob", Email: "bob@example.com", Role: models.RoleEmployer, PasswordHash: string(hash)})
			},
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, b []byte, m *mock.Mocks) {
				var ar struct {
					Token string `json:"token"`
				}
				if err := json.Unmarshal(b, &ar); err != nil {
					t.Fatalf("unmarshal token: %v", err)
				}
				tok, err := jwt.Parse(ar.Token, func(token *jwt.Token) (any, error) { return []byte(secret), nil })
				if err != nil {
					t.Fatalf("invalid token: %v", err)
				}
				claims := tok.Claims.(jwt.MapClaims)
				if claims["account_id"] != "acc-bob" || claims["role"] != "employer" {
					t.Fatalf("unexpected claims: %v", claims)
				}
				if expF, ok := claims["exp"].(float64); !ok || int64(expF) < time.Now().Unix() {
					t.Fatalf("invalid exp claim")
				}
			},
		},
		{
			name:   "Signin_WrongPassword",
			method: http.MethodPost,
			path:   "/signin",
			body:   map[string]string{"email": "c@example.com", "password": "wrongpw"},
			prepare: func(m *mock.Mocks) {
				hash, _ := bcrypt.GenerateFromPassword([]byte("rightpw"), bcrypt.DefaultCost)
				m.Accounts.Put(models.Account{Email: "c@example.com", PasswordHash: string(hash)})
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Signout_OK",
			method:     http.MethodPost,
			path:       "/signout",
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, b []byte, m *mock.Mocks) {
				if !bytes.Contains(b, []byte("signed out")) {
					t.Fatalf("unexpected body: %s", string(b))
				}
			},
		},
	}

	validator, err := api.NewValidator()
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := mock.NewMocks()
			if tt.prepare != nil {
				tt.prepare(mocks)
			}
			handler := api.NewAuthHandler(mocks.Accounts, validator, secret, tokenDur)

			var bodyReader io.Reader
			switch b := tt.body.(type) {
			case nil:
			case string:
				bodyReader = bytes.NewReader([]byte(b))
			default:
				raw, _ := json.Marshal(b)
				bodyReader = bytes.NewReader(raw)
			}
			req := httptest.NewRequest(tt.method, tt.path, bodyReader)
			w := httptest.NewRecorder()

			switch tt.path {
			case "/register":
				handler.Register(w, req)
			case "/signin":
				handler.Signin(w, req)
			case "/signout":
				handler.Signout(w, req)
			default:
				t.Fatalf("unknown path %s", tt.path)
			}

			res := w.Result()
			defer res.Body.Close()
			data, _ := io.ReadAll(res.Body)
			if res.StatusCode != tt.wantStatus {
				t.Fatalf("%s: expected status %d got %d body=%s", tt.name, tt.wantStatus, res.StatusCode, string(data))
			}
			if ct := res.Header.Get("Content-Type"); ct != "application/json" {
				t.Fatalf("content-type = %q", ct)
			}
			if tt.checkBody != nil {
				tt.checkBody(t, data, mocks)
			}
		})
	}
}

func TestRegisterThenSignin(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/v1/auth/register", map[string]string{
		"name": "Lan", "email": "lan@example.com", "password": "matkhau1",
	}, "")
	expectStatus(t, w, http.StatusCreated)

	w = env.do(t, http.MethodPost, "/v1/auth/signin", map[string]string{
		"email": "LAN@example.com", "password": "matkhau1",
	}, "")
	expectStatus(t, w, http.StatusOK)

	var resp struct {
		Token string `json:"token"`
	}
	decodeBody(t, w, &resp)

	w = env.do(t, http.MethodPost, "/v1/auth/signout", nil, resp.Token)
	expectStatus(t, w, http.StatusOK)
}
