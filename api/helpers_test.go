package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"

	"github.com/PhamNghia11/career-web/api"
	"github.com/PhamNghia11/career-web/internal/config"
	"github.com/PhamNghia11/career-web/internal/models"
	"github.com/PhamNghia11/career-web/internal/moderation"
	"github.com/PhamNghia11/career-web/internal/notify"
	"github.com/PhamNghia11/career-web/internal/otp"
	"github.com/PhamNghia11/career-web/pkg/repository/mock"
)

const testSecret = "testsecret"

type fakeOTP struct {
	reqErr    error
	verifyErr error
	account   *models.Account
	calls     []string
}

func (f *fakeOTP) RequestChallenge(ctx context.Context, identifier string, ch models.Channel) (*otp.Ack, error) {
	f.calls = append(f.calls, "request:"+string(ch)+":"+identifier)
	if f.reqErr != nil {
		return nil, f.reqErr
	}
	return &otp.Ack{Channel: ch, ExpiresAt: time.Now().Add(otp.ChallengeTTL)}, nil
}

func (f *fakeOTP) VerifyChallenge(ctx context.Context, identifier string, ch models.Channel, code string) (*models.Account, error) {
	f.calls = append(f.calls, "verify:"+string(ch)+":"+identifier+":"+code)
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.account, nil
}

type testEnv struct {
	router *mux.Router
	mocks  *mock.Mocks
	otp    *fakeOTP
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	m := mock.NewMocks()
	router := notify.NewRouter(m.Notifications, nil)
	machine := moderation.NewMachine(moderation.Deps{
		Jobs:     m.Jobs,
		Accounts: m.Accounts,
		Notifier: router,
	}, nil)
	fo := &fakeOTP{}

	cfg := &config.Config{JWTSecret: testSecret, TokenDuration: time.Hour}
	r, err := api.SetupRoutes(cfg, "test", "now", api.Services{
		Accounts:      m.Accounts,
		OTP:           fo,
		Jobs:          machine,
		Notifications: router,
	})
	if err != nil {
		t.Fatalf("SetupRoutes: %v", err)
	}

	return &testEnv{router: r, mocks: m, otp: fo}
}

func tokenFor(t *testing.T, accountID string, role models.Role) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"account_id": accountID,
		"role":       string(role),
		"exp":        time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

type errorBody struct {
	OK    bool `json:"ok"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var eb errorBody
	decodeBody(t, w, &eb)
	if eb.OK {
		t.Fatalf("expected ok=false in %s", w.Body.String())
	}
	return eb.Error.Code
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d; body %s", w.Code, want, w.Body.String())
	}
}
