package proctor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lshigami/proctorexam/config"
	"github.com/lshigami/proctorexam/internal/dto"
	"github.com/lshigami/proctorexam/internal/middleware"
	"github.com/lshigami/proctorexam/internal/model"
	"github.com/lshigami/proctorexam/internal/service"
	"github.com/lshigami/proctorexam/internal/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const testSecret = "controller-test-secret"

type stubProctor struct {
	resp dto.AnalyzeFrameResponseDTO
	err  error
}

func (s *stubProctor) Analyze(context.Context, session.Context, dto.AnalyzeFrameDTO) (dto.AnalyzeFrameResponseDTO, error) {
	return s.resp, s.err
}

type stubViolations struct {
	types []string
}

func (s *stubViolations) Record(_ context.Context, sc session.Context, violationType, _ string) (*dto.ViolationDTO, error) {
	s.types = append(s.types, violationType)
	return &dto.ViolationDTO{UserID: sc.UserID, Type: violationType}, nil
}

func (s *stubViolations) ListByUser(context.Context, uint) ([]dto.ViolationDTO, error) {
	return nil, nil
}

type stubHeartbeats struct {
	pings int
}

func (s *stubHeartbeats) Ping(context.Context, session.Context) error {
	s.pings++
	return nil
}

func (s *stubHeartbeats) LastSeen(context.Context, uint, *string) (*time.Time, error) {
	return nil, nil
}

func (s *stubHeartbeats) Liveness(context.Context, uint, *string) (dto.LivenessDTO, error) {
	return dto.LivenessDTO{}, nil
}

type noSessions struct{}

func (noSessions) FindByUser(context.Context, uint) (*model.ExamSession, error) { return nil, nil }
func (noSessions) Upsert(context.Context, *model.ExamSession) error { return nil }

func newRouter(pc *ProctorController) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = testSecret
	auth := service.NewAuthService(nil, cfg)

	r := gin.New()
	guard := func(deny middleware.DenyFunc) gin.HandlerFunc {
		return middleware.Authenticate(auth, noSessions{}, middleware.Options{
			Role:          model.RoleStudent,
			MissingStatus: http.StatusForbidden,
			Deny:          deny,
		})
	}
	r.POST("/proctor/analyze", guard(DenyAnalysis), pc.Analyze)
	r.POST("/proctor/violation", guard(DenyStatus), pc.ReportViolation)
	r.POST("/proctor/heartbeat", guard(DenyStatus), pc.Heartbeat)
	return r
}

func token(t *testing.T, role model.Role) string {
	t.Helper()
	claims := &service.Claims{
		UserID:   5,
		Username: "alice",
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return signed
}

func do(r http.Handler, path, bearer, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAnalyzeEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		proctor    *stubProctor
		bearer     func(t *testing.T) string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "no token",
			proctor:    &stubProctor{},
			bearer:     func(*testing.T) string { return "" },
			body:       `{"image":"data:image/png;base64,AAAA"}`,
			wantStatus: http.StatusForbidden,
			wantBody:   `{"violations":[],"score":0}`,
		},
		{
			name:       "admin token",
			proctor:    &stubProctor{},
			bearer:     func(t *testing.T) string { return token(t, model.RoleAdmin) },
			body:       `{"image":"data:image/png;base64,AAAA"}`,
			wantStatus: http.StatusForbidden,
			wantBody:   `{"violations":[],"score":0}`,
		},
		{
			name:       "missing image",
			proctor:    &stubProctor{},
			bearer:     func(t *testing.T) string { return token(t, model.RoleStudent) },
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"violations":[],"score":0}`,
		},
		{
			name:       "undecodable image",
			proctor:    &stubProctor{resp: dto.AnalyzeFrameResponseDTO{Violations: []string{}}, err: fmt.Errorf("%w: bad image", service.ErrInvalidInput)},
			bearer:     func(t *testing.T) string { return token(t, model.RoleStudent) },
			body:       `{"image":"not-a-data-url"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"violations":[],"score":0}`,
		},
		{
			name:       "vision unavailable",
			proctor:    &stubProctor{err: service.ErrUnavailable},
			bearer:     func(t *testing.T) string { return token(t, model.RoleStudent) },
			body:       `{"image":"data:image/png;base64,AAAA"}`,
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"violations":[],"score":0}`,
		},
		{
			name:       "no face",
			proctor:    &stubProctor{resp: dto.AnalyzeFrameResponseDTO{Violations: []string{"no_face"}, Score: 2}},
			bearer:     func(t *testing.T) string { return token(t, model.RoleStudent) },
			body:       `{"image":"data:image/png;base64,AAAA"}`,
			wantStatus: http.StatusOK,
			wantBody:   `{"violations":["no_face"],"score":2}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(NewProctorController(tt.proctor, &stubViolations{}, &stubHeartbeats{}))
			w := do(r, "/proctor/analyze", tt.bearer(t), tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			assertJSON(t, w.Body.Bytes(), tt.wantBody)
		})
	}
}

func TestViolationAndHeartbeatEndpoints(t *testing.T) {
	violations := &stubViolations{}
	heartbeats := &stubHeartbeats{}
	r := newRouter(NewProctorController(&stubProctor{}, violations, heartbeats))
	student := token(t, model.RoleStudent)

	w := do(r, "/proctor/violation", "", `{"type":"tab_hidden"}`)
	if w.Code != http.StatusForbidden {
		t.Fatalf("unauthenticated violation status = %d", w.Code)
	}
	assertJSON(t, w.Body.Bytes(), `{"status":"unauthorized"}`)

	w = do(r, "/proctor/violation", student, `{"type":"tab_hidden"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("violation status = %d (body %s)", w.Code, w.Body.String())
	}
	assertJSON(t, w.Body.Bytes(), `{"status":"ok"}`)

	w = do(r, "/proctor/violation", student, ``)
	if w.Code != http.StatusOK {
		t.Fatalf("empty body violation status = %d", w.Code)
	}
	if len(violations.types) != 2 || violations.types[0] != "tab_hidden" || violations.types[1] != "" {
		t.Errorf("recorded types = %q", violations.types)
	}

	w = do(r, "/proctor/heartbeat", "", ``)
	if w.Code != http.StatusForbidden {
		t.Fatalf("unauthenticated heartbeat status = %d", w.Code)
	}
	w = do(r, "/proctor/heartbeat", student, ``)
	if w.Code != http.StatusOK || heartbeats.pings != 1 {
		t.Fatalf("heartbeat status = %d pings = %d", w.Code, heartbeats.pings)
	}
	assertJSON(t, w.Body.Bytes(), `{"status":"ok"}`)
}

func TestRejectedProctorRequestsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	r := newRouter(NewProctorController(&stubProctor{}, &stubViolations{}, &stubHeartbeats{}))
	do(r, "/proctor/heartbeat", "", ``)
	do(r, "/proctor/analyze", "not-a-jwt", `{}`)

	var reasons []string
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var entry struct {
			Message string `json:"message"`
			Reason  string `json:"reason"`
			Path    string `json:"path"`
			Status  int    `json:"status"`
		}
		if json.Unmarshal(line, &entry) != nil || entry.Message != "Proctor: request rejected" {
			continue
		}
		if entry.Status != http.StatusForbidden {
			t.Errorf("logged status = %d, want 403", entry.Status)
		}
		reasons = append(reasons, entry.Path+" "+entry.Reason)
	}
	want := []string{"/proctor/heartbeat authorization required", "/proctor/analyze invalid or expired token"}
	if len(reasons) != len(want) || reasons[0] != want[0] || reasons[1] != want[1] {
		t.Errorf("logged rejections = %q, want %q", reasons, want)
	}
}

func assertJSON(t *testing.T, got []byte, want string) {
	t.Helper()
	var g, w interface{}
	if err := json.Unmarshal(got, &g); err != nil {
		t.Fatalf("response is not JSON: %s", got)
	}
	if err := json.Unmarshal([]byte(want), &w); err != nil {
		t.Fatalf("bad expectation %s", want)
	}
	gb, _ := json.Marshal(g)
	wb, _ := json.Marshal(w)
	if !bytes.Equal(gb, wb) {
		t.Errorf("body = %s, want %s", gb, wb)
	}
}
