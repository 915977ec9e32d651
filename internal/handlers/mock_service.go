package handlers

import (
	"context"
	"net/http"
	"time"

	"scnr_bridge/internal/models"
	"scnr_bridge/internal/service"
	"scnr_bridge/internal/switchbot"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockCleaner struct {
	cleanErr     error
	device       switchbot.DeviceRef
	deviceErr    error
	cleanCalled  int
	deviceCalled int
	cleanDone    chan struct{} // closed-ish signal channel for async trigger tests
}

func (m *mockCleaner) Clean(ctx context.Context) error {
	m.cleanCalled++
	if m.cleanDone != nil {
		m.cleanDone <- struct{}{}
	}
	return m.cleanErr
}
func (m *mockCleaner) Device(ctx context.Context) (switchbot.DeviceRef, error) {
	m.deviceCalled++
	return m.device, m.deviceErr
}

type mockSettings struct {
	status    models.BridgeStatus
	statusErr error
	setErr    error
	rooms     []string

	lastSetName  string
	lastSetValue string
	setCalls     int
}

func (m *mockSettings) Set(ctx context.Context, name, value string) error {
	m.setCalls++
	m.lastSetName = name
	m.lastSetValue = value
	return m.setErr
}
func (m *mockSettings) Status(ctx context.Context) (models.BridgeStatus, error) {
	return m.status, m.statusErr
}
func (m *mockSettings) Rooms() []string {
	return m.rooms
}

type mockEventLog struct {
	resp     []models.CleanEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.CleanEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
