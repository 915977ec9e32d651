package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"scnr_bridge/internal/models"
	"scnr_bridge/internal/service"
	"scnr_bridge/internal/switchbot"
)

func TestGetSettings(t *testing.T) {
	settings := &mockSettings{status: models.BridgeStatus{
		Parameters: map[string]string{"room": "ROOM_003"},
		Missing:    []string{"mode", "water_level", "fan_level", "clean_times"},
	}}
	auth := &mockAuth{parseID: 1}
	r := newTestRouter(&service.Service{Settings: settings, Authorization: auth})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil)
	req.Header = authHeader("tok")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	var st models.BridgeStatus
	_ = json.Unmarshal(w.Body.Bytes(), &st)
	if st.Parameters["room"] != "ROOM_003" || len(st.Missing) != 4 {
		t.Fatalf("unexpected settings payload: %+v", st)
	}
}

func TestGetSettings_ServiceError(t *testing.T) {
	settings := &mockSettings{statusErr: errors.New("db gone")}
	auth := &mockAuth{parseID: 1}
	r := newTestRouter(&service.Service{Settings: settings, Authorization: auth})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil)
	req.Header = authHeader("tok")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestGetRooms(t *testing.T) {
	settings := &mockSettings{rooms: []string{"ROOM_000", "ROOM_001"}}
	auth := &mockAuth{parseID: 1}
	r := newTestRouter(&service.Service{Settings: settings, Authorization: auth})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/settings/rooms", nil)
	req.Header = authHeader("tok")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	var m map[string][]string
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if len(m["rooms"]) != 2 || m["rooms"][0] != "ROOM_000" {
		t.Fatalf("unexpected rooms payload: %v", m)
	}
}

func TestPutSetting(t *testing.T) {
	cases := []struct {
		name     string
		param    string
		body     string
		setErr   error
		wantCode int
		wantSet  bool
	}{
		{
			name:     "valid update",
			param:    "room",
			body:     `{"value":"ROOM_003"}`,
			wantCode: http.StatusOK,
			wantSet:  true,
		},
		{
			name:     "missing value field",
			param:    "room",
			body:     `{}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "malformed body",
			param:    "room",
			body:     `{"value":`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "rejected value",
			param:    "water_level",
			body:     `{"value":"9"}`,
			setErr:   &switchbot.InvalidParameterError{Name: "water_level", Value: "9", Reason: "out of range"},
			wantCode: http.StatusBadRequest,
			wantSet:  true,
		},
		{
			name:     "storage failure",
			param:    "mode",
			body:     `{"value":"sweep"}`,
			setErr:   errors.New("db locked"),
			wantCode: http.StatusInternalServerError,
			wantSet:  true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			settings := &mockSettings{setErr: tc.setErr}
			auth := &mockAuth{parseID: 1}
			r := newTestRouter(&service.Service{Settings: settings, Authorization: auth})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPut, "/api/v1/settings/"+tc.param, bytes.NewBufferString(tc.body))
			req.Header = authHeader("tok")
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			if w.Code != tc.wantCode {
				t.Fatalf("status: got %d, want %d (body=%s)", w.Code, tc.wantCode, w.Body.String())
			}
			if tc.wantSet {
				if settings.setCalls != 1 {
					t.Fatalf("expected 1 Set call, got %d", settings.setCalls)
				}
				if settings.lastSetName != tc.param {
					t.Fatalf("Set called with name %q, want %q", settings.lastSetName, tc.param)
				}
			} else if settings.setCalls != 0 {
				t.Fatalf("expected no Set call on invalid body, got %d", settings.setCalls)
			}
		})
	}
}

func TestPutSetting_SuccessEchoesValue(t *testing.T) {
	settings := &mockSettings{}
	auth := &mockAuth{parseID: 1}
	r := newTestRouter(&service.Service{Settings: settings, Authorization: auth})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/settings/fan_level", bytes.NewBufferString(`{"value":"4"}`))
	req.Header = authHeader("tok")
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	var m map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if m["name"] != "fan_level" || m["value"] != "4" || m["status"] != "ok" {
		t.Fatalf("unexpected response: %v", m)
	}
	if settings.lastSetValue != "4" {
		t.Fatalf("Set called with value %q, want 4", settings.lastSetValue)
	}
}
