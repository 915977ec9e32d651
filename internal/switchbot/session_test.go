package switchbot

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestSession_AuthorizedHeaders_BeforeAuthenticate(t *testing.T) {
	s := NewSession(Credentials{Username: "u", Password: "p"}, NewClientIdentity(), NewTransport(), "http://unused")

	_, err := s.AuthorizedHeaders()
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestSession_Authenticate_Success(t *testing.T) {
	identity := NewClientIdentity()

	var gotPath string
	var gotHeaders http.Header
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHeaders = r.Header.Clone()
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		_, _ = w.Write([]byte(`{"body":{"access_token":"tok-123"}}`))
	}))
	defer srv.Close()

	s := NewSession(Credentials{Username: "user@example.com", Password: "hunter2"}, identity, NewTransport(), srv.URL)
	if err := s.Authenticate(context.Background()); err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}

	if gotPath != loginPath {
		t.Errorf("expected login path %q, got %q", loginPath, gotPath)
	}
	if v := gotHeaders.Get("uuid"); v != identity.InstallationID {
		t.Errorf("expected uuid header %q, got %q", identity.InstallationID, v)
	}
	if v := gotHeaders.Get("requestid"); v == "" || v == identity.InstallationID {
		t.Errorf("expected a fresh request id, got %q", v)
	}
	if _, err := uuid.Parse(gotHeaders.Get("requestid")); err != nil {
		t.Errorf("requestid is not a UUID: %v", err)
	}
	if v := gotHeaders.Get("appversion"); v != appVersion {
		t.Errorf("expected appversion %q, got %q", appVersion, v)
	}
	if v := gotHeaders.Get("content-type"); v != contentType {
		t.Errorf("expected content-type %q, got %q", contentType, v)
	}

	// Login payload contract.
	if gotBody["clientId"] != clientID {
		t.Errorf("expected clientId %q, got %v", clientID, gotBody["clientId"])
	}
	if gotBody["grantType"] != "password" {
		t.Errorf("expected grantType password, got %v", gotBody["grantType"])
	}
	if gotBody["username"] != "user@example.com" || gotBody["password"] != "hunter2" {
		t.Errorf("credentials not carried in payload: %v", gotBody)
	}
	if gotBody["verifyCode"] != "" {
		t.Errorf("expected empty verifyCode, got %v", gotBody["verifyCode"])
	}
	devInfo, ok := gotBody["deviceInfo"].(map[string]any)
	if !ok {
		t.Fatalf("deviceInfo missing from payload: %v", gotBody)
	}
	if devInfo["deviceId"] != identity.InstallationID {
		t.Errorf("expected deviceId %q, got %v", identity.InstallationID, devInfo["deviceId"])
	}
	if devInfo["deviceName"] != hostDeviceName || devInfo["model"] != hostModel {
		t.Errorf("unexpected deviceInfo identity: %v", devInfo)
	}

	headers, err := s.AuthorizedHeaders()
	if err != nil {
		t.Fatalf("AuthorizedHeaders after login: %v", err)
	}
	if headers["authorization"] != "tok-123" {
		t.Errorf("expected authorization tok-123, got %q", headers["authorization"])
	}

	// Request ids must never repeat between calls.
	more, _ := s.AuthorizedHeaders()
	if headers["requestid"] == more["requestid"] {
		t.Errorf("request id reused across calls: %q", headers["requestid"])
	}
	if headers["uuid"] != more["uuid"] {
		t.Errorf("installation uuid changed between calls: %q vs %q", headers["uuid"], more["uuid"])
	}
}

func TestSession_Authenticate_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"wrong password"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	s := NewSession(Credentials{Username: "u", Password: "bad"}, NewClientIdentity(), NewTransport(), srv.URL)
	err := s.Authenticate(context.Background())

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *AuthError, got %T (%v)", err, err)
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Status != http.StatusUnauthorized {
		t.Fatalf("expected wrapped 401 StatusError, got %v", err)
	}
}

func TestSession_Authenticate_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	s := NewSession(Credentials{Username: "u", Password: "p"}, NewClientIdentity(), NewTransport(), srv.URL)
	err := s.Authenticate(context.Background())

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *AuthError for malformed body, got %T (%v)", err, err)
	}
}

func TestSession_Authenticate_MissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"body":{}}`))
	}))
	defer srv.Close()

	s := NewSession(Credentials{Username: "u", Password: "p"}, NewClientIdentity(), NewTransport(), srv.URL)
	err := s.Authenticate(context.Background())

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *AuthError for empty token, got %T (%v)", err, err)
	}
	if _, hErr := s.AuthorizedHeaders(); !errors.Is(hErr, ErrNotAuthenticated) {
		t.Fatalf("session must stay unauthenticated after a failed login, got %v", hErr)
	}
}

func TestSession_Authenticate_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	s := NewSession(Credentials{Username: "u", Password: "p"}, NewClientIdentity(), NewTransport(), srv.URL)
	err := s.Authenticate(context.Background())

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *AuthError, got %T (%v)", err, err)
	}
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected wrapped *TransportError, got %v", err)
	}
}
