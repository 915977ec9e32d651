package switchbot

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

// Fixed client constants the vendor expects on every request.
const (
	clientID    = "5nnwmhmsa9xxskm14hd85lm9bm"
	appVersion  = "8.6.1"
	contentType = "application/json; charset=UTF-8"

	loginPath = "/account/api/v1/user/login"

	// deviceName/model identify the calling application to the account service.
	hostDeviceName = "Home Assistant"
	hostModel      = "Home Assistant"
)

// ClientIdentity is the stable installation UUID plus a generator for
// per-request UUIDs. The installation UUID never changes after construction;
// request UUIDs are never reused.
type ClientIdentity struct {
	InstallationID string
}

func NewClientIdentity() ClientIdentity {
	return ClientIdentity{InstallationID: uuid.NewString()}
}

// NewRequestID returns a fresh UUID for vendor-side request tracing.
func (ClientIdentity) NewRequestID() string {
	return uuid.NewString()
}

// Session owns the authentication token for one clean cycle. It knows how to
// (re)authenticate and how to decorate outgoing requests with the vendor's
// required header set.
type Session struct {
	creds     Credentials
	identity  ClientIdentity
	transport *Transport
	authHost  string

	token string
}

func NewSession(creds Credentials, identity ClientIdentity, transport *Transport, authHost string) *Session {
	return &Session{
		creds:     creds,
		identity:  identity,
		transport: transport,
		authHost:  authHost,
	}
}

// InstallationID exposes the stable installation UUID for payloads that embed it.
func (s *Session) InstallationID() string {
	return s.identity.InstallationID
}

// Authenticate sends a password-grant login and stores the access token.
// There is no retry here; retry policy belongs to the caller.
func (s *Session) Authenticate(ctx context.Context) error {
	headers := map[string]string{
		"authorization": "",
		"uuid":          s.identity.InstallationID,
		"requestid":     s.identity.NewRequestID(),
		"appversion":    appVersion,
		"content-type":  contentType,
	}
	payload := map[string]any{
		"clientId": clientID,
		"deviceInfo": map[string]string{
			"deviceId":   s.identity.InstallationID,
			"deviceName": hostDeviceName,
			"model":      hostModel,
		},
		"grantType":  "password",
		"password":   s.creds.Password,
		"username":   s.creds.Username,
		"verifyCode": "",
	}

	data, err := s.transport.PostJSON(ctx, s.authHost+loginPath, headers, payload)
	if err != nil {
		return &AuthError{Reason: "login request failed", Err: err}
	}

	var resp struct {
		Body struct {
			AccessToken string `json:"access_token"`
		} `json:"body"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return &AuthError{Reason: "malformed login response", Err: err}
	}
	if resp.Body.AccessToken == "" {
		return &AuthError{Reason: "login response missing access_token"}
	}

	s.token = resp.Body.AccessToken
	return nil
}

// AuthorizedHeaders returns the header set for authenticated calls, with a
// fresh request UUID each time. Fails before the first successful Authenticate.
func (s *Session) AuthorizedHeaders() (map[string]string, error) {
	if s.token == "" {
		return nil, ErrNotAuthenticated
	}
	return map[string]string{
		"authorization": s.token,
		"uuid":          s.identity.InstallationID,
		"requestid":     s.identity.NewRequestID(),
		"appversion":    appVersion,
		"content-type":  contentType,
	}, nil
}
