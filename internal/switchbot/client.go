package switchbot

import (
	"context"
	"encoding/json"
	"strings"
)

// Default vendor endpoints (EU region).
const (
	DefaultAuthHost = "https://account.api.switchbot.net"
	DefaultAPIHost  = "https://wonderlabs.eu.api.switchbot.net"
)

// Config defines runtime configuration for the vendor client.
type Config struct {
	Username string
	Password string
	AuthHost string // defaults to DefaultAuthHost
	APIHost  string // defaults to DefaultAPIHost
}

func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.AuthHost) == "" {
		c.AuthHost = DefaultAuthHost
	}
	if strings.TrimSpace(c.APIHost) == "" {
		c.APIHost = DefaultAPIHost
	}
	c.AuthHost = strings.TrimSuffix(c.AuthHost, "/")
	c.APIHost = strings.TrimSuffix(c.APIHost, "/")
	return c
}

// Client ties Session, DeviceRegistry and CommandDispatcher together behind
// one installation identity. The installation UUID is generated once here and
// stays stable for the client's lifetime; sessions come and go per cycle.
type Client struct {
	cfg        Config
	identity   ClientIdentity
	transport  *Transport
	registry   *DeviceRegistry
	dispatcher *CommandDispatcher
	cache      SessionCache
}

func NewClient(cfg Config, cache SessionCache) *Client {
	cfg = cfg.withDefaults()
	if cache == nil {
		cache = NoCache{}
	}
	transport := NewTransport()
	return &Client{
		cfg:        cfg,
		identity:   NewClientIdentity(),
		transport:  transport,
		registry:   NewDeviceRegistry(transport, cfg.APIHost),
		dispatcher: NewCommandDispatcher(transport, cfg.APIHost),
		cache:      cache,
	}
}

// InstallationID exposes the stable installation UUID.
func (c *Client) InstallationID() string {
	return c.identity.InstallationID
}

// Connect returns an authenticated session and a resolved device, reusing the
// cache when its policy allows.
func (c *Client) Connect(ctx context.Context) (*Session, DeviceRef, error) {
	if session, device, ok := c.cache.Get(); ok {
		return session, device, nil
	}

	session := NewSession(
		Credentials{Username: c.cfg.Username, Password: c.cfg.Password},
		c.identity,
		c.transport,
		c.cfg.AuthHost,
	)
	if err := session.Authenticate(ctx); err != nil {
		return nil, DeviceRef{}, err
	}

	device, err := c.registry.ResolveDevice(ctx, session)
	if err != nil {
		return nil, DeviceRef{}, err
	}

	c.cache.Put(session, device)
	return session, device, nil
}

// Dispatch sends one clean command with an already-connected session.
func (c *Client) Dispatch(ctx context.Context, session *Session, device DeviceRef, req CleanRequest) (json.RawMessage, error) {
	resp, err := c.dispatcher.CleanRoom(ctx, session, device, req)
	if err != nil {
		// A cached session may have gone stale vendor-side; drop it so the
		// next cycle re-authenticates.
		c.cache.Invalidate()
		return nil, err
	}
	return resp, nil
}

// CleanRoom runs login + device lookup (per cache policy) and dispatches one
// clean command. Returns the raw vendor response body.
func (c *Client) CleanRoom(ctx context.Context, req CleanRequest) (json.RawMessage, error) {
	session, device, err := c.Connect(ctx)
	if err != nil {
		return nil, err
	}
	return c.Dispatch(ctx, session, device, req)
}
