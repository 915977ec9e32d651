package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"scnr_bridge/internal/models"
	"scnr_bridge/internal/switchbot"
)

// Readiness polling budget: 20 attempts at 500ms spacing, ~10s total.
const (
	pollInterval = 500 * time.Millisecond
	pollAttempts = 20
)

// ParameterStore resolves the current value of one named clean parameter.
// The second return reports presence: settings may not be initialized yet
// right after startup, and readiness polling waits for them.
type ParameterStore interface {
	Get(ctx context.Context, name string) (string, bool, error)
}

// ReadinessTimeoutError reports which parameters never became resolvable
// within the attempt ceiling.
type ReadinessTimeoutError struct {
	Missing []string
}

func (e *ReadinessTimeoutError) Error() string {
	return fmt.Sprintf("parameters not ready after %d attempts: %s",
		pollAttempts, strings.Join(e.Missing, ", "))
}

// ReadinessPoller waits for all five clean parameters to become resolvable,
// then assembles the CleanRequest. States: Probing -> Ready | TimedOut; both
// are terminal for one invocation, a fresh trigger starts a new run.
type ReadinessPoller struct {
	store    ParameterStore
	interval time.Duration
	attempts int
}

func NewReadinessPoller(store ParameterStore) *ReadinessPoller {
	return &ReadinessPoller{
		store:    store,
		interval: pollInterval,
		attempts: pollAttempts,
	}
}

// Await polls until every parameter resolves or the attempt ceiling is hit.
// A coercion failure is a data-shape bug, not a transient absence: it aborts
// the run immediately without consuming the retry budget. Cancelling ctx
// stops polling and no command is dispatched.
func (p *ReadinessPoller) Await(ctx context.Context) (switchbot.CleanRequest, error) {
	var missing []string
	for attempt := 1; ; attempt++ {
		req, miss, err := p.resolveOnce(ctx)
		if err != nil {
			return switchbot.CleanRequest{}, err
		}
		if len(miss) == 0 {
			return req, nil // Ready
		}
		missing = miss
		if attempt >= p.attempts {
			break // TimedOut
		}
		select {
		case <-ctx.Done():
			return switchbot.CleanRequest{}, ctx.Err()
		case <-time.After(p.interval):
		}
	}
	return switchbot.CleanRequest{}, &ReadinessTimeoutError{Missing: missing}
}

// resolveOnce reads all five parameters and reports the missing ones.
func (p *ReadinessPoller) resolveOnce(ctx context.Context) (switchbot.CleanRequest, []string, error) {
	var (
		req     switchbot.CleanRequest
		missing []string
	)

	for _, name := range models.ParamNames {
		value, ok, err := p.store.Get(ctx, name)
		if err != nil {
			return switchbot.CleanRequest{}, nil, fmt.Errorf("read parameter %s: %w", name, err)
		}
		if !ok {
			missing = append(missing, name)
			continue
		}

		switch name {
		case models.ParamRoom:
			req.Room = value
		case models.ParamMode:
			req.Mode = value
		case models.ParamWaterLevel:
			req.WaterLevel, err = coerceInt(name, value)
		case models.ParamFanLevel:
			req.FanLevel, err = coerceInt(name, value)
		case models.ParamCleanTimes:
			req.Times, err = coerceInt(name, value)
		}
		if err != nil {
			return switchbot.CleanRequest{}, nil, err
		}
	}

	if len(missing) > 0 {
		return switchbot.CleanRequest{}, missing, nil
	}
	return req, nil, nil
}

// coerceInt converts a textual/float-like parameter value ("2", "1.0") to an
// integer, truncating any fractional part the way the settings UI serialized it.
func coerceInt(name, value string) (int, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, &switchbot.InvalidParameterError{Name: name, Value: value, Reason: "not numeric"}
	}
	return int(f), nil
}
