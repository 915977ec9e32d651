package service

import (
	"context"
	"errors"
	"sync"

	"scnr_bridge/internal/logger"
	"scnr_bridge/internal/models"
	"scnr_bridge/internal/repository"
	"scnr_bridge/internal/switchbot"
)

// CleanerService coordinates one clean cycle:
// authenticate -> resolve device -> poll readiness -> dispatch.
// Each invocation is one sequential task; the per-device lock is the optional
// duplicate-command suppression policy point (the vendor app allows duplicates).
type CleanerService struct {
	client    *switchbot.Client
	poller    *ReadinessPoller
	eventRepo repository.EventRepo
	log       *logger.Logger
	exclusive bool
	debug     bool

	locks sync.Map // device id -> *sync.Mutex
}

func NewCleanerService(client *switchbot.Client, store ParameterStore, eventRepo repository.EventRepo, log *logger.Logger, exclusive, debug bool) *CleanerService {
	return &CleanerService{
		client:    client,
		poller:    NewReadinessPoller(store),
		eventRepo: eventRepo,
		log:       log,
		exclusive: exclusive,
		debug:     debug,
	}
}

// Device resolves the target robot (login + device lookup) without cleaning.
func (s *CleanerService) Device(ctx context.Context) (switchbot.DeviceRef, error) {
	_, device, err := s.client.Connect(ctx)
	return device, err
}

// Clean runs one full cycle. Every failure terminates the pipeline before the
// invoke call; the command is only ever sent once all prior steps succeed.
func (s *CleanerService) Clean(ctx context.Context) error {
	s.appendEvent(ctx, models.EventTrigger, "Clean cycle triggered", nil)

	session, device, err := s.client.Connect(ctx)
	if err != nil {
		s.failCycle(ctx, "connect", err)
		return err
	}

	if s.exclusive {
		unlock := s.lockDevice(device.ID)
		defer unlock()
	}

	req, err := s.poller.Await(ctx)
	if err != nil {
		var timeout *ReadinessTimeoutError
		if errors.As(err, &timeout) {
			s.appendEvent(ctx, models.EventTimeout, "Parameters did not become ready", map[string]any{
				"missing": timeout.Missing,
			})
			if s.log != nil {
				s.log.Errorw("clean_readiness_timeout", "missing", timeout.Missing)
			}
			return err
		}
		s.failCycle(ctx, "readiness", err)
		return err
	}

	s.appendEvent(ctx, models.EventReady, "Parameters resolved", map[string]any{
		"room": req.Room, "mode": req.Mode,
		"water_level": req.WaterLevel, "fan_level": req.FanLevel, "times": req.Times,
	})

	resp, err := s.client.Dispatch(ctx, session, device, req)
	if err != nil {
		s.failCycle(ctx, "dispatch", err)
		return err
	}

	s.appendEvent(ctx, models.EventDispatch, "Clean command sent", map[string]any{
		"device_id": device.ID,
		"room":      req.Room,
		"response":  string(resp),
	})
	if s.log != nil {
		s.log.Infow("clean_dispatched", "device_id", device.ID, "room", req.Room)
		if s.debug {
			s.log.Debugw("vendor_response", "body", string(resp))
		}
	}
	return nil
}

// lockDevice serializes cycles per device id and returns the unlock func.
func (s *CleanerService) lockDevice(deviceID string) func() {
	v, _ := s.locks.LoadOrStore(deviceID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *CleanerService) failCycle(ctx context.Context, stage string, err error) {
	if s.log != nil {
		s.log.Errorw("clean_cycle_failed", "stage", stage, "err", err)
	}
	s.appendEvent(ctx, models.EventError, "Clean cycle failed during "+stage, map[string]any{
		"stage": stage,
		"error": err.Error(),
	})
}

// appendEvent records a cycle event; event-log failures must not mask the
// pipeline outcome, so they are only logged.
func (s *CleanerService) appendEvent(ctx context.Context, typ, description string, meta map[string]any) {
	if s.eventRepo == nil {
		return
	}
	ev := models.CleanEvent{Type: typ, Description: description}
	if meta != nil {
		ev.Metadata = meta
	}
	if err := s.eventRepo.Append(ctx, ev); err != nil && s.log != nil {
		s.log.Errorw("event_append_failed", "type", typ, "err", err)
	}
}
