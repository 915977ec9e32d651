package service

import (
	"context"
	"strings"
	"time"

	"scnr_bridge/internal/models"
	"scnr_bridge/internal/repository"
	"scnr_bridge/internal/switchbot"
)

// defaultRooms is the room set the original app shipped with; overridable via
// the rooms list in configuration since the codes may be per-installation.
var defaultRooms = []string{
	"ROOM_000", "ROOM_001", "ROOM_002", "ROOM_003", "ROOM_004",
	"ROOM_005", "ROOM_006", "ROOM_007", "ROOM_008", "ROOM_009",
}

// ParamsService owns reads and independent updates of the five clean
// parameters. Values are stored textually; range checks happen here so the
// dispatcher's contract with the settings surface holds.
type ParamsService struct {
	paramRepo repository.ParamRepo
	eventRepo repository.EventRepo
	rooms     []string
}

func NewParamsService(paramRepo repository.ParamRepo, eventRepo repository.EventRepo, rooms []string) *ParamsService {
	if len(rooms) == 0 {
		rooms = defaultRooms
	}
	return &ParamsService{paramRepo: paramRepo, eventRepo: eventRepo, rooms: rooms}
}

// Ensure the cleaner can poll through this service at compile time.
var _ ParameterStore = (*ParamsService)(nil)

// Rooms returns the configured room codes.
func (s *ParamsService) Rooms() []string {
	return s.rooms
}

// Get resolves one parameter for readiness polling.
func (s *ParamsService) Get(ctx context.Context, name string) (string, bool, error) {
	return s.paramRepo.Get(ctx, name)
}

// Set validates and stores one parameter. Each parameter is independently
// settable; the others keep their previous (or absent) values.
func (s *ParamsService) Set(ctx context.Context, name, value string) error {
	name = strings.TrimSpace(strings.ToLower(name))
	value = strings.TrimSpace(value)

	if err := s.validate(name, value); err != nil {
		return err
	}
	if err := s.paramRepo.Set(ctx, name, value); err != nil {
		return err
	}
	if s.eventRepo != nil {
		_ = s.eventRepo.Append(ctx, models.CleanEvent{
			Type:        models.EventSettingChange,
			Description: "Setting " + name + " changed",
			Metadata:    map[string]any{"name": name, "value": value},
		})
	}
	return nil
}

// Status reports the current snapshot and which parameters are still absent.
func (s *ParamsService) Status(ctx context.Context) (models.BridgeStatus, error) {
	values, err := s.paramRepo.All(ctx)
	if err != nil {
		return models.BridgeStatus{}, err
	}

	status := models.BridgeStatus{
		Parameters: make(map[string]string, len(models.ParamNames)),
		UpdatedAt:  time.Now().UTC(),
	}
	for _, name := range models.ParamNames {
		if v, ok := values[name]; ok {
			status.Parameters[name] = v
		} else {
			status.Missing = append(status.Missing, name)
		}
	}
	status.Ready = len(status.Missing) == 0
	return status, nil
}

func (s *ParamsService) validate(name, value string) error {
	switch name {
	case models.ParamRoom:
		for _, room := range s.rooms {
			if room == value {
				return nil
			}
		}
		return &switchbot.InvalidParameterError{Name: name, Value: value, Reason: "unknown room code"}
	case models.ParamMode:
		if value != switchbot.ModeSweep && value != switchbot.ModeSweepMop {
			return &switchbot.InvalidParameterError{Name: name, Value: value, Reason: "must be sweep or sweep_mop"}
		}
		return nil
	case models.ParamWaterLevel:
		return validateRange(name, value, switchbot.MinWaterLevel, switchbot.MaxWaterLevel)
	case models.ParamFanLevel:
		return validateRange(name, value, switchbot.MinFanLevel, switchbot.MaxFanLevel)
	case models.ParamCleanTimes:
		return validateRange(name, value, switchbot.MinCleanTimes, switchbot.MaxCleanTimes)
	default:
		return &switchbot.InvalidParameterError{Name: name, Value: value, Reason: "unknown parameter"}
	}
}

func validateRange(name, value string, min, max int) error {
	n, err := coerceInt(name, value)
	if err != nil {
		return err
	}
	if n < min || n > max {
		return &switchbot.InvalidParameterError{Name: name, Value: value, Reason: "out of range"}
	}
	return nil
}
