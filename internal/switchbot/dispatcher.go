package switchbot

import (
	"context"
	"encoding/json"
	"fmt"
)

const (
	invokePath = "/command/cmd/api/v1/func/invoke"

	// functionIDClean is the vendor's opaque "invoke device function" code,
	// always parameterized here as clean_rooms.
	functionIDClean = 1001
)

// cleanMode is the mode block the vendor expects both at command level and
// inside each room entry.
type cleanMode struct {
	FanLevel   int    `json:"fan_level"`
	Times      int    `json:"times"`
	Type       string `json:"type"`
	WaterLevel int    `json:"water_level"`
}

type cleanRoomEntry struct {
	Mode   cleanMode `json:"mode"`
	RoomID string    `json:"room_id"`
}

type cleanParams struct {
	ForceOrder bool             `json:"force_order"`
	Mode       cleanMode        `json:"mode"`
	Rooms      []cleanRoomEntry `json:"rooms"`
}

// CommandDispatcher builds and sends the clean-rooms command for a resolved
// device, delegating authorization to the Session.
type CommandDispatcher struct {
	transport *Transport
	apiHost   string
}

func NewCommandDispatcher(transport *Transport, apiHost string) *CommandDispatcher {
	return &CommandDispatcher{transport: transport, apiHost: apiHost}
}

// CleanRoom validates req, builds the function-1001 payload and posts it.
// The vendor duplicates the mode block at command level and room level, and
// takes exactly one room per call. Returns the raw vendor response on 2xx.
// Not idempotent: re-sending re-triggers cleaning on the physical device.
func (d *CommandDispatcher) CleanRoom(ctx context.Context, session *Session, device DeviceRef, req CleanRequest) (json.RawMessage, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	headers, err := session.AuthorizedHeaders()
	if err != nil {
		return nil, err
	}

	mode := cleanMode{
		FanLevel:   req.FanLevel,
		Times:      req.Times,
		Type:       req.Mode,
		WaterLevel: req.WaterLevel,
	}
	// MQTT response topic per the vendor's convention; embeds the
	// installation UUID twice.
	notifyURL := fmt.Sprintf("v1_1/%s/APP_HA_%s/funcResp", session.InstallationID(), session.InstallationID())

	payload := map[string]any{
		"deviceID":   device.ID,
		"functionID": functionIDClean,
		"notify": map[string]string{
			"type": "mqtt",
			"url":  notifyURL,
		},
		"params": map[string]any{
			"0": "clean_rooms",
			"1": cleanParams{
				ForceOrder: true,
				Mode:       mode,
				Rooms: []cleanRoomEntry{
					{Mode: mode, RoomID: req.Room},
				},
			},
		},
	}

	data, err := d.transport.PostJSON(ctx, d.apiHost+invokePath, headers, payload)
	if err != nil {
		return nil, &CommandError{Err: err}
	}
	return json.RawMessage(data), nil
}
