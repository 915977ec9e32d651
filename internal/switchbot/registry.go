package switchbot

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	getDevicePath = "/wonder/device/v3/getdevice"

	// deviceNameMatch selects the target robot out of the account's device list.
	deviceNameMatch = "Floor Cleaning Robot S10"
)

// DeviceRegistry resolves the logical floor-cleaning robot to its vendor
// device identifier, using an authenticated Session for authorization.
type DeviceRegistry struct {
	transport *Transport
	apiHost   string
}

func NewDeviceRegistry(transport *Transport, apiHost string) *DeviceRegistry {
	return &DeviceRegistry{transport: transport, apiHost: apiHost}
}

// ResolveDevice lists the account's devices and returns the first entry whose
// name contains the target model substring. First match wins; multiple
// matching devices are not disambiguated.
func (r *DeviceRegistry) ResolveDevice(ctx context.Context, session *Session) (DeviceRef, error) {
	headers, err := session.AuthorizedHeaders()
	if err != nil {
		return DeviceRef{}, err
	}

	data, err := r.transport.PostJSON(ctx, r.apiHost+getDevicePath, headers, map[string]string{
		"required_type": "All",
	})
	if err != nil {
		return DeviceRef{}, fmt.Errorf("list devices: %w", err)
	}

	var resp struct {
		Body struct {
			Items []struct {
				DeviceName string `json:"device_name"`
				DeviceMAC  string `json:"device_mac"`
			} `json:"Items"`
		} `json:"body"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return DeviceRef{}, fmt.Errorf("decode device list: %w", err)
	}

	for _, item := range resp.Body.Items {
		if strings.Contains(item.DeviceName, deviceNameMatch) {
			return DeviceRef{ID: item.DeviceMAC}, nil
		}
	}
	return DeviceRef{}, ErrDeviceNotFound
}
