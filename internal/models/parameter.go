package models

import "time"

// Names of the five clean parameters owned by the settings endpoints.
const (
	ParamRoom       = "room"
	ParamMode       = "mode"
	ParamWaterLevel = "water_level"
	ParamFanLevel   = "fan_level"
	ParamCleanTimes = "clean_times"
)

// ParamNames lists all clean parameters in the order they are reported.
var ParamNames = []string{ParamRoom, ParamMode, ParamWaterLevel, ParamFanLevel, ParamCleanTimes}

// ParameterValue is one stored setting. Values are kept textual; numeric
// parameters are coerced when a clean request is assembled.
type ParameterValue struct {
	Name      string    `json:"name"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BridgeStatus is a snapshot of the settings and their readiness.
type BridgeStatus struct {
	Parameters map[string]string `json:"parameters"`          // present values by name
	Missing    []string          `json:"missing,omitempty"`   // parameters not yet set
	Ready      bool              `json:"ready"`               // all five present
	UpdatedAt  time.Time         `json:"updated_at"`
}
