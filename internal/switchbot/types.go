package switchbot

// Clean modes accepted by the S10.
const (
	ModeSweep    = "sweep"
	ModeSweepMop = "sweep_mop"
)

// Parameter bounds; these are a contract with the settings endpoints.
const (
	MinWaterLevel = 1
	MaxWaterLevel = 2
	MinFanLevel   = 1
	MaxFanLevel   = 4
	MinCleanTimes = 1
	MaxCleanTimes = 2
)

// Credentials are the vendor-account username/password, owned by configuration.
type Credentials struct {
	Username string
	Password string
}

// DeviceRef addresses a resolved device by its MAC-like vendor identifier.
type DeviceRef struct {
	ID string `json:"id"`
}

// CleanRequest is a fully-populated room-cleaning order. All five fields must
// be concretely known before dispatch; partial requests are invalid.
type CleanRequest struct {
	Room       string `json:"room"`
	Mode       string `json:"mode"` // sweep | sweep_mop
	WaterLevel int    `json:"water_level"`
	FanLevel   int    `json:"fan_level"`
	Times      int    `json:"times"`
}

// Validate checks the range/type contract before any network call.
func (r CleanRequest) Validate() error {
	if r.Room == "" {
		return &InvalidParameterError{Name: "room", Value: r.Room, Reason: "must not be empty"}
	}
	if r.Mode != ModeSweep && r.Mode != ModeSweepMop {
		return &InvalidParameterError{Name: "mode", Value: r.Mode, Reason: "must be sweep or sweep_mop"}
	}
	if r.WaterLevel < MinWaterLevel || r.WaterLevel > MaxWaterLevel {
		return &InvalidParameterError{Name: "water_level", Value: r.WaterLevel, Reason: "must be 1..2"}
	}
	if r.FanLevel < MinFanLevel || r.FanLevel > MaxFanLevel {
		return &InvalidParameterError{Name: "fan_level", Value: r.FanLevel, Reason: "must be 1..4"}
	}
	if r.Times < MinCleanTimes || r.Times > MaxCleanTimes {
		return &InvalidParameterError{Name: "clean_times", Value: r.Times, Reason: "must be 1..2"}
	}
	return nil
}
