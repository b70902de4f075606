package schema

type SubmissionState string

const (
	SubmissionStateIdle    SubmissionState = "idle"
	SubmissionStateLoading SubmissionState = "loading"
	SubmissionStateSuccess SubmissionState = "success"
	SubmissionStateError   SubmissionState = "error"
)

type SubmissionStatus struct {
	State   SubmissionState `json:"state"`
	Link    string          `json:"link,omitempty"`
	Message string          `json:"message,omitempty"`
	Amounts *DerivedAmounts `json:"amounts,omitempty"`
}

type TimezoneOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FormOptions seeds a fresh booking form.
type FormOptions struct {
	AgentName         string           `json:"agentName"`
	Timezone          string           `json:"timezone"`
	VehicleCategory   string           `json:"vehicleCategory"`
	PaymentType       PaymentType      `json:"paymentType"`
	Timezones         []TimezoneOption `json:"timezones"`
	VehicleCategories []string         `json:"vehicleCategories"`
}

var Timezones = []TimezoneOption{
	{Value: "America/New_York", Label: "Eastern Time (ET)"},
	{Value: "America/Chicago", Label: "Central Time (CT)"},
	{Value: "America/Denver", Label: "Mountain Time (MT)"},
	{Value: "America/Los_Angeles", Label: "Pacific Time (PT)"},
	{Value: "America/Phoenix", Label: "Arizona"},
	{Value: "America/Anchorage", Label: "Alaska"},
	{Value: "Pacific/Honolulu", Label: "Hawaii"},
}

var VehicleCategories = []string{
	"Compact Sedan",
	"Mid-size Sedan",
	"Full-size Sedan",
	"Minivan",
	"SUV (Mid-size)",
	"SUV (Full-size)",
	"Convertible",
	"Luxury",
}

const (
	DefaultTimezone        = "America/New_York"
	DefaultVehicleCategory = "Compact Sedan"
)
