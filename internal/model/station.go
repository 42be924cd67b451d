package model

// StationsResponse is the getstationsdata payload. Only the fields the
// reshaper and the diagnostics need are modelled.
type StationsResponse struct {
	Status     string        `json:"status,omitempty"`
	TimeServer int64         `json:"time_server,omitempty"`
	Body       *StationsBody `json:"body,omitempty"`
	Error      *APIError     `json:"error,omitempty"`
}

type StationsBody struct {
	// Devices is nil when the key is absent or null, empty when the list is.
	Devices []Device `json:"devices"`
}

type Device struct {
	ID            string    `json:"_id"`
	StationName   *string   `json:"station_name,omitempty"`
	DashboardData *Readings `json:"dashboard_data,omitempty"`
	Modules       []Module  `json:"modules,omitempty"`
}

type Module struct {
	ID            string    `json:"_id"`
	ModuleName    *string   `json:"module_name,omitempty"`
	DashboardData *Readings `json:"dashboard_data,omitempty"`
}

type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
