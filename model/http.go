package model

type HealthResponse struct {
	DeviceId string `json:"device_id"`
	Status   string `json:"status"`
	Mode     string `json:"mode"`
}

type SensorResponse struct {
	Raw  uint16  `json:"raw"`
	Norm float64 `json:"norm"`
}

type ControlResponse struct {
	Changed bool   `json:"changed"`
	Mode    string `json:"mode"`
	Detail  string `json:"detail,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
