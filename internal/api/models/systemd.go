package models

// SystemdServiceStatus contains the state of the service unit.
type SystemdServiceStatus struct {
	Service string `json:"service" example:"trafficnode.service" doc:"Unit name"`
	Status  string `json:"status" example:"active" doc:"ActiveState (active, inactive, failed, ...)"`
}

// SystemdServiceStatusResponse wraps SystemdServiceStatus for API responses.
type SystemdServiceStatusResponse struct {
	Body SystemdServiceStatus
}

// SystemdServiceAction contains the result of a unit action.
type SystemdServiceAction struct {
	Service string `json:"service" example:"trafficnode.service" doc:"Unit name"`
	Action  string `json:"action" example:"restart" doc:"Action performed"`
	Success bool   `json:"success" example:"true" doc:"Whether the action succeeded"`
}

// SystemdServiceActionResponse wraps SystemdServiceAction for API responses.
type SystemdServiceActionResponse struct {
	Body SystemdServiceAction
}
