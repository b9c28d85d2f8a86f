package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// LEDRequest sets a board LED directly, overriding the mode pattern until
// the next mode change.
type LEDRequest struct {
	Body struct {
		Role    string  `json:"role" example:"status" doc:"LED role (board-specific, see capabilities)"`
		Enabled bool    `json:"enabled" example:"true" doc:"Whether the LED should be on or off"`
		Pattern *string `json:"pattern,omitempty" enum:"solid,blink,heartbeat" example:"blink" doc:"Optional LED pattern"`
	}
}

// LEDCapabilities lists what the detected board supports.
type LEDCapabilities struct {
	AvailableRoles    []string `json:"available_roles" doc:"LED roles present on this board"`
	AvailablePatterns []string `json:"available_patterns" doc:"Patterns the LED driver accepts"`
}

// LEDCapabilitiesResponse wraps LEDCapabilities.
type LEDCapabilitiesResponse struct {
	Body LEDCapabilities
}

func (s *Server) registerLEDRoutes() {
	ctrl := s.options.LEDController
	if ctrl == nil {
		s.logger.Debug("LED controller not available, skipping LED routes")
		return
	}

	huma.Register(s.api, huma.Operation{
		OperationID: "control-led",
		Method:      http.MethodPost,
		Path:        "/api/leds",
		Summary:     "Control LED",
		Description: "Set a board LED. The mode manager reasserts its pattern on the next mode change.",
		Tags:        []string{"leds"},
		Errors:      []int{400, 401, 422},
		Security:    withAuth(),
	}, func(_ context.Context, req *LEDRequest) (*struct{}, error) {
		pattern := ""
		if req.Body.Pattern != nil {
			pattern = *req.Body.Pattern
		}
		if err := ctrl.Set(req.Body.Role, req.Body.Enabled, pattern); err != nil {
			return nil, huma.Error400BadRequest("Failed to control LED", err)
		}
		return &struct{}{}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-led-capabilities",
		Method:      http.MethodGet,
		Path:        "/api/leds/capabilities",
		Summary:     "LED Capabilities",
		Description: "LED roles and patterns available on this board",
		Tags:        []string{"leds"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(_ context.Context, _ *struct{}) (*LEDCapabilitiesResponse, error) {
		return &LEDCapabilitiesResponse{Body: LEDCapabilities{
			AvailableRoles:    ctrl.Available(),
			AvailablePatterns: ctrl.Patterns(),
		}}, nil
	})
}
