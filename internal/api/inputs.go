package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/trafficnode/internal/api/models"
)

func (s *Server) registerInputRoutes() {
	if s.options.Inputs == nil {
		s.logger.Debug("No virtual inputs configured, skipping input routes")
		return
	}

	huma.Register(s.api, huma.Operation{
		OperationID: "press-input",
		Method:      http.MethodPost,
		Path:        "/api/inputs/{input}",
		Summary:     "Press Input",
		Description: "Actuate a virtual button. mode and arm raise an edge consumed at the next tick; up and down queue one press for the setup modes.",
		Tags:        []string{"controller"},
		Security:    withAuth(),
		Errors:      []int{401, 422, 503},
	}, func(_ context.Context, req *models.InputRequest) (*models.InputResponse, error) {
		accepted, err := s.press(req.Input)
		if err != nil {
			return nil, err
		}
		s.logger.Info("Virtual input pressed", "input", req.Input, "accepted", accepted)
		return &models.InputResponse{
			Body: models.InputData{Input: req.Input, Accepted: accepted},
		}, nil
	})
}

func (s *Server) press(name string) (bool, error) {
	in := s.options.Inputs
	switch name {
	case "mode":
		if in.Mode != nil {
			return in.Mode.Trigger(), nil
		}
	case "arm":
		if in.Arm != nil {
			return in.Arm.Trigger(), nil
		}
	case "up":
		if in.Up != nil {
			in.Up.Press()
			return true, nil
		}
	case "down":
		if in.Down != nil {
			in.Down.Press()
			return true, nil
		}
	default:
		return false, huma.Error422UnprocessableEntity("unknown input " + name)
	}
	return false, huma.Error503ServiceUnavailable("input " + name + " is not wired")
}
