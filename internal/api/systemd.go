package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/trafficnode/internal/api/models"
)

const restartTimeout = 30 * time.Second

func (s *Server) registerSystemdRoutes() {
	mgr := s.options.SystemdManager
	if mgr == nil {
		return
	}

	huma.Register(s.api, huma.Operation{
		OperationID: "get-service-status",
		Method:      http.MethodGet,
		Path:        "/api/systemd/status",
		Summary:     "Service Status",
		Description: "ActiveState of the trafficnode systemd unit",
		Tags:        []string{"systemd"},
		Security:    withAuth(),
		Errors:      []int{401, 500},
	}, func(ctx context.Context, _ *struct{}) (*models.SystemdServiceStatusResponse, error) {
		state, err := mgr.ActiveState(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to get service status", err)
		}
		return &models.SystemdServiceStatusResponse{
			Body: models.SystemdServiceStatus{Service: mgr.Unit(), Status: state},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "restart-service",
		Method:      http.MethodPost,
		Path:        "/api/systemd/restart",
		Summary:     "Restart Service",
		Description: "Queue a restart of the trafficnode unit. The connection drops once systemd stops the process.",
		Tags:        []string{"systemd"},
		Security:    withAuth(),
		Errors:      []int{401, 500},
	}, func(_ context.Context, _ *struct{}) (*models.SystemdServiceActionResponse, error) {
		unit := mgr.Unit()
		s.logger.Warn("Restart requested over API", "unit", unit)

		// the job outlives this request when the unit is our own process
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), restartTimeout)
			defer cancel()
			if err := mgr.Restart(ctx); err != nil {
				s.logger.Error("Service restart failed", "unit", unit, "error", err)
			}
		}()

		return &models.SystemdServiceActionResponse{
			Body: models.SystemdServiceAction{Service: unit, Action: "restart", Success: true},
		}, nil
	})
}
