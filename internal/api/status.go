package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/trafficnode/internal/api/models"
	"github.com/smazurov/trafficnode/internal/config"
	"github.com/smazurov/trafficnode/internal/controller"
	"github.com/smazurov/trafficnode/internal/frame"
)

func (s *Server) registerStatusRoutes() {
	if s.options.Status != nil {
		huma.Register(s.api, huma.Operation{
			OperationID: "get-status",
			Method:      http.MethodGet,
			Path:        "/api/status",
			Summary:     "Controller Status",
			Description: "Current mode, selection, schedule window and per-arm countdown with the frames being sent",
			Tags:        []string{"controller"},
			Security:    withAuth(),
			Errors:      []int{401},
		}, func(_ context.Context, _ *struct{}) (*models.StatusResponse, error) {
			return &models.StatusResponse{Body: statusToAPI(s.options.Status.Status())}, nil
		})
	}

	if s.options.Intersection != nil {
		huma.Register(s.api, huma.Operation{
			OperationID: "get-intersection",
			Method:      http.MethodGet,
			Path:        "/api/intersection",
			Summary:     "Intersection Layout",
			Description: "Channel maps and chain pins of every configured arm",
			Tags:        []string{"controller"},
			Security:    withAuth(),
			Errors:      []int{401},
		}, func(_ context.Context, _ *struct{}) (*models.IntersectionResponse, error) {
			return &models.IntersectionResponse{Body: intersectionToAPI(*s.options.Intersection)}, nil
		})
	}
}

func statusToAPI(st controller.Status) models.StatusData {
	out := models.StatusData{
		Mode:        st.Mode.String(),
		SelectedArm: st.SelectedArm,
		Schedule: models.ScheduleData{
			Start: st.ScheduleStart,
			End:   st.ScheduleEnd,
			Field: st.ScheduleField.String(),
		},
		Ticks: st.Ticks,
		Arms:  make([]models.ArmData, len(st.Arms)),
	}
	for i, a := range st.Arms {
		out.Arms[i] = models.ArmData{
			Index:     i,
			Name:      a.Name,
			Phase:     a.Phase.String(),
			Remaining: a.Remaining,
			Red:       a.Red,
			Green:     a.Green,
			Yellow:    a.Yellow,
			Tens:      frameToAPI(a.Tens),
			Ones:      frameToAPI(a.Ones),
		}
	}
	return out
}

func frameToAPI(f frame.Frame) models.FrameData {
	return models.FrameData{Hex: f.String(), Word: f.Word()}
}

func intersectionToAPI(in config.Intersection) models.IntersectionData {
	out := models.IntersectionData{Arms: make([]models.ArmLayout, len(in.Arms))}
	for i, a := range in.Arms {
		out.Arms[i] = models.ArmLayout{
			Name:            a.Name,
			InitialPhase:    a.InitialPhase,
			SegmentChannels: a.SegmentChannels,
			DigitChannels:   a.DigitChannels,
			LightChannels:   a.LightChannels,
			Chain: models.ChainPins{
				Data:  a.Chain.Data,
				Clock: a.Chain.Clock,
				Latch: a.Chain.Latch,
			},
		}
	}
	return out
}
