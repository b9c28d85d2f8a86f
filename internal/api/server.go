package api

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/smazurov/trafficnode/internal/api/models"
	"github.com/smazurov/trafficnode/internal/config"
	"github.com/smazurov/trafficnode/internal/controller"
	"github.com/smazurov/trafficnode/internal/events"
	"github.com/smazurov/trafficnode/internal/input"
	"github.com/smazurov/trafficnode/internal/led"
	"github.com/smazurov/trafficnode/internal/logging"
	"github.com/smazurov/trafficnode/internal/systemd"
	"github.com/smazurov/trafficnode/internal/version"
)

const authRealm = `Basic realm="trafficnode"`

// StatusSource supplies controller snapshots.
type StatusSource interface {
	Status() controller.Status
}

// Inputs are the virtual operator controls exposed over HTTP. They feed the
// same edge counters and button set as the physical inputs.
type Inputs struct {
	Mode *input.Edge
	Arm  *input.Edge
	Up   *input.VirtualButton
	Down *input.VirtualButton
}

// Options configures the API server. Nil collaborators disable their routes.
type Options struct {
	AuthUsername      string
	AuthPassword      string
	Status            StatusSource
	Inputs            *Inputs
	Intersection      *config.Intersection
	EventBus          *events.Bus
	LEDController     led.Controller
	SystemdManager    systemd.UnitManager
	PrometheusHandler http.Handler
	CORS              *CORSConfig
}

// Server is the huma API server.
type Server struct {
	api        huma.API
	mux        *http.ServeMux
	httpServer *http.Server
	options    *Options
	eventBus   *events.Bus
	logger     *slog.Logger
}

// NewServer creates the API server and registers every route.
func NewServer(opts *Options) *Server {
	mux := http.NewServeMux()

	corsConfig := DefaultCORSConfig()
	if opts.CORS != nil {
		corsConfig = *opts.CORS
	}
	AddCORSHandler(mux, corsConfig)

	cfg := huma.DefaultConfig("trafficnode API", version.Get().Version)
	cfg.Info.Description = "Traffic-light intersection controller: status, virtual inputs and live events"
	cfg.Servers = []*huma.Server{}
	cfg.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"basicAuth": {
			Type:   "http",
			Scheme: "basic",
		},
	}

	api := humago.New(mux, cfg)

	server := &Server{
		api:      api,
		mux:      mux,
		options:  opts,
		eventBus: opts.EventBus,
		logger:   logging.GetLogger("api"),
	}

	api.UseMiddleware(NewCORSMiddleware(corsConfig))
	api.UseMiddleware(HTTPLoggingMiddleware)
	if opts.AuthUsername != "" && opts.AuthPassword != "" {
		api.UseMiddleware(server.basicAuthMiddleware(opts.AuthUsername, opts.AuthPassword))
	}

	if opts.PrometheusHandler != nil {
		mux.Handle("GET /metrics", opts.PrometheusHandler)
	}

	server.registerRoutes()
	return server
}

// basicAuthMiddleware enforces basic auth on operations that declare the
// basicAuth security scheme. EventSource clients cannot set headers, so an
// `auth` query parameter carrying base64(user:pass) is accepted as well.
func (s *Server) basicAuthMiddleware(username, password string) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		op := ctx.Operation()
		if op != nil && len(op.Security) == 0 {
			next(ctx)
			return
		}

		user, pass, msg := credentials(ctx)
		if msg == "" {
			userOK := subtle.ConstantTimeCompare([]byte(user), []byte(username)) == 1
			passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(password)) == 1
			if userOK && passOK {
				next(ctx)
				return
			}
			msg = "Invalid credentials"
		}

		ctx.SetHeader("WWW-Authenticate", authRealm)
		if err := huma.WriteErr(s.api, ctx, http.StatusUnauthorized, msg); err != nil {
			s.logger.Debug("Failed to write auth error", "error", err)
		}
	}
}

// credentials extracts user and password, or a non-empty rejection message.
func credentials(ctx huma.Context) (user, pass, msg string) {
	var encoded string
	if header := ctx.Header("Authorization"); header != "" {
		const prefix = "Basic "
		if !strings.HasPrefix(header, prefix) {
			return "", "", "Invalid authentication type"
		}
		encoded = header[len(prefix):]
	} else {
		encoded = ctx.Query("auth")
	}
	if encoded == "" {
		return "", "", "Authentication required"
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", "", "Invalid credentials format"
	}
	user, pass, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return "", "", "Invalid credentials format"
	}
	return user, pass, ""
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// GetAPI returns the huma API instance.
func (s *Server) GetAPI() huma.API {
	return s.api
}

// Start serves on addr until Stop is called.
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting trafficnode API server", "addr", addr)
	s.logger.Info("OpenAPI documentation available", "url", "http://"+addr+"/docs")

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.mux,
	}
	return s.httpServer.ListenAndServe()
}

// Stop closes the listener and every open connection, SSE streams included.
func (s *Server) Stop() error {
	s.logger.Info("Stopping API server")
	if s.httpServer != nil {
		return s.httpServer.Close()
	}
	return nil
}

func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Health",
		Description: "Check API health status",
		Tags:        []string{"health"},
		Security:    []map[string][]string{},
	}, func(_ context.Context, _ *struct{}) (*models.HealthResponse, error) {
		return &models.HealthResponse{
			Body: models.HealthData{
				Status:  "ok",
				Message: "API is healthy",
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-version",
		Method:      http.MethodGet,
		Path:        "/api/version",
		Summary:     "Version",
		Description: "Get application version information",
		Tags:        []string{"system"},
		Security:    []map[string][]string{},
	}, func(_ context.Context, _ *struct{}) (*models.VersionResponse, error) {
		info := version.Get()
		return &models.VersionResponse{
			Body: models.VersionData{
				Version:   info.Version,
				GitCommit: info.GitCommit,
				BuildDate: info.BuildDate,
				BuildID:   info.BuildID,
				GoVersion: info.GoVersion,
				Compiler:  info.Compiler,
				Platform:  info.Platform,
			},
		}, nil
	})

	s.registerStatusRoutes()
	s.registerInputRoutes()
	s.registerLogRoutes()
	s.registerSSERoutes()
	s.registerLEDRoutes()
	s.registerSystemdRoutes()
}

// withAuth returns the security requirement for basic auth.
func withAuth() []map[string][]string {
	return []map[string][]string{
		{"basicAuth": {}},
	}
}
