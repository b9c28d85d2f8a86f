package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/smazurov/trafficnode/cmd"
	"github.com/smazurov/trafficnode/internal/api"
	"github.com/smazurov/trafficnode/internal/clock"
	"github.com/smazurov/trafficnode/internal/config"
	"github.com/smazurov/trafficnode/internal/controller"
	"github.com/smazurov/trafficnode/internal/events"
	"github.com/smazurov/trafficnode/internal/input"
	"github.com/smazurov/trafficnode/internal/led"
	"github.com/smazurov/trafficnode/internal/logging"
	"github.com/smazurov/trafficnode/internal/metrics"
	"github.com/smazurov/trafficnode/internal/metrics/exporters"
	"github.com/smazurov/trafficnode/internal/shiftreg"
	"github.com/smazurov/trafficnode/internal/signal"
	"github.com/smazurov/trafficnode/internal/systemd"
	"github.com/smazurov/trafficnode/internal/version"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Server settings
	Port string `help:"Port to listen on" short:"p" default:":8090" toml:"server.port" env:"SERVER_PORT"`

	// Intersection settings
	IntersectionFile string `help:"Intersection layout file" default:"intersection.toml" toml:"intersection.file" env:"INTERSECTION_FILE"`

	// Controller settings
	ControllerRefreshCycles     int    `help:"Multiplex cycles per countdown tick" default:"80" toml:"controller.refresh_cycles" env:"CONTROLLER_REFRESH_CYCLES"`
	ControllerRefreshIntervalMs int    `help:"Digit hold time in milliseconds" default:"5" toml:"controller.refresh_interval_ms" env:"CONTROLLER_REFRESH_INTERVAL_MS"`
	ControllerInitialMode       string `help:"Mode at startup" default:"standard" toml:"controller.initial_mode" env:"CONTROLLER_INITIAL_MODE"`

	// Schedule settings
	ScheduleStart      int `help:"First hour of normal operation in auto mode" default:"6" toml:"schedule.start" env:"SCHEDULE_START"`
	ScheduleEnd        int `help:"Last hour of normal operation in auto mode" default:"22" toml:"schedule.end" env:"SCHEDULE_END"`
	ScheduleDisplayArm int `help:"Arm that shows the schedule while it is edited" default:"0" toml:"schedule.display_arm" env:"SCHEDULE_DISPLAY_ARM"`

	// Clock settings
	ClockTimezone string `help:"IANA timezone for the schedule (empty = local)" default:"" toml:"clock.timezone" env:"CLOCK_TIMEZONE"`

	// Hardware settings
	HardwareBackend    string `help:"Output backend (sim, gpio)" default:"sim" toml:"hardware.backend" env:"HARDWARE_BACKEND"`
	HardwareChip       string `help:"GPIO character device" default:"gpiochip0" toml:"hardware.chip" env:"HARDWARE_CHIP"`
	HardwareModePin    int    `help:"Mode button GPIO offset (-1 = none)" default:"11" toml:"hardware.mode_pin" env:"HARDWARE_MODE_PIN"`
	HardwareArmPin     int    `help:"Arm button GPIO offset (-1 = none)" default:"12" toml:"hardware.arm_pin" env:"HARDWARE_ARM_PIN"`
	HardwareUpPin      int    `help:"Up button GPIO offset (-1 = none)" default:"2" toml:"hardware.up_pin" env:"HARDWARE_UP_PIN"`
	HardwareDownPin    int    `help:"Down button GPIO offset (-1 = none)" default:"3" toml:"hardware.down_pin" env:"HARDWARE_DOWN_PIN"`
	HardwareDebounceUs int    `help:"Button debounce in microseconds" default:"20" toml:"hardware.debounce_us" env:"HARDWARE_DEBOUNCE_US"`

	// Auth settings
	AuthUsername string `help:"Basic auth username" default:"admin" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"password" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Features settings
	FeaturesStatusLED bool `help:"Mirror the mode on the board status LED" default:"false" toml:"features.status_led" env:"FEATURES_STATUS_LED"`

	// Observability settings
	ObsPrometheusEnabled bool   `help:"Enable Prometheus" default:"true" toml:"obs.prometheus_enabled" env:"OBS_PROMETHEUS_ENABLED"`
	ObsStatusIntervalMs  int    `help:"Status event interval in milliseconds" default:"1000" toml:"obs.status_interval_ms" env:"OBS_STATUS_INTERVAL_MS"`
	SystemdUnit          string `help:"Unit managed through /api/systemd (empty = disabled)" default:"" toml:"systemd.unit" env:"SYSTEMD_UNIT"`
	SystemdUser          bool   `help:"Use the user service manager" default:"false" toml:"systemd.user" env:"SYSTEMD_USER"`

	// Logging settings
	LoggingLevel      string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat     string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingController string `help:"Controller logging level" default:"info" toml:"logging.controller" env:"LOGGING_CONTROLLER"`
	LoggingHardware   string `help:"Hardware logging level" default:"info" toml:"logging.hardware" env:"LOGGING_HARDWARE"`
	LoggingAPI        string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
	LoggingHTTP       string `help:"HTTP request logging level" default:"info" toml:"logging.http" env:"LOGGING_HTTP"`
	LoggingConfig     string `help:"Config watcher logging level" default:"info" toml:"logging.config" env:"LOGGING_CONFIG"`
	LoggingLED        string `help:"LED logging level" default:"info" toml:"logging.led" env:"LOGGING_LED"`
}

// hardware holds everything opened for the selected backend.
type hardware struct {
	chains  []shiftreg.Chain
	inputs  controller.Inputs
	virtual *api.Inputs
	closers []io.Closer
}

func (h *hardware) Close() {
	for _, c := range h.closers {
		_ = c.Close()
	}
}

// openHardware builds one chain per arm and the operator inputs. Virtual
// inputs always exist; physical ones are added for the gpio backend.
func openHardware(opts *Options, in config.Intersection, arms []*signal.Arm, logger *slog.Logger) (*hardware, error) {
	debounce := time.Duration(opts.HardwareDebounceUs) * time.Microsecond
	hw := &hardware{
		virtual: &api.Inputs{
			Mode: input.NewEdge(debounce),
			Arm:  input.NewEdge(debounce),
			Up:   input.NewVirtualButton(),
			Down: input.NewVirtualButton(),
		},
	}
	up := input.Buttons{hw.virtual.Up}
	down := input.Buttons{hw.virtual.Down}

	switch opts.HardwareBackend {
	case "sim":
		for _, a := range arms {
			hw.chains = append(hw.chains, metrics.InstrumentChain(a.Name(), shiftreg.NewMemory(64)))
		}
	case "gpio":
		for i, a := range in.Arms {
			chain, err := shiftreg.NewGPIO(opts.HardwareChip, a.Chain)
			if err != nil {
				hw.Close()
				return nil, err
			}
			hw.closers = append(hw.closers, chain)
			hw.chains = append(hw.chains, metrics.InstrumentChain(arms[i].Name(), chain))
		}

		for _, e := range []struct {
			name string
			pin  int
			edge *input.Edge
		}{{"mode", opts.HardwareModePin, hw.virtual.Mode}, {"arm", opts.HardwareArmPin, hw.virtual.Arm}} {
			if e.pin < 0 {
				continue
			}
			closer, err := input.WatchEdge(opts.HardwareChip, e.pin, debounce, e.edge)
			if err != nil {
				hw.Close()
				return nil, err
			}
			hw.closers = append(hw.closers, closer)
			logger.Info("Watching button", "input", e.name, "pin", e.pin)
		}

		for _, b := range []struct {
			name string
			pin  int
			set  *input.Buttons
		}{{"up", opts.HardwareUpPin, &up}, {"down", opts.HardwareDownPin, &down}} {
			if b.pin < 0 {
				continue
			}
			btn, err := input.NewGPIOButton(opts.HardwareChip, b.pin)
			if err != nil {
				hw.Close()
				return nil, err
			}
			hw.closers = append(hw.closers, btn)
			*b.set = append(*b.set, btn)
			logger.Info("Polling button", "input", b.name, "pin", b.pin)
		}
	default:
		return nil, fmt.Errorf("unknown hardware backend %q", opts.HardwareBackend)
	}

	hw.inputs = controller.Inputs{
		Mode: hw.virtual.Mode,
		Arm:  hw.virtual.Arm,
		Up:   up,
		Down: down,
	}
	return hw, nil
}

func main() {
	var cli humacli.CLI
	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		// Load configuration automatically; flags given on the command line win
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		logging.Initialize(logging.Config{
			Level:  opts.LoggingLevel,
			Format: opts.LoggingFormat,
			Modules: map[string]string{
				"controller": opts.LoggingController,
				"hardware":   opts.LoggingHardware,
				"api":        opts.LoggingAPI,
				"http":       opts.LoggingHTTP,
				"config":     opts.LoggingConfig,
				"led":        opts.LoggingLED,
			},
		})
		logger := logging.GetLogger("main")
		logger.Info("Starting trafficnode", "version", version.Get().String())

		// Create event bus for in-process event handling
		eventBus := events.New()

		logging.SetLogCallback(func(entry logging.LogEntry) {
			eventBus.Publish(events.LogEntryEvent{
				Seq:        entry.Seq,
				Timestamp:  entry.Timestamp.Format(time.RFC3339Nano),
				Level:      entry.Level,
				Module:     entry.Module,
				Message:    entry.Message,
				Attributes: entry.Attributes,
			})
		})

		intersection, err := config.LoadIntersection(opts.IntersectionFile)
		if err != nil {
			logger.Error("Failed to load intersection", "file", opts.IntersectionFile, "error", err)
			os.Exit(1)
		}
		arms, err := intersection.BuildArms()
		if err != nil {
			logger.Error("Invalid intersection", "error", err)
			os.Exit(1)
		}

		hw, err := openHardware(opts, intersection, arms, logging.GetLogger("hardware"))
		if err != nil {
			logger.Error("Failed to open hardware", "backend", opts.HardwareBackend, "error", err)
			os.Exit(1)
		}

		hours, err := clock.NewSystem(opts.ClockTimezone)
		if err != nil {
			logger.Error("Invalid timezone", "timezone", opts.ClockTimezone, "error", err)
			os.Exit(1)
		}

		initialMode, err := controller.ParseMode(opts.ControllerInitialMode)
		if err != nil {
			logger.Warn("Unknown initial mode, using standard", "mode", opts.ControllerInitialMode)
			initialMode = controller.Standard
		}

		ctrl, err := controller.New(controller.Config{
			Arms:       arms,
			Chains:     hw.chains,
			Schedule:   signal.NewScheduleWindow(opts.ScheduleStart, opts.ScheduleEnd),
			DisplayArm: opts.ScheduleDisplayArm,
			Inputs:     hw.inputs,
			Hours:      hours,
			Refresh: controller.Refresh{
				Cycles:   opts.ControllerRefreshCycles,
				Interval: time.Duration(opts.ControllerRefreshIntervalMs) * time.Millisecond,
			},
			InitialMode: initialMode,
			Bus:         eventBus,
			Logger:      logging.GetLogger("controller"),
		})
		if err != nil {
			logger.Error("Failed to create controller", "error", err)
			os.Exit(1)
		}

		// Initialize LED control if enabled
		var ledManager *led.Manager
		var ledController led.Controller
		if opts.FeaturesStatusLED {
			ledLogger := logging.GetLogger("led")
			ledController = led.New(ledLogger)
			ledManager = led.NewManager(ledController, eventBus, ledLogger)
		}

		recorder := metrics.NewRecorder(eventBus)
		statusExporter := exporters.NewStatusExporter(ctrl, eventBus, time.Duration(opts.ObsStatusIntervalMs)*time.Millisecond)

		configWatcher := config.WatchLogging(opts.Config, logging.GetLogger("config"))

		var unitManager *systemd.Manager
		if opts.SystemdUnit != "" {
			unitManager, err = systemd.NewManager(context.Background(), opts.SystemdUnit, opts.SystemdUser)
			if err != nil {
				logger.Warn("systemd integration disabled", "error", err)
				unitManager = nil
			}
		}

		apiOpts := &api.Options{
			AuthUsername: opts.AuthUsername,
			AuthPassword: opts.AuthPassword,
			Status:       ctrl,
			Inputs:       hw.virtual,
			Intersection: &intersection,
			EventBus:     eventBus,
		}
		if opts.ObsPrometheusEnabled {
			apiOpts.PrometheusHandler = exporters.HTTPHandler()
		}
		if ledController != nil {
			apiOpts.LEDController = ledController
		}
		if unitManager != nil {
			apiOpts.SystemdManager = unitManager
		}

		server := api.NewServer(apiOpts)

		ctx, cancel := context.WithCancel(context.Background())
		loopDone := make(chan struct{})

		hooks.OnStart(func() {
			recorder.Start()
			statusExporter.Start(ctx)
			if ledManager != nil {
				ledManager.Start(initialMode)
			}
			if watchErr := configWatcher.Start(ctx); watchErr != nil {
				logger.Warn("Config hot reload disabled", "file", opts.Config, "error", watchErr)
			}

			go func() {
				defer close(loopDone)
				if runErr := ctrl.Run(ctx); runErr != nil && !errors.Is(runErr, context.Canceled) {
					logger.Error("Controller stopped", "error", runErr)
				}
			}()

			go systemd.Watchdog(ctx, func() bool {
				select {
				case <-loopDone:
					return false
				default:
					return true
				}
			}, logger)
			systemd.NotifyReady(logger)

			logger.Info("Starting HTTP server", "port", opts.Port)
			if startErr := server.Start(opts.Port); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
				logger.Error("Failed to start HTTP server", "error", startErr)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down server")
			systemd.NotifyStopping()
			if stopErr := server.Stop(); stopErr != nil {
				logger.Error("Error stopping HTTP server", "error", stopErr)
			}

			cancel()
			<-loopDone

			// leave every arm dark
			for i, a := range arms {
				if sendErr := hw.chains[i].Send(a.TurnOff()); sendErr != nil {
					logger.Warn("Failed to blank arm", "arm", a.Name(), "error", sendErr)
				}
			}
			hw.Close()

			_ = configWatcher.Stop()
			statusExporter.Stop()
			recorder.Stop()
			if ledManager != nil {
				ledManager.Stop()
			}
			if unitManager != nil {
				unitManager.Close()
			}
		})
	})

	cli.Root().Use = "trafficnode"
	cli.Root().Version = version.Get().String()
	cli.Root().AddCommand(cmd.CreateFramesCmd())
	cli.Root().AddCommand(cmd.CreateSimulateCmd())

	// Run the CLI
	cli.Run()
}
