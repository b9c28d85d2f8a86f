package led

import (
	"log/slog"
	"os"
	"strings"
)

const deviceTreeModelPath = "/proc/device-tree/model"

// RoleStatus is the LED role driven by the Manager.
const RoleStatus = "status"

// boards maps a device-tree model substring to the sysfs LED names of the
// roles it exposes.
var boards = []struct {
	model string
	leds  map[string]string
}{
	{"Raspberry Pi", map[string]string{RoleStatus: "ACT", "power": "PWR"}},
	{"NanoPC-T6", map[string]string{RoleStatus: "usr_led", "system": "sys_led"}},
	{"Orange Pi", map[string]string{RoleStatus: "green_led", "blue": "blue_led"}},
}

// New picks a controller for the detected board and falls back to a no-op
// controller when no LEDs are known.
func New(logger *slog.Logger) Controller {
	model := detectBoard()
	logger.Info("Detecting board for LED control", "board_model", model)

	for _, b := range boards {
		if strings.Contains(model, b.model) {
			logger.Info("Using sysfs LED controller", "board", b.model)
			return newSysfs(sysfsLEDPath, b.leds)
		}
	}

	logger.Info("No LED support detected, using no-op controller", "board_model", model)
	return newNoop(logger)
}

// detectBoard reads the device tree model to identify the board.
func detectBoard() string {
	data, err := os.ReadFile(deviceTreeModelPath)
	if err != nil {
		return "unknown"
	}
	// device tree strings are NUL terminated
	return strings.TrimRight(string(data), "\x00")
}
