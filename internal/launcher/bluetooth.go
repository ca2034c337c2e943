package launcher

import (
	"fmt"
	"strings"

	"github.com/nmelis/beacon/internal/logger"
)

// BluetoothDevice is one device known to bluetoothctl.
type BluetoothDevice struct {
	MAC       string
	Name      string
	Connected bool
	Paired    bool
	Trusted   bool
}

// BluetoothAction drives bluetoothctl against a device by MAC.
type BluetoothAction struct {
	Op  string // "connect", "disconnect", "pair", "trust", "untrust", "remove"
	MAC string
}

func (a *BluetoothAction) Type() string { return "bluetooth" }

// BluetoothPlugin lists devices via bluetoothctl and connects, pairs,
// trusts and removes them.
type BluetoothPlugin struct {
	logger *logger.Logger
}

func NewBluetoothPlugin(lg *logger.Logger) *BluetoothPlugin {
	return &BluetoothPlugin{logger: lg}
}

func (p *BluetoothPlugin) Name() string { return "bluetooth" }

func (p *BluetoothPlugin) Triggers() []string { return []string{"bluetooth", "bt"} }

func (p *BluetoothPlugin) Entry() *Item {
	return &Item{
		Title:    "Bluetooth Devices",
		Subtitle: "Connect, pair and trust devices",
		Action:   &SetQueryAction{Query: "bt "},
		Plugin:   p,
	}
}

func (p *BluetoothPlugin) Populate(query string) []*Item {
	if !p.powered() {
		return []*Item{{
			Title:    "Bluetooth is off",
			Subtitle: "Power on the adapter",
			Action:   NewShellAction("bluetoothctl power on"),
			Plugin:   p,
		}}
	}

	devices, err := p.listDevices()
	if err != nil {
		p.logger.Warnf("bluetooth: list failed: %v", err)
		return []*Item{{
			Title:    "Bluetooth unavailable",
			Subtitle: err.Error(),
			Plugin:   p,
		}}
	}

	q := strings.ToLower(strings.TrimSpace(query))
	var items []*Item
	for _, d := range devices {
		if q != "" && !strings.Contains(strings.ToLower(d.Name), q) {
			continue
		}

		var states []string
		action := &BluetoothAction{Op: "connect", MAC: d.MAC}
		if d.Connected {
			states = append(states, "connected")
			action = &BluetoothAction{Op: "disconnect", MAC: d.MAC}
		}
		if d.Paired {
			states = append(states, "paired")
		}
		if d.Trusted {
			states = append(states, "trusted")
		}

		subtitle := d.MAC
		if len(states) > 0 {
			subtitle = d.MAC + "  " + strings.Join(states, ", ")
		}

		items = append(items, &Item{
			Title:    d.Name,
			Subtitle: subtitle,
			Action:   action,
			Plugin:   p,
		})
	}

	if len(items) == 0 {
		items = append(items, &Item{
			Title:    "No devices found",
			Subtitle: "Pair a device with bluetoothctl first",
			Plugin:   p,
		})
	}
	return items
}

func (p *BluetoothPlugin) HandleAction(data ActionData) error {
	action, ok := data.(*BluetoothAction)
	if !ok {
		return ErrUnhandledAction(data)
	}

	var err error
	switch action.Op {
	case "connect":
		_, err = runCommand("bluetoothctl", "connect", action.MAC)
	case "disconnect":
		_, err = runCommand("bluetoothctl", "disconnect", action.MAC)
	case "pair":
		_, err = runCommand("bluetoothctl", "pair", action.MAC)
	case "trust":
		_, err = runCommand("bluetoothctl", "trust", action.MAC)
	case "untrust":
		_, err = runCommand("bluetoothctl", "untrust", action.MAC)
	case "remove":
		_, err = runCommand("bluetoothctl", "remove", action.MAC)
	default:
		return fmt.Errorf("unknown bluetooth action %q", action.Op)
	}
	return err
}

func (p *BluetoothPlugin) Cleanup() {}

func (p *BluetoothPlugin) powered() bool {
	output, err := runCommand("bluetoothctl", "show")
	if err != nil {
		return false
	}
	return strings.Contains(output, "Powered: yes")
}

func (p *BluetoothPlugin) listDevices() ([]BluetoothDevice, error) {
	output, err := runCommand("bluetoothctl", "devices")
	if err != nil {
		return nil, err
	}

	devices := parseDeviceList(output)
	for i := range devices {
		info, err := runCommand("bluetoothctl", "info", devices[i].MAC)
		if err != nil {
			continue
		}
		applyDeviceInfo(&devices[i], info)
	}
	return devices, nil
}

// parseDeviceList parses "Device <MAC> <Name>" lines.
func parseDeviceList(output string) []BluetoothDevice {
	var devices []BluetoothDevice

	for _, line := range strings.Split(output, "\n") {
		if !strings.HasPrefix(line, "Device ") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 3 {
			continue
		}
		devices = append(devices, BluetoothDevice{
			MAC:  parts[1],
			Name: strings.Join(parts[2:], " "),
		})
	}
	return devices
}

// applyDeviceInfo reads state flags from a bluetoothctl info block.
func applyDeviceInfo(d *BluetoothDevice, info string) {
	d.Connected = strings.Contains(info, "Connected: yes")
	d.Paired = strings.Contains(info, "Paired: yes")
	d.Trusted = strings.Contains(info, "Trusted: yes")
}
