package launcher

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nmelis/beacon/internal/config"
	"github.com/nmelis/beacon/internal/logger"
)

// WifiNetwork is one row of nmcli's terse wifi listing.
type WifiNetwork struct {
	SSID     string
	Signal   int
	Security string
	InUse    bool
}

// WifiAction drives nmcli against a named network.
type WifiAction struct {
	Op   string // "connect", "disconnect", "forget", "rescan"
	SSID string
}

func (a *WifiAction) Type() string { return "wifi" }

// WifiPlugin lists wireless networks via nmcli and connects, disconnects
// and forgets them.
type WifiPlugin struct {
	cfg    config.WifiConfig
	logger *logger.Logger
}

func NewWifiPlugin(cfg config.WifiConfig, lg *logger.Logger) *WifiPlugin {
	return &WifiPlugin{cfg: cfg, logger: lg}
}

func (p *WifiPlugin) Name() string { return "wifi" }

func (p *WifiPlugin) Triggers() []string { return []string{"wifi", "wlan"} }

func (p *WifiPlugin) Entry() *Item {
	return &Item{
		Title:    "Wi-Fi Networks",
		Subtitle: "List, connect and forget wireless networks",
		Action:   &SetQueryAction{Query: "wifi "},
		Plugin:   p,
	}
}

func (p *WifiPlugin) Populate(query string) []*Item {
	q := strings.TrimSpace(query)

	networks, err := p.listNetworks()
	if err != nil {
		p.logger.Warnf("wifi: list failed: %v", err)
		return []*Item{{
			Title:    "Wi-Fi unavailable",
			Subtitle: err.Error(),
			Plugin:   p,
		}}
	}

	items := []*Item{{
		Title:    "Rescan networks",
		Subtitle: "Trigger a fresh Wi-Fi scan",
		Action:   &WifiAction{Op: "rescan"},
		Plugin:   p,
	}}

	for _, n := range networks {
		if q != "" && !strings.Contains(strings.ToLower(n.SSID), strings.ToLower(q)) {
			continue
		}

		subtitle := fmt.Sprintf("%d%%  %s", n.Signal, n.Security)
		action := &WifiAction{Op: "connect", SSID: n.SSID}
		if n.InUse {
			subtitle = "connected  " + subtitle
			action = &WifiAction{Op: "disconnect", SSID: n.SSID}
		}

		items = append(items, &Item{
			Title:    n.SSID,
			Subtitle: subtitle,
			Action:   action,
			Plugin:   p,
		})
	}
	return items
}

func (p *WifiPlugin) HandleAction(data ActionData) error {
	action, ok := data.(*WifiAction)
	if !ok {
		return ErrUnhandledAction(data)
	}

	var err error
	switch action.Op {
	case "connect":
		_, err = runCommand("nmcli", "device", "wifi", "connect", action.SSID)
	case "disconnect":
		_, err = runCommand("nmcli", "connection", "down", "id", action.SSID)
	case "forget":
		_, err = runCommand("nmcli", "connection", "delete", "id", action.SSID)
	case "rescan":
		_, err = runCommand("nmcli", "device", "wifi", "rescan")
	default:
		return fmt.Errorf("unknown wifi action %q", action.Op)
	}
	return err
}

func (p *WifiPlugin) Cleanup() {}

func (p *WifiPlugin) listNetworks() ([]WifiNetwork, error) {
	output, err := runCommand("nmcli", "-t", "-f", "in-use,ssid,signal,security", "device", "wifi", "list")
	if err != nil {
		return nil, err
	}
	return parseWifiList(output), nil
}

// parseWifiList parses nmcli terse output: one network per line,
// colon-delimited in-use/ssid/signal/security fields. Hidden networks
// (empty SSID) are dropped.
// TODO: handle SSIDs containing escaped colons ("\:") in terse output.
func parseWifiList(output string) []WifiNetwork {
	var networks []WifiNetwork

	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Split(line, ":")
		if len(parts) < 4 {
			continue
		}

		ssid := parts[1]
		if ssid == "" {
			continue
		}

		signal, _ := strconv.Atoi(parts[2])
		security := parts[3]
		if security == "" {
			security = "open"
		}

		networks = append(networks, WifiNetwork{
			SSID:     ssid,
			Signal:   signal,
			Security: security,
			InUse:    parts[0] == "*",
		})
	}
	return networks
}
