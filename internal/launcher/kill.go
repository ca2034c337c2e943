package launcher

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/nmelis/beacon/internal/config"
	"github.com/nmelis/beacon/internal/logger"
)

// Process is one row of ps output.
type Process struct {
	PID     int
	CPU     float64
	Memory  float64
	Command string
}

// KillAction sends a signal to a process.
type KillAction struct {
	PID    int
	Signal syscall.Signal
}

func (a *KillAction) Type() string { return "kill" }

// KillPlugin lists running processes and sends them signals. The process
// table is cached and refreshed at most once per configured interval.
type KillPlugin struct {
	cfg    config.ProcessesConfig
	logger *logger.Logger

	mu        sync.Mutex
	processes []Process
	fetchedAt time.Time
}

func NewKillPlugin(cfg config.ProcessesConfig, lg *logger.Logger) *KillPlugin {
	return &KillPlugin{cfg: cfg, logger: lg}
}

func (p *KillPlugin) Name() string { return "kill" }

func (p *KillPlugin) Triggers() []string { return []string{"kill", "ps"} }

func (p *KillPlugin) Entry() *Item {
	return &Item{
		Title:    "Kill Process",
		Subtitle: "Signal a running process",
		Action:   &SetQueryAction{Query: "kill "},
		Plugin:   p,
	}
}

func (p *KillPlugin) Populate(query string) []*Item {
	processes, err := p.snapshot()
	if err != nil {
		p.logger.Warnf("kill: process listing failed: %v", err)
		return []*Item{{
			Title:    "Process listing unavailable",
			Subtitle: err.Error(),
			Plugin:   p,
		}}
	}

	force := false
	q := strings.TrimSpace(query)
	if rest, ok := strings.CutPrefix(q, "-9 "); ok {
		force = true
		q = strings.TrimSpace(rest)
	} else if q == "-9" {
		force = true
		q = ""
	}
	q = strings.ToLower(q)

	signal := syscall.SIGTERM
	verb := "Terminate"
	if force {
		signal = syscall.SIGKILL
		verb = "Force kill"
	}

	var items []*Item
	for _, proc := range processes {
		if q != "" && !strings.Contains(strings.ToLower(proc.Command), q) &&
			!strings.Contains(strconv.Itoa(proc.PID), q) {
			continue
		}
		items = append(items, &Item{
			Title:    fmt.Sprintf("%s (%d)", proc.Command, proc.PID),
			Subtitle: fmt.Sprintf("%s  cpu %.1f%%  mem %.1f%%", verb, proc.CPU, proc.Memory),
			Action:   &KillAction{PID: proc.PID, Signal: signal},
			Plugin:   p,
		})
	}
	return items
}

func (p *KillPlugin) HandleAction(data ActionData) error {
	action, ok := data.(*KillAction)
	if !ok {
		return ErrUnhandledAction(data)
	}
	// Never signal init or the process group via pid 0.
	if action.PID <= 1 {
		return fmt.Errorf("refusing to signal pid %d", action.PID)
	}
	if err := syscall.Kill(action.PID, action.Signal); err != nil {
		return fmt.Errorf("signal pid %d: %w", action.PID, err)
	}
	p.invalidate()
	return nil
}

func (p *KillPlugin) Cleanup() {}

// snapshot returns the cached process table, refreshing it when stale.
func (p *KillPlugin) snapshot() ([]Process, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	maxAge := time.Duration(p.cfg.RefreshInterval) * time.Second
	if p.processes != nil && time.Since(p.fetchedAt) < maxAge {
		return p.processes, nil
	}

	output, err := runCommand("ps", "-eo", "pid=,pcpu=,pmem=,comm=")
	if err != nil {
		return nil, err
	}

	processes := parseProcessList(output)
	sort.Slice(processes, func(i, j int) bool {
		return processes[i].CPU > processes[j].CPU
	})
	p.processes = processes
	p.fetchedAt = time.Now()
	return processes, nil
}

func (p *KillPlugin) invalidate() {
	p.mu.Lock()
	p.processes = nil
	p.mu.Unlock()
}

// parseProcessList parses headerless "pid pcpu pmem comm" rows.
func parseProcessList(output string) []Process {
	var processes []Process

	for _, line := range strings.Split(output, "\n") {
		parts := strings.Fields(line)
		if len(parts) < 4 {
			continue
		}
		pid, err := strconv.Atoi(parts[0])
		if err != nil {
			continue
		}
		cpu, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			continue
		}
		mem, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			continue
		}
		processes = append(processes, Process{
			PID:     pid,
			CPU:     cpu,
			Memory:  mem,
			Command: strings.Join(parts[3:], " "),
		})
	}
	return processes
}
