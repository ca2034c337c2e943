package launcher

import (
	"syscall"
	"testing"
	"time"

	"github.com/nmelis/beacon/internal/config"
)

func TestParseProcessList(t *testing.T) {
	output := ` 1234  2.5  0.8 firefox
 5678 12.0  3.1 chrome helper
 abc  1.0  1.0 broken
 9999 x.y  1.0 broken2
`
	processes := parseProcessList(output)

	if len(processes) != 2 {
		t.Fatalf("Expected 2 processes, got %d", len(processes))
	}
	if processes[0].PID != 1234 || processes[0].CPU != 2.5 || processes[0].Memory != 0.8 {
		t.Errorf("Unexpected first process: %+v", processes[0])
	}
	if processes[0].Command != "firefox" {
		t.Errorf("Unexpected command: %q", processes[0].Command)
	}
	if processes[1].Command != "chrome helper" {
		t.Errorf("Expected multi-word command preserved, got %q", processes[1].Command)
	}
}

func TestKillRefusesLowPIDs(t *testing.T) {
	p := &KillPlugin{}

	for _, pid := range []int{1, 0, -1} {
		err := p.HandleAction(&KillAction{PID: pid, Signal: syscall.SIGTERM})
		if err == nil {
			t.Errorf("Expected pid %d to be refused", pid)
		}
	}
}

func TestKillHandleActionForeignType(t *testing.T) {
	p := &KillPlugin{}
	if err := p.HandleAction(&fakeAction{}); err == nil {
		t.Error("Expected foreign action type to error")
	}
}

func TestKillPopulateForceFlag(t *testing.T) {
	p := &KillPlugin{cfg: config.ProcessesConfig{RefreshInterval: 60}}
	p.processes = []Process{{PID: 4242, CPU: 1, Memory: 1, Command: "stuckproc"}}
	p.fetchedAt = time.Now()

	items := p.Populate("-9 stuck")
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}
	action, ok := items[0].Action.(*KillAction)
	if !ok {
		t.Fatal("Expected a kill action")
	}
	if action.Signal != syscall.SIGKILL {
		t.Errorf("Expected -9 prefix to select SIGKILL, got %v", action.Signal)
	}

	items = p.Populate("stuck")
	action = items[0].Action.(*KillAction)
	if action.Signal != syscall.SIGTERM {
		t.Errorf("Expected default SIGTERM, got %v", action.Signal)
	}
}
