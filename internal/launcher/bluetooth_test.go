package launcher

import "testing"

func TestParseDeviceList(t *testing.T) {
	output := `Device AA:BB:CC:DD:EE:FF WH-1000XM4 Headphones
Device 11:22:33:44:55:66 Keyboard
Controller 00:00:00:00:00:00 hci0
Device BA:DB:AD
`
	devices := parseDeviceList(output)

	if len(devices) != 2 {
		t.Fatalf("Expected 2 devices, got %d", len(devices))
	}
	if devices[0].MAC != "AA:BB:CC:DD:EE:FF" {
		t.Errorf("Unexpected MAC: %s", devices[0].MAC)
	}
	if devices[0].Name != "WH-1000XM4 Headphones" {
		t.Errorf("Expected multi-word name preserved, got %q", devices[0].Name)
	}
	if devices[1].Name != "Keyboard" {
		t.Errorf("Unexpected name: %q", devices[1].Name)
	}
}

func TestApplyDeviceInfo(t *testing.T) {
	info := `Device AA:BB:CC:DD:EE:FF (public)
	Name: WH-1000XM4
	Paired: yes
	Trusted: no
	Connected: yes
`
	d := BluetoothDevice{MAC: "AA:BB:CC:DD:EE:FF"}
	applyDeviceInfo(&d, info)

	if !d.Connected {
		t.Error("Expected connected")
	}
	if !d.Paired {
		t.Error("Expected paired")
	}
	if d.Trusted {
		t.Error("Expected not trusted")
	}
}

func TestBluetoothHandleActionUnknownOp(t *testing.T) {
	p := &BluetoothPlugin{}
	if err := p.HandleAction(&BluetoothAction{Op: "teleport"}); err == nil {
		t.Error("Expected unknown op to error")
	}
	if err := p.HandleAction(&fakeAction{}); err == nil {
		t.Error("Expected foreign action type to error")
	}
}
