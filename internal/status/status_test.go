package status

import (
	"encoding/json"
	"testing"
)

func TestStatus_String(t *testing.T) {
	tests := []struct {
		s    Status
		want string
	}{
		{Disconnected, "disconnected"},
		{Connecting, "connecting"},
		{Connected, "connected"},
		{Status(9), "status(9)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestStatus_Active(t *testing.T) {
	if Disconnected.Active() {
		t.Error("disconnected must not be active")
	}
	if !Connecting.Active() || !Connected.Active() {
		t.Error("connecting and connected must be active")
	}
}

func TestStatus_JSON(t *testing.T) {
	data, err := json.Marshal(Connecting)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"connecting"` {
		t.Errorf("got %s, want %q", data, "connecting")
	}

	var s Status
	if err := json.Unmarshal([]byte(`"connected"`), &s); err != nil {
		t.Fatal(err)
	}
	if s != Connected {
		t.Errorf("got %v, want connected", s)
	}

	if err := json.Unmarshal([]byte(`"online"`), &s); err == nil {
		t.Error("expected error for unknown status")
	}
}
