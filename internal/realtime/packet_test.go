package realtime

import (
	"strings"
	"testing"
)

func TestDecodePacket(t *testing.T) {
	cases := []struct {
		frame string
		kind  packetKind
		event string
	}{
		{`0{"sid":"abc","pingInterval":25000,"pingTimeout":20000}`, kindOpen, ""},
		{"2", kindPing, ""},
		{"3", kindIgnore, ""},
		{"1", kindClose, ""},
		{`40{"sid":"xyz"}`, kindConnected, ""},
		{"41", kindDisconnect, ""},
		{`44{"message":"unauthorized"}`, kindConnectError, ""},
		{`42["new-notification",{"id":1,"subject":"Hi"}]`, kindEvent, "new-notification"},
		{`4217["new-notification",{"id":1}]`, kindEvent, "new-notification"},
		{`42/admin,["new-notification",{}]`, kindIgnore, ""},
		{"6", kindIgnore, ""},
	}
	for _, tc := range cases {
		p, err := decodePacket(tc.frame)
		if err != nil {
			t.Fatalf("decodePacket(%q) error: %v", tc.frame, err)
		}
		if p.kind != tc.kind || p.event != tc.event {
			t.Fatalf("decodePacket(%q) = kind %d event %q", tc.frame, p.kind, p.event)
		}
	}

	open, _ := decodePacket(`0{"sid":"abc","pingInterval":25000,"pingTimeout":20000}`)
	if open.handshake.PingInterval != 25000 || open.handshake.SID != "abc" {
		t.Fatalf("unexpected handshake %+v", open.handshake)
	}
	ev, _ := decodePacket(`42["new-notification",{"id":1,"subject":"Hi"}]`)
	if !strings.Contains(string(ev.payload), `"subject":"Hi"`) {
		t.Fatalf("unexpected payload %s", ev.payload)
	}
	ce, _ := decodePacket(`44{"message":"unauthorized"}`)
	if ce.errText != "unauthorized" {
		t.Fatalf("unexpected connect error text %q", ce.errText)
	}
}

func TestDecodePacketRejectsGarbage(t *testing.T) {
	for _, frame := range []string{"", "0not-json", "4", "42", "42[]", "42[7]"} {
		if _, err := decodePacket(frame); err == nil {
			t.Fatalf("expected error for %q", frame)
		}
	}
}

func TestSocketURL(t *testing.T) {
	got, err := socketURL("https://cms.example.com/")
	if err != nil {
		t.Fatalf("socketURL() error: %v", err)
	}
	if got != "wss://cms.example.com/socket.io/?EIO=4&transport=websocket" {
		t.Fatalf("unexpected url %q", got)
	}
	if _, err := socketURL("ftp://x"); err == nil {
		t.Fatalf("expected error for ftp scheme")
	}
	if _, err := socketURL("not a url"); err == nil {
		t.Fatalf("expected error for missing host")
	}
}
