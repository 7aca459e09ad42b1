package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Engine.IO v4 packet types.
const (
	eioOpen    = '0'
	eioClose   = '1'
	eioPing    = '2'
	eioPong    = '3'
	eioMessage = '4'
)

// Socket.IO v5 packet types, carried inside an Engine.IO message.
const (
	sioConnect      = '0'
	sioDisconnect   = '1'
	sioEvent        = '2'
	sioConnectError = '4'
)

var errMalformed = errors.New("realtime: malformed packet")

type handshake struct {
	SID          string `json:"sid"`
	PingInterval int    `json:"pingInterval"`
	PingTimeout  int    `json:"pingTimeout"`
}

type packetKind int

const (
	kindIgnore packetKind = iota
	kindOpen
	kindClose
	kindPing
	kindConnected
	kindConnectError
	kindDisconnect
	kindEvent
)

type packet struct {
	kind      packetKind
	handshake handshake
	event     string
	payload   json.RawMessage
	errText   string
}

// decodePacket parses one websocket text frame.
func decodePacket(frame string) (packet, error) {
	if frame == "" {
		return packet{}, errMalformed
	}
	switch frame[0] {
	case eioOpen:
		var hs handshake
		if err := json.Unmarshal([]byte(frame[1:]), &hs); err != nil {
			return packet{}, fmt.Errorf("%w: open: %v", errMalformed, err)
		}
		return packet{kind: kindOpen, handshake: hs}, nil
	case eioClose:
		return packet{kind: kindClose}, nil
	case eioPing:
		return packet{kind: kindPing}, nil
	case eioPong:
		return packet{kind: kindIgnore}, nil
	case eioMessage:
		return decodeSocketPacket(frame[1:])
	default:
		return packet{kind: kindIgnore}, nil
	}
}

func decodeSocketPacket(body string) (packet, error) {
	if body == "" {
		return packet{}, errMalformed
	}
	kind, rest := body[0], body[1:]

	// Only the root namespace is used; packets for others are dropped.
	if strings.HasPrefix(rest, "/") {
		return packet{kind: kindIgnore}, nil
	}

	switch kind {
	case sioConnect:
		return packet{kind: kindConnected}, nil
	case sioDisconnect:
		return packet{kind: kindDisconnect}, nil
	case sioConnectError:
		var e struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal([]byte(rest), &e)
		return packet{kind: kindConnectError, errText: e.Message}, nil
	case sioEvent:
		rest = strings.TrimLeft(rest, "0123456789")
		var args []json.RawMessage
		if err := json.Unmarshal([]byte(rest), &args); err != nil || len(args) == 0 {
			return packet{}, fmt.Errorf("%w: event body", errMalformed)
		}
		var name string
		if err := json.Unmarshal(args[0], &name); err != nil {
			return packet{}, fmt.Errorf("%w: event name", errMalformed)
		}
		p := packet{kind: kindEvent, event: name}
		if len(args) > 1 {
			p.payload = args[1]
		}
		return p, nil
	default:
		return packet{kind: kindIgnore}, nil
	}
}

func connectFrame() string {
	return string([]byte{eioMessage, sioConnect})
}

func pongFrame() string {
	return string([]byte{eioPong})
}
