// Package lanyard is a client for the Lanyard presence gateway
// (wss://api.lanyard.rest/socket).
//
// The gateway speaks JSON frames of the form {"op": n, "d": ..., "t": ...}:
//
//	op 0  Event       server -> client, t is INIT_STATE or PRESENCE_UPDATE
//	op 1  Hello       server -> client, d.heartbeat_interval in milliseconds
//	op 2  Initialize  client -> server, d.subscribe_to_ids
//	op 3  Heartbeat   client -> server
package lanyard

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type Op int

const (
	OpEvent      Op = 0
	OpHello      Op = 1
	OpInitialize Op = 2
	OpHeartbeat  Op = 3
)

const (
	EventInitState      = "INIT_STATE"
	EventPresenceUpdate = "PRESENCE_UPDATE"
)

var ErrMalformedMessage = errors.New("malformed gateway message")

// Message is one gateway frame.
type Message struct {
	Op   Op              `json:"op"`
	Data json.RawMessage `json:"d,omitempty"`
	Type string          `json:"t,omitempty"`
}

// Decode parses a frame. Frames that are not JSON objects or carry no op are
// rejected with ErrMalformedMessage.
func Decode(raw []byte) (Message, error) {
	var probe struct {
		Op   *Op             `json:"op"`
		Data json.RawMessage `json:"d"`
		Type string          `json:"t"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if probe.Op == nil {
		return Message{}, fmt.Errorf("%w: missing op", ErrMalformedMessage)
	}
	return Message{Op: *probe.Op, Data: probe.Data, Type: probe.Type}, nil
}

// HeartbeatInterval reads the interval announced by a Hello frame.
func (m Message) HeartbeatInterval() (time.Duration, error) {
	if m.Op != OpHello {
		return 0, fmt.Errorf("%w: op %d is not hello", ErrMalformedMessage, m.Op)
	}
	var hello struct {
		HeartbeatInterval int64 `json:"heartbeat_interval"`
	}
	if err := json.Unmarshal(m.Data, &hello); err != nil {
		return 0, fmt.Errorf("%w: hello: %v", ErrMalformedMessage, err)
	}
	if hello.HeartbeatInterval <= 0 {
		return 0, fmt.Errorf("%w: heartbeat interval %d", ErrMalformedMessage, hello.HeartbeatInterval)
	}
	return time.Duration(hello.HeartbeatInterval) * time.Millisecond, nil
}

// PresenceFor extracts the presence of userID from an event frame. ok is
// false for frames that do not concern the user, including unknown events.
func (m Message) PresenceFor(userID string) (p Presence, ok bool, err error) {
	if m.Op != OpEvent {
		return Presence{}, false, nil
	}

	switch m.Type {
	case EventInitState:
		var state map[string]json.RawMessage
		if err := json.Unmarshal(m.Data, &state); err != nil {
			return Presence{}, false, fmt.Errorf("%w: init state: %v", ErrMalformedMessage, err)
		}
		raw, found := state[userID]
		if !found || isNull(raw) {
			return Presence{}, false, nil
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return Presence{}, false, fmt.Errorf("%w: init state presence: %v", ErrMalformedMessage, err)
		}
		return p, true, nil

	case EventPresenceUpdate:
		if isNull(m.Data) {
			return Presence{}, false, nil
		}
		if err := json.Unmarshal(m.Data, &p); err != nil {
			return Presence{}, false, fmt.Errorf("%w: presence update: %v", ErrMalformedMessage, err)
		}
		if p.OwnerID() != userID {
			return Presence{}, false, nil
		}
		return p, true, nil
	}

	return Presence{}, false, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

type outbound struct {
	Op   Op  `json:"op"`
	Data any `json:"d,omitempty"`
}

func subscribeFrame(ids ...string) outbound {
	return outbound{
		Op: OpInitialize,
		Data: struct {
			SubscribeToIDs []string `json:"subscribe_to_ids"`
		}{SubscribeToIDs: ids},
	}
}

func heartbeatFrame() outbound {
	return outbound{Op: OpHeartbeat}
}
