package ws

import (
	"encoding/json"
	"fmt"
)

const typeAuth = "AUTH"

// InboundMessage is a closed set of client-to-server messages.
type InboundMessage interface {
	inbound()
}

// AuthMessage carries the bearer token of the handshake.
type AuthMessage struct {
	Token string
}

// UnknownMessage is any well-formed message with an unrecognised type.
type UnknownMessage struct {
	Type string
}

func (AuthMessage) inbound()    {}
func (UnknownMessage) inbound() {}

type inboundEnvelope struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// DecodeInbound parses a client frame. It fails only on malformed JSON.
func DecodeInbound(data []byte) (InboundMessage, error) {
	var env inboundEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode inbound message: %w", err)
	}

	switch env.Type {
	case typeAuth:
		return AuthMessage{Token: env.Token}, nil
	default:
		return UnknownMessage{Type: env.Type}, nil
	}
}
