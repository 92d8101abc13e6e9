package domain

import (
	"encoding/json"
	"errors"
	"strings"
)

// WebSocket frame types from client.
const (
	FrameTypeSendMessage = "send_message"
	FrameTypePing        = "ping"
)

// WebSocket frame types to client.
const (
	FrameTypeNewMessage = "new_message"
	FrameTypePong       = "pong"
)

// BaseFrame carries only the tag, used to dispatch inbound frames.
type BaseFrame struct {
	Type string `json:"type"`
}

// SendMessageFrame is the client submission envelope.
type SendMessageFrame struct {
	Type    string             `json:"type"`
	Payload SendMessagePayload `json:"payload"`
}

// SendMessagePayload is the client-supplied part of a submission. All three
// fields are required; username and role are self-reported.
type SendMessagePayload struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Text     string `json:"text"`
}

// NewMessageFrame wraps a persisted record for fan-out.
type NewMessageFrame struct {
	Type    string      `json:"type"`
	Payload ChatMessage `json:"payload"`
}

// PongFrame answers a client ping.
type PongFrame struct {
	Type string `json:"type"`
}

var (
	ErrUnknownFrame   = errors.New("unknown frame type")
	ErrMissingField   = errors.New("missing required field")
	ErrMalformedFrame = errors.New("malformed frame")
)

// Validate reports whether a submission carries every required field.
func (p SendMessagePayload) Validate() error {
	if strings.TrimSpace(p.Username) == "" {
		return ErrMissingField
	}
	if strings.TrimSpace(p.Role) == "" {
		return ErrMissingField
	}
	if strings.TrimSpace(p.Text) == "" {
		return ErrMissingField
	}
	return nil
}

// ParseSendMessage decodes and validates a raw send_message frame.
func ParseSendMessage(raw []byte) (SendMessagePayload, error) {
	var frame SendMessageFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return SendMessagePayload{}, ErrMalformedFrame
	}
	if err := frame.Payload.Validate(); err != nil {
		return SendMessagePayload{}, err
	}
	return frame.Payload, nil
}

// NewMessage builds the outbound envelope for a persisted record.
func NewMessage(msg ChatMessage) NewMessageFrame {
	return NewMessageFrame{
		Type:    FrameTypeNewMessage,
		Payload: msg,
	}
}
