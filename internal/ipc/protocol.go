// Package ipc provides inter-process communication between the smartinput
// daemon and its command-line clients.
//
// The wire format is a fixed binary header followed by a JSON payload. The
// header carries a magic number, protocol version, message type, request ID
// for correlation and the payload length.
package ipc

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Protocol version for compatibility checking
const (
	ProtocolVersion = 1
	ProtocolMagic   = 0x53495043 // "SIPC"
)

// MessageType identifies the type of IPC message
type MessageType uint16

const (
	// Control messages (0x00xx)
	MsgPing  MessageType = 0x0001
	MsgPong  MessageType = 0x0002
	MsgError MessageType = 0x0005

	// Status messages (0x01xx)
	MsgStatusRequest  MessageType = 0x0100
	MsgStatusResponse MessageType = 0x0101

	// Mode control (0x02xx)
	MsgSwitchMode     MessageType = 0x0200
	MsgSwitchModeResp MessageType = 0x0201
	MsgStop           MessageType = 0x0202
	MsgStopResp       MessageType = 0x0203

	// Dictionary queries (0x03xx)
	MsgLookup     MessageType = 0x0300
	MsgLookupResp MessageType = 0x0301
)

// Header is the fixed-size message header (16 bytes)
type Header struct {
	Magic     uint32
	Version   uint8
	Flags     uint8
	Type      MessageType
	RequestID uint32
	Length    uint32 // Payload length, not including the header
}

// HeaderSize is the size of the header in bytes
const HeaderSize = 16

// MaxPayloadSize bounds a single message payload.
const MaxPayloadSize = 1 << 20

// Message wraps a header and payload
type Message struct {
	Header  Header
	Payload []byte
}

// NewMessage creates a new message with the given type and payload
func NewMessage(msgType MessageType, requestID uint32, payload []byte) *Message {
	return &Message{
		Header: Header{
			Magic:     ProtocolMagic,
			Version:   ProtocolVersion,
			Type:      msgType,
			RequestID: requestID,
			Length:    uint32(len(payload)),
		},
		Payload: payload,
	}
}

// Write writes the header to a writer
func (h *Header) Write(w io.Writer) error {
	buf := make([]byte, HeaderSize)
	binary.BigEndian.PutUint32(buf[0:4], h.Magic)
	buf[4] = h.Version
	buf[5] = h.Flags
	binary.BigEndian.PutUint16(buf[6:8], uint16(h.Type))
	binary.BigEndian.PutUint32(buf[8:12], h.RequestID)
	binary.BigEndian.PutUint32(buf[12:16], h.Length)
	_, err := w.Write(buf)
	return err
}

// ReadHeader reads a header from a reader
func ReadHeader(r io.Reader) (*Header, error) {
	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}

	h := &Header{
		Magic:     binary.BigEndian.Uint32(buf[0:4]),
		Version:   buf[4],
		Flags:     buf[5],
		Type:      MessageType(binary.BigEndian.Uint16(buf[6:8])),
		RequestID: binary.BigEndian.Uint32(buf[8:12]),
		Length:    binary.BigEndian.Uint32(buf[12:16]),
	}

	if h.Magic != ProtocolMagic {
		return nil, fmt.Errorf("invalid magic number: %x", h.Magic)
	}
	if h.Version > ProtocolVersion {
		return nil, fmt.Errorf("unsupported protocol version: %d", h.Version)
	}

	return h, nil
}

// Write writes the message to a writer
func (m *Message) Write(w io.Writer) error {
	if err := m.Header.Write(w); err != nil {
		return err
	}
	if len(m.Payload) > 0 {
		_, err := w.Write(m.Payload)
		return err
	}
	return nil
}

// ReadMessage reads a complete message from a reader
func ReadMessage(r io.Reader) (*Message, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}

	m := &Message{Header: *h}
	if h.Length > 0 {
		if h.Length > MaxPayloadSize {
			return nil, fmt.Errorf("payload too large: %d bytes", h.Length)
		}
		m.Payload = make([]byte, h.Length)
		if _, err := io.ReadFull(r, m.Payload); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Request/Response payloads

// ErrorResponse is sent when an operation fails
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrUnknown        = 1
	ErrInvalidRequest = 2
	ErrInternalError  = 5
)

// StatusResponse contains daemon status
type StatusResponse struct {
	Version    string    `json:"version"`
	Mode       string    `json:"mode"`
	Buffer     string    `json:"buffer"`
	Candidates []string  `json:"candidates"`
	Keystrokes uint64    `json:"keystrokes"`
	Commits    uint64    `json:"commits"`
	Switches   uint64    `json:"switches"`
	StartedAt  time.Time `json:"started_at"`
	Uptime     string    `json:"uptime"`
}

// SwitchModeResponse reports the mode after a forced switch
type SwitchModeResponse struct {
	Mode string `json:"mode"`
}

// StopResponse acknowledges a stop request
type StopResponse struct {
	Stopping bool `json:"stopping"`
}

// LookupRequest asks the daemon to resolve a pinyin string
type LookupRequest struct {
	Pinyin string `json:"pinyin"`
	TopK   int    `json:"top_k,omitempty"`
}

// LookupResponse contains the ranked candidates
type LookupResponse struct {
	Pinyin     string   `json:"pinyin"`
	Candidates []string `json:"candidates"`
}

// Encode encodes a payload to JSON bytes
func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Decode decodes JSON bytes to a payload
func Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// NewErrorMessage creates an error message
func NewErrorMessage(requestID uint32, code int, message string) *Message {
	payload, _ := Encode(&ErrorResponse{Code: code, Message: message})
	return NewMessage(MsgError, requestID, payload)
}

// NewResponse creates a response message
func NewResponse(msgType MessageType, requestID uint32, v any) (*Message, error) {
	payload, err := Encode(v)
	if err != nil {
		return nil, err
	}
	return NewMessage(msgType, requestID, payload), nil
}
