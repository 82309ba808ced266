package ipc

import (
	"context"
	"time"

	"smartinput/internal/engine"
)

// DaemonHandler answers IPC requests against the running engine.
type DaemonHandler struct {
	Version string
	Engine  *engine.Engine

	// Lookup resolves pinyin for MsgLookup requests.
	Lookup func(pinyin string, topK int) []string

	// Stop initiates daemon shutdown for MsgStop requests.
	Stop func()
}

// HandleMessage implements Handler.
func (h *DaemonHandler) HandleMessage(ctx context.Context, msg *Message) (*Message, error) {
	switch msg.Header.Type {
	case MsgStatusRequest:
		return h.handleStatus(msg)
	case MsgSwitchMode:
		return h.handleSwitch(msg)
	case MsgStop:
		return h.handleStop(msg)
	case MsgLookup:
		return h.handleLookup(msg)
	default:
		return NewErrorMessage(msg.Header.RequestID, ErrInvalidRequest, "unknown message type"), nil
	}
}

func (h *DaemonHandler) handleStatus(msg *Message) (*Message, error) {
	snap := h.Engine.Snapshot()
	return NewResponse(MsgStatusResponse, msg.Header.RequestID, &StatusResponse{
		Version:    h.Version,
		Mode:       snap.Mode,
		Buffer:     snap.Buffer,
		Candidates: snap.Candidates,
		Keystrokes: snap.Keystrokes,
		Commits:    snap.Commits,
		Switches:   snap.Switches,
		StartedAt:  snap.StartedAt,
		Uptime:     time.Since(snap.StartedAt).Round(time.Second).String(),
	})
}

func (h *DaemonHandler) handleSwitch(msg *Message) (*Message, error) {
	mode := h.Engine.ForceSwitch()
	return NewResponse(MsgSwitchModeResp, msg.Header.RequestID, &SwitchModeResponse{
		Mode: mode.String(),
	})
}

func (h *DaemonHandler) handleStop(msg *Message) (*Message, error) {
	if h.Stop != nil {
		h.Stop()
	}
	return NewResponse(MsgStopResp, msg.Header.RequestID, &StopResponse{Stopping: true})
}

func (h *DaemonHandler) handleLookup(msg *Message) (*Message, error) {
	var req LookupRequest
	if err := Decode(msg.Payload, &req); err != nil {
		return NewErrorMessage(msg.Header.RequestID, ErrInvalidRequest, "invalid lookup request"), nil
	}
	if req.Pinyin == "" {
		return NewErrorMessage(msg.Header.RequestID, ErrInvalidRequest, "pinyin must not be empty"), nil
	}
	if req.TopK <= 0 {
		req.TopK = engine.DefaultTopK
	}

	var candidates []string
	if h.Lookup != nil {
		candidates = h.Lookup(req.Pinyin, req.TopK)
	}
	return NewResponse(MsgLookupResp, msg.Header.RequestID, &LookupResponse{
		Pinyin:     req.Pinyin,
		Candidates: candidates,
	})
}
