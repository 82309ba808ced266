package ipc

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartinput/internal/engine"
	"smartinput/internal/keymap"
)

func TestMessageRoundTrip(t *testing.T) {
	payload, err := Encode(&LookupRequest{Pinyin: "nihao", TopK: 5})
	require.NoError(t, err)

	msg := NewMessage(MsgLookup, 42, payload)

	var buf bytes.Buffer
	require.NoError(t, msg.Write(&buf))

	got, err := ReadMessage(&buf)
	require.NoError(t, err)
	assert.Equal(t, MsgLookup, got.Header.Type)
	assert.Equal(t, uint32(42), got.Header.RequestID)

	var req LookupRequest
	require.NoError(t, Decode(got.Payload, &req))
	assert.Equal(t, "nihao", req.Pinyin)
	assert.Equal(t, 5, req.TopK)
}

func TestReadMessageRejectsBadMagic(t *testing.T) {
	var buf bytes.Buffer
	h := Header{Magic: 0xDEADBEEF, Version: ProtocolVersion, Type: MsgPing}
	require.NoError(t, h.Write(&buf))

	_, err := ReadMessage(&buf)
	assert.Error(t, err)
}

func TestReadMessageRejectsFutureVersion(t *testing.T) {
	var buf bytes.Buffer
	h := Header{Magic: ProtocolMagic, Version: ProtocolVersion + 1, Type: MsgPing}
	require.NoError(t, h.Write(&buf))

	_, err := ReadMessage(&buf)
	assert.Error(t, err)
}

func TestReadMessageRejectsOversizedPayload(t *testing.T) {
	var buf bytes.Buffer
	h := Header{Magic: ProtocolMagic, Version: ProtocolVersion, Type: MsgPing, Length: MaxPayloadSize + 1}
	require.NoError(t, h.Write(&buf))

	_, err := ReadMessage(&buf)
	assert.Error(t, err)
}

// startTestServer brings up a server over a temp socket with a live engine.
func startTestServer(t *testing.T) (*Server, *engine.Engine, string) {
	t.Helper()

	eng := engine.New(engine.Config{
		Lookup: func(pinyin string, topK int) []string {
			if pinyin == "ni" {
				return []string{"你", "尼"}
			}
			return nil
		},
	})

	socket := filepath.Join(t.TempDir(), "test.sock")
	srv := NewServer(ServerConfig{SocketPath: socket}, &DaemonHandler{
		Version: "test",
		Engine:  eng,
		Lookup: func(pinyin string, topK int) []string {
			if pinyin == "ni" {
				return []string{"你", "尼"}
			}
			return nil
		},
	})
	require.NoError(t, srv.Start())
	t.Cleanup(func() { srv.Stop() })

	return srv, eng, socket
}

func TestClientPing(t *testing.T) {
	_, _, socket := startTestServer(t)

	c, err := Dial(socket, 2*time.Second)
	require.NoError(t, err)
	defer c.Close()

	assert.NoError(t, c.Ping())
}

func TestClientStatus(t *testing.T) {
	_, eng, socket := startTestServer(t)

	eng.HandleEvent(keymap.Letter('n'))
	eng.HandleEvent(keymap.Letter('i'))

	c, err := Dial(socket, 2*time.Second)
	require.NoError(t, err)
	defer c.Close()

	status, err := c.Status()
	require.NoError(t, err)
	assert.Equal(t, "test", status.Version)
	assert.Equal(t, "pinyin", status.Mode)
	assert.Equal(t, "ni", status.Buffer)
	assert.Equal(t, uint64(2), status.Keystrokes)
}

func TestClientSwitchMode(t *testing.T) {
	_, _, socket := startTestServer(t)

	c, err := Dial(socket, 2*time.Second)
	require.NoError(t, err)
	defer c.Close()

	mode, err := c.SwitchMode()
	require.NoError(t, err)
	assert.Equal(t, "pinyin", mode)

	mode, err = c.SwitchMode()
	require.NoError(t, err)
	assert.Equal(t, "english", mode)
}

func TestClientLookup(t *testing.T) {
	_, _, socket := startTestServer(t)

	c, err := Dial(socket, 2*time.Second)
	require.NoError(t, err)
	defer c.Close()

	candidates, err := c.Lookup("ni", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"你", "尼"}, candidates)

	candidates, err = c.Lookup("zzz", 5)
	require.NoError(t, err)
	assert.Empty(t, candidates)

	_, err = c.Lookup("", 5)
	assert.Error(t, err)
}

func TestClientStop(t *testing.T) {
	eng := engine.New(engine.Config{})

	stopped := make(chan struct{})
	socket := filepath.Join(t.TempDir(), "stop.sock")
	srv := NewServer(ServerConfig{SocketPath: socket}, &DaemonHandler{
		Version: "test",
		Engine:  eng,
		Stop:    func() { close(stopped) },
	})
	require.NoError(t, srv.Start())
	defer srv.Stop()

	c, err := Dial(socket, 2*time.Second)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Stop())
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("stop callback did not fire")
	}
}

func TestHandlerRejectsUnknownType(t *testing.T) {
	h := &DaemonHandler{Version: "test", Engine: engine.New(engine.Config{})}
	resp, err := h.HandleMessage(context.Background(), NewMessage(0x7FFF, 1, nil))
	require.NoError(t, err)
	assert.Equal(t, MsgError, resp.Header.Type)
}
