package ipc

import (
	"fmt"
	"net"
	"sync/atomic"
	"time"
)

// Client is a synchronous request/response client for the daemon socket.
type Client struct {
	conn    net.Conn
	timeout time.Duration
	nextID  atomic.Uint32
}

// Dial connects to the daemon socket.
func Dial(socketPath string, timeout time.Duration) (*Client, error) {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	conn, err := net.DialTimeout("unix", socketPath, timeout)
	if err != nil {
		return nil, fmt.Errorf("connect to daemon: %w", err)
	}
	return &Client{conn: conn, timeout: timeout}, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// roundTrip sends a request and waits for the matching response.
func (c *Client) roundTrip(msgType MessageType, payload []byte) (*Message, error) {
	id := c.nextID.Add(1)
	req := NewMessage(msgType, id, payload)

	c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
	if err := req.Write(c.conn); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	c.conn.SetReadDeadline(time.Now().Add(c.timeout))
	resp, err := ReadMessage(c.conn)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.Header.RequestID != id {
		return nil, fmt.Errorf("response id %d does not match request %d", resp.Header.RequestID, id)
	}
	if resp.Header.Type == MsgError {
		var er ErrorResponse
		if err := Decode(resp.Payload, &er); err != nil {
			return nil, fmt.Errorf("daemon error (undecodable)")
		}
		return nil, fmt.Errorf("daemon error %d: %s", er.Code, er.Message)
	}
	return resp, nil
}

// Ping checks the daemon is alive.
func (c *Client) Ping() error {
	resp, err := c.roundTrip(MsgPing, nil)
	if err != nil {
		return err
	}
	if resp.Header.Type != MsgPong {
		return fmt.Errorf("unexpected response type %#x", resp.Header.Type)
	}
	return nil
}

// Status fetches the daemon status snapshot.
func (c *Client) Status() (*StatusResponse, error) {
	resp, err := c.roundTrip(MsgStatusRequest, nil)
	if err != nil {
		return nil, err
	}
	var status StatusResponse
	if err := Decode(resp.Payload, &status); err != nil {
		return nil, fmt.Errorf("decode status: %w", err)
	}
	return &status, nil
}

// SwitchMode forces a mode switch and returns the new mode.
func (c *Client) SwitchMode() (string, error) {
	resp, err := c.roundTrip(MsgSwitchMode, nil)
	if err != nil {
		return "", err
	}
	var sw SwitchModeResponse
	if err := Decode(resp.Payload, &sw); err != nil {
		return "", fmt.Errorf("decode switch response: %w", err)
	}
	return sw.Mode, nil
}

// Stop asks the daemon to shut down.
func (c *Client) Stop() error {
	_, err := c.roundTrip(MsgStop, nil)
	return err
}

// Lookup resolves a pinyin string into ranked candidates.
func (c *Client) Lookup(pinyin string, topK int) ([]string, error) {
	payload, err := Encode(&LookupRequest{Pinyin: pinyin, TopK: topK})
	if err != nil {
		return nil, err
	}
	resp, err := c.roundTrip(MsgLookup, payload)
	if err != nil {
		return nil, err
	}
	var lr LookupResponse
	if err := Decode(resp.Payload, &lr); err != nil {
		return nil, fmt.Errorf("decode lookup response: %w", err)
	}
	return lr.Candidates, nil
}
