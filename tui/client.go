package tui

import (
	"fmt"

	"github.com/gorilla/websocket"
)

// Frame is one message from the engine's progress stream. Status carries
// progress updates until the terminal frame, which sets either Report
// (Status "complete") or Error.
type Frame struct {
	Status string `json:"status,omitempty"`
	Report string `json:"report,omitempty"`
	Error  string `json:"error,omitempty"`
}

// StreamClient is a thin websocket client for the engine's /ws endpoint.
type StreamClient struct {
	conn   *websocket.Conn
	frames chan Frame
	closed chan error
}

// Connect dials the engine and starts reading frames.
func Connect(url string) (*StreamClient, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", url, err)
	}
	c := &StreamClient{
		conn:   conn,
		frames: make(chan Frame, 16),
		closed: make(chan error, 1),
	}
	go c.readLoop()
	return c, nil
}

func (c *StreamClient) readLoop() {
	defer close(c.frames)
	for {
		var f Frame
		if err := c.conn.ReadJSON(&f); err != nil {
			c.closed <- err
			return
		}
		c.frames <- f
	}
}

// SendQuery submits a query over the stream.
func (c *StreamClient) SendQuery(query string) error {
	return c.conn.WriteJSON(map[string]string{"query": query})
}

// Frames returns the inbound frame channel. It closes when the connection
// drops.
func (c *StreamClient) Frames() <-chan Frame {
	return c.frames
}

// Close tears down the connection.
func (c *StreamClient) Close() error {
	return c.conn.Close()
}
