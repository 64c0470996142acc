package tui

// Messages for the tea program (stream-based)

// FrameMsg is sent for every frame received from the engine.
type FrameMsg struct {
	Frame Frame
}

// StreamClosedMsg is sent when the websocket connection drops.
type StreamClosedMsg struct {
	Err error
}

// QuerySentMsg is sent after the query went out on the stream.
type QuerySentMsg struct {
	Err error
}
