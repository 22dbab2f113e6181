package ipc

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gorilla/websocket"
)

// Transport moves whole envelopes. Read is called from one goroutine;
// writes are serialized by Connection.
type Transport interface {
	Read() (Envelope, error)
	Write(env Envelope) error
	Close() error
}

// StreamTransport frames envelopes with a length prefix over a byte stream
// such as a unix socket.
type StreamTransport struct {
	rw io.ReadWriteCloser
}

func NewStreamTransport(rw io.ReadWriteCloser) *StreamTransport {
	return &StreamTransport{rw: rw}
}

func (t *StreamTransport) Read() (Envelope, error)  { return ReadEnvelope(t.rw) }
func (t *StreamTransport) Write(env Envelope) error { return WriteEnvelope(t.rw, env) }
func (t *StreamTransport) Close() error             { return t.rw.Close() }

// WSTransport carries one envelope per websocket text frame.
type WSTransport struct {
	conn *websocket.Conn
}

func NewWSTransport(conn *websocket.Conn) *WSTransport {
	conn.SetReadLimit(maxFrame)
	return &WSTransport{conn: conn}
}

func (t *WSTransport) Read() (Envelope, error) {
	for {
		mt, data, err := t.conn.ReadMessage()
		if err != nil {
			return Envelope{}, fmt.Errorf("read message: %w", err)
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}
		return unmarshalEnvelope(data)
	}
}

func (t *WSTransport) Write(env Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if err := t.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

func (t *WSTransport) Close() error {
	_ = t.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return t.conn.Close()
}
