// Package relay implements the event subscription capability over a
// websocket relay connection. One Subscribe call owns one connection;
// pooling across relays is the caller's business.
package relay

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/satrat/zapwire"
)

// Client dials a single relay.
type Client struct {
	// URL is the relay's websocket endpoint, e.g. wss://relay.example.com.
	URL string

	// Dialer defaults to websocket.DefaultDialer.
	Dialer *websocket.Dialer
}

// Subscribe opens a connection, issues a REQ for the filter and invokes
// the handler for every EVENT message until torn down. The returned
// teardown closes the subscription and the connection; calling it more
// than once, or after the connection already dropped, is harmless.
func (c *Client) Subscribe(ctx context.Context, filter zapwire.Filter,
	handler func(*zapwire.Event)) (func(), error) {

	dialer := c.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}

	conn, _, err := dialer.DialContext(ctx, c.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("could not dial relay %s: %w", c.URL,
			err)
	}

	var idBytes [8]byte
	if _, err := rand.Read(idBytes[:]); err != nil {
		conn.Close()
		return nil, err
	}
	subID := hex.EncodeToString(idBytes[:])

	if err := conn.WriteJSON([]interface{}{
		"REQ", subID, filter,
	}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("could not subscribe: %w", err)
	}

	var once sync.Once
	teardown := func() {
		once.Do(func() {
			// Best effort: the connection may already be gone.
			_ = conn.WriteJSON([]interface{}{"CLOSE", subID})
			_ = conn.Close()
		})
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg []json.RawMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			if len(msg) < 3 {
				continue
			}

			var kind string
			if err := json.Unmarshal(msg[0], &kind); err != nil {
				continue
			}
			if kind != "EVENT" {
				continue
			}

			var ev zapwire.Event
			if err := json.Unmarshal(msg[2], &ev); err != nil {
				continue
			}
			handler(&ev)
		}
	}()

	go func() {
		select {
		case <-ctx.Done():
			teardown()
		case <-done:
		}
	}()

	return teardown, nil
}
