package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/samilkawa480-lang/p2p-trading-bot/internal/logger"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10 // must be less than pongWait
)

// StreamFeed keeps the last traded price of one symbol from the Binance
// aggTrade websocket stream. Until the first message arrives it reports
// ErrPriceUnavailable rather than serving a zero.
type StreamFeed struct {
	wsBaseURL string
	symbol    string

	mu        sync.RWMutex
	lastPrice float64
	hasPrice  bool

	stopChan chan struct{}
	stopOnce sync.Once
}

// NewStreamFeed starts the websocket loop for symbol and returns immediately.
func NewStreamFeed(wsBaseURL, symbol string) *StreamFeed {
	f := &StreamFeed{
		wsBaseURL: wsBaseURL,
		symbol:    symbol,
		stopChan:  make(chan struct{}),
	}
	go f.connectLoop()
	return f
}

// CurrentPrice returns the last streamed price for symbol. Asking for a
// different symbol than the stream subscribes to is a wiring mistake.
func (f *StreamFeed) CurrentPrice(_ context.Context, symbol string) (float64, error) {
	if !strings.EqualFold(symbol, f.symbol) {
		return 0, fmt.Errorf("%w: stream subscribed to %s, not %s", ErrPriceUnavailable, f.symbol, symbol)
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	if !f.hasPrice {
		return 0, fmt.Errorf("%w: no trade received yet for %s", ErrPriceUnavailable, f.symbol)
	}
	return f.lastPrice, nil
}

// Close stops the websocket loop.
func (f *StreamFeed) Close() {
	f.stopOnce.Do(func() { close(f.stopChan) })
}

// connectLoop keeps the stream connected, reconnecting after any failure.
func (f *StreamFeed) connectLoop() {
	url := fmt.Sprintf("%s/ws/%s@aggTrade", f.wsBaseURL, strings.ToLower(f.symbol))
	for {
		select {
		case <-f.stopChan:
			return
		default:
		}

		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			logger.S().Warnf("price stream dial failed: %v, retrying in 5s", err)
			time.Sleep(5 * time.Second)
			continue
		}

		logger.S().Infof("price stream connected for %s", f.symbol)
		if err := f.readMessages(conn); err != nil {
			logger.S().Warnf("price stream error: %v, reconnecting", err)
		}
		conn.Close()

		select {
		case <-f.stopChan:
			return
		case <-time.After(5 * time.Second):
		}
	}
}

// readMessages pumps trade messages from an established connection and keeps
// the heartbeat alive. It blocks until the connection breaks or Close is
// called.
func (f *StreamFeed) readMessages(conn *websocket.Conn) error {
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	pingStop := make(chan struct{})
	defer close(pingStop)

	go func() {
		for {
			select {
			case <-pingTicker.C:
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-pingStop:
				return
			case <-f.stopChan:
				return
			}
		}
	}()

	for {
		select {
		case <-f.stopChan:
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return nil
		default:
			_, message, err := conn.ReadMessage()
			if err != nil {
				return fmt.Errorf("read failed: %w", err)
			}

			var trade struct {
				Price json.Number `json:"p"`
			}
			if err := json.Unmarshal(message, &trade); err != nil {
				logger.S().Warnf("failed to parse trade message: %v", err)
				continue
			}
			price, err := trade.Price.Float64()
			if err != nil {
				logger.S().Warnf("failed to parse trade price: %v", err)
				continue
			}

			f.mu.Lock()
			f.lastPrice = price
			f.hasPrice = true
			f.mu.Unlock()
		}
	}
}
