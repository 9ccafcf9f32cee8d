// Package chat implements the external event source: a live chat line
// stream carried over WebSocket (IRC dialect, as served by Twitch).
//
// One connection per run, no reconnect. Every failure is fatal to the worker.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/e7canasta/notifier-bridge/internal/envelope"
	"github.com/e7canasta/notifier-bridge/internal/source"
)

const (
	// DefaultURL is the public Twitch chat endpoint.
	DefaultURL = "wss://irc-ws.chat.twitch.tv:443"

	defaultHandshakeTimeout = 10 * time.Second
	defaultWriteTimeout     = 5 * time.Second

	anonymousNickPrefix = "justinfan"
)

// Config configures the chat source.
type Config struct {
	// URL is the WebSocket endpoint (ws:// or wss://)
	URL string
	// Channel to join, with or without the leading '#' (required)
	Channel string
	// Nick to log in with (anonymous justinfan nick if empty)
	Nick string
	// Token is the OAuth token, with or without the "oauth:" prefix (optional)
	Token string
	// HandshakeTimeout bounds the WebSocket handshake
	HandshakeTimeout time.Duration
	// WriteTimeout bounds each outgoing line (login, PONG)
	WriteTimeout time.Duration
}

// Source is the chat line stream.
type Source struct {
	cfg    Config
	dialer *websocket.Dialer
}

// New validates cfg (fail-fast) and returns a chat source.
func New(cfg Config) (*Source, error) {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if !strings.HasPrefix(cfg.URL, "ws://") && !strings.HasPrefix(cfg.URL, "wss://") {
		return nil, fmt.Errorf("chat: invalid URL %q (must be ws:// or wss://)", cfg.URL)
	}

	cfg.Channel = strings.ToLower(strings.TrimPrefix(cfg.Channel, "#"))
	if cfg.Channel == "" {
		return nil, fmt.Errorf("chat: channel is required")
	}

	if cfg.Token != "" && cfg.Nick == "" {
		return nil, fmt.Errorf("chat: nick is required when a token is set")
	}
	if cfg.Nick == "" {
		cfg.Nick = fmt.Sprintf("%s%d", anonymousNickPrefix, 10000+rand.Intn(90000))
	}
	if cfg.Token != "" && !strings.HasPrefix(cfg.Token, "oauth:") {
		cfg.Token = "oauth:" + cfg.Token
	}

	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = defaultHandshakeTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}

	return &Source{
		cfg: cfg,
		dialer: &websocket.Dialer{
			HandshakeTimeout: cfg.HandshakeTimeout,
		},
	}, nil
}

// Name implements source.Source.
func (s *Source) Name() string { return "chat" }

// Channel returns the normalized channel name (no '#').
func (s *Source) Channel() string { return s.cfg.Channel }

// Run implements source.Source.
//
// Cancellation is checked before each received line. A stop request that
// arrives while ReadMessage is blocked takes effect once the next frame
// arrives or the connection ends; the read is never interrupted.
func (s *Source) Run(ctx context.Context, emit source.Emitter) error {
	conn, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer s.disconnect(conn)

	if err := emit.Emit(envelope.StartupText(), envelope.ColorStartup); err != nil {
		return err
	}
	if err := emit.Emit("Connected to #"+s.cfg.Channel, envelope.ColorConnected); err != nil {
		return err
	}

	slog.Info("notifier: chat source connected",
		"url", s.cfg.URL,
		"channel", s.cfg.Channel,
		"nick", s.cfg.Nick,
		"anonymous", s.cfg.Token == "",
	)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			// Connection ending after a stop request is the expected exit
			if !emit.Running() || ctx.Err() != nil {
				return nil
			}
			return source.Wrap("receive", err)
		}

		for _, raw := range strings.Split(string(data), "\n") {
			raw = strings.TrimRight(raw, "\r")
			if raw == "" {
				continue
			}

			// Safe point: cancellation is honoured between lines only
			if !emit.Running() || ctx.Err() != nil {
				slog.Debug("notifier: chat source observed cancellation")
				return nil
			}

			if err := s.handleLine(conn, emit, raw); err != nil {
				return err
			}
		}
	}
}

func (s *Source) connect(ctx context.Context) (*websocket.Conn, error) {
	conn, _, err := s.dialer.DialContext(ctx, s.cfg.URL, nil)
	if err != nil {
		return nil, source.Wrap("dial", err)
	}

	login := []string{"CAP REQ :twitch.tv/tags twitch.tv/commands"}
	if s.cfg.Token != "" {
		login = append(login, "PASS "+s.cfg.Token)
	}
	login = append(login,
		"NICK "+s.cfg.Nick,
		"JOIN #"+s.cfg.Channel,
	)

	for _, line := range login {
		if err := s.writeLine(conn, line); err != nil {
			conn.Close()
			return nil, source.Wrap("login", err)
		}
	}

	return conn, nil
}

func (s *Source) disconnect(conn *websocket.Conn) {
	deadline := time.Now().Add(s.cfg.WriteTimeout)
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := conn.WriteControl(websocket.CloseMessage, msg, deadline); err != nil {
		slog.Debug("notifier: chat close frame not sent", "error", err)
	}
	conn.Close()
}

func (s *Source) writeLine(conn *websocket.Conn, line string) error {
	if err := conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, []byte(line+"\r\n"))
}

// handleLine processes one received line.
func (s *Source) handleLine(conn *websocket.Conn, emit source.Emitter, raw string) error {
	line, err := parseLine(raw)
	if err != nil {
		return &source.Error{
			Category: source.ErrCategoryProtocol,
			Op:       "receive",
			Err:      fmt.Errorf("%w: %q", err, raw),
		}
	}

	switch line.Command {
	case "PING":
		pong := "PONG"
		if line.Trailing != "" {
			pong += " :" + line.Trailing
		}
		if err := s.writeLine(conn, pong); err != nil {
			return source.Wrap("pong", err)
		}
		return nil

	case "NOTICE":
		if isLoginFailure(line.Trailing) {
			return &source.Error{
				Category: source.ErrCategoryAuth,
				Op:       "login",
				Err:      errors.New(line.Trailing),
			}
		}

	case "PRIVMSG":
		return emit.Emit(formatMessage(line), messageColor(line))
	}

	return emit.Emit(line.Raw, envelope.ColorRaw)
}

func isLoginFailure(text string) bool {
	t := strings.ToLower(text)
	return strings.Contains(t, "authentication failed") ||
		strings.Contains(t, "improperly formatted auth")
}

func formatMessage(line ircLine) string {
	name := line.Tags["display-name"]
	if name == "" {
		name = line.Nick()
	}
	return name + ": " + line.Trailing
}

func messageColor(line ircLine) envelope.Color {
	if c, err := envelope.ParseHexColor(line.Tags["color"]); err == nil {
		return c
	}
	return envelope.ColorCounter
}
