// Package envelope defines the unit of notifier output.
package envelope

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProtocolVersion identifies the revision of the notifier message protocol.
const ProtocolVersion uint64 = 2

// StartupText is the first line every source emits.
func StartupText() string {
	return fmt.Sprintf("Notifier v%d started", ProtocolVersion)
}

// Color is an RGB triple, one byte per channel.
type Color struct {
	R uint8
	G uint8
	B uint8
}

var (
	// ColorStartup marks the line a source emits when it comes up.
	ColorStartup = Color{40, 40, 255}
	// ColorCounter is used for counter lines and chat messages without a color tag.
	ColorCounter = Color{40, 255, 40}
	// ColorConnected marks the connection confirmation line of the chat source.
	ColorConnected = Color{255, 200, 40}
	// ColorRaw is used for forwarded protocol lines that are not chat messages.
	ColorRaw = Color{160, 160, 160}
)

// String returns the color as #RRGGBB.
func (c Color) String() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// ParseHexColor parses "#RRGGBB" (leading '#' optional).
func ParseHexColor(s string) (Color, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("envelope: invalid color %q", s)
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("envelope: invalid color %q: %w", s, err)
	}

	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Envelope is one event produced by the worker.
//
// Ownership: the worker builds a fresh Envelope per event and hands it to
// exactly one delivery sink. It keeps no reference afterwards. Text is never
// reused between envelopes.
type Envelope struct {
	// ID is a unique identifier (tracing, dedup on the host side)
	ID string

	// Seq is assigned by the worker at production time, starting at 1.
	// Monotonically increasing within one worker run.
	Seq uint64

	// Text is the line to display
	Text string

	// Color is the display color
	Color Color

	// Timestamp is when the worker produced the event
	Timestamp time.Time

	// Source names the producer ("synthetic", "chat")
	Source string
}

// New builds an envelope stamped with a fresh ID and the current time.
func New(seq uint64, source, text string, color Color) Envelope {
	return Envelope{
		ID:        uuid.New().String(),
		Seq:       seq,
		Text:      text,
		Color:     color,
		Timestamp: time.Now(),
		Source:    source,
	}
}
