package main

/*
#include <stdlib.h>
#include "notifier.h"
*/
import "C"

import (
	"fmt"
	"log/slog"
	"unsafe"

	notifier "github.com/e7canasta/notifier-bridge"
	"github.com/e7canasta/notifier-bridge/internal/handoff"
)

// newMessage copies env into a C message. The text buffer is recorded in the
// ledger; the host owns it from here on.
func newMessage(env notifier.Envelope) C.NotifierMessage {
	text := C.CString(env.Text)
	if err := ledger.Acquire(handleOf(text)); err != nil {
		slog.Error("libnotifier: text buffer not tracked", "error", err)
	}

	return C.NotifierMessage{
		text: text,
		color: C.NotifierColor{
			r: C.uint8_t(env.Color.R),
			g: C.uint8_t(env.Color.G),
			b: C.uint8_t(env.Color.B),
		},
	}
}

// releaseText frees a text buffer handed out by newMessage, at most once.
func releaseText(text *C.char) {
	if err := ledger.Release(handleOf(text)); err != nil {
		slog.Error("libnotifier: refusing to free message text",
			"error", err,
			"ptr", fmt.Sprintf("%p", text),
		)
		return
	}
	C.free(unsafe.Pointer(text))
}

func handleOf(text *C.char) handoff.Handle {
	return handoff.Handle(uintptr(unsafe.Pointer(text)))
}
