package main

/*
#include <stdlib.h>
#include "notifier.h"
*/
import "C"

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unsafe"

	pointer "github.com/mattn/go-pointer"

	notifier "github.com/e7canasta/notifier-bridge"
)

//export notifier_version
func notifier_version() C.uint64_t {
	return C.uint64_t(notifier.Version())
}

// notifier_start starts the worker in push mode. callback runs on the worker
// thread, once per message, and must not call notifier_stop.
//
//export notifier_start
func notifier_start(callback C.NotifierCallback) C.bool {
	if callback == nil {
		slog.Error("libnotifier: notifier_start called with a nil callback")
		return false
	}

	ok := get().StartPush(context.Background(), func(env notifier.Envelope) {
		C.notifier_invoke_callback(callback, newMessage(env))
	})
	return C.bool(ok)
}

// notifier_start_pull starts the worker in pull mode. No-op if running.
//
//export notifier_start_pull
func notifier_start_pull() {
	get().StartPull(context.Background())
}

// notifier_stop blocks until the worker has exited. A worker panic is
// re-raised here; a source failure is only logged.
//
//export notifier_stop
func notifier_stop() {
	err := get().Stop()
	if err == nil {
		return
	}

	var pe *notifier.PanicError
	if errors.As(err, &pe) {
		panic(fmt.Sprintf("notifier: worker panicked: %v\n%s", pe.Value, pe.Stack))
	}

	slog.Error("libnotifier: worker ended with error", "error", err)
}

//export notifier_deallocate_message
func notifier_deallocate_message(message C.NotifierMessage) {
	releaseText(message.text)
}

//export notifier_queue_new
func notifier_queue_new() unsafe.Pointer {
	return pointer.Save(&hostQueue{})
}

// notifier_sync_process_queue moves every queued message into q.
//
//export notifier_sync_process_queue
func notifier_sync_process_queue(q unsafe.Pointer) {
	hq := restoreQueue(q)
	if hq == nil {
		slog.Error("libnotifier: sync on unknown queue handle")
		return
	}
	hq.syncFrom(get())
}

//export notifier_queue_len
func notifier_queue_len(q unsafe.Pointer) C.size_t {
	hq := restoreQueue(q)
	if hq == nil {
		return 0
	}
	return C.size_t(hq.len())
}

// notifier_queue_pop moves the oldest message of q into *out. The host owns
// out->text afterwards.
//
//export notifier_queue_pop
func notifier_queue_pop(q unsafe.Pointer, out *C.NotifierMessage) C.bool {
	hq := restoreQueue(q)
	if hq == nil || out == nil {
		return false
	}

	env, ok := hq.pop()
	if !ok {
		return false
	}

	*out = newMessage(env)
	return true
}

// notifier_queue_free releases q and drops messages never popped.
//
//export notifier_queue_free
func notifier_queue_free(q unsafe.Pointer) {
	hq := restoreQueue(q)
	if hq == nil {
		return
	}
	if dropped := hq.len(); dropped > 0 {
		slog.Debug("libnotifier: queue freed with pending messages", "count", dropped)
	}
	pointer.Unref(q)
}

func restoreQueue(q unsafe.Pointer) *hostQueue {
	if q == nil {
		return nil
	}
	hq, _ := pointer.Restore(q).(*hostQueue)
	return hq
}
