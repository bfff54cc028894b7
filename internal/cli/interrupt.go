package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// InterruptHandler cancels in-flight work on SIGINT/SIGTERM and tells the
// user what happened.
type InterruptHandler struct {
	writer      io.Writer
	cancelFunc  context.CancelFunc
	operation   string
	interrupted bool
	mu          sync.Mutex
}

// NewInterruptHandler creates a new interrupt handler.
func NewInterruptHandler(writer io.Writer) *InterruptHandler {
	if writer == nil {
		writer = os.Stderr
	}
	return &InterruptHandler{
		writer: writer,
	}
}

// HandleInterrupts returns a context canceled on the first interrupt signal.
// operation names the work in the message ("Analysis"). Call stop once the
// work is done to release the signal handler.
func (h *InterruptHandler) HandleInterrupts(ctx context.Context, operation string) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)
	h.mu.Lock()
	h.cancelFunc = cancel
	h.operation = operation
	h.mu.Unlock()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case <-sigChan:
			h.interrupt()
		case <-ctx.Done():
		case <-done:
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			signal.Stop(sigChan)
			close(done)
			cancel()
		})
	}
	return ctx, stop
}

// interrupt cancels the context and prints the message once.
func (h *InterruptHandler) interrupt() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.interrupted {
		return
	}
	h.interrupted = true
	h.showInterruptMessage()
	if h.cancelFunc != nil {
		h.cancelFunc()
	}
}

func (h *InterruptHandler) showInterruptMessage() {
	operation := h.operation
	if operation == "" {
		operation = "Request"
	}

	msg := "\n" + FormatWarning(operation+" interrupted!") +
		"\n" + FormatInfo("The request was abandoned; no partial files were kept.") + "\n"

	if _, err := fmt.Fprint(h.writer, msg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write interrupt message: %v\n", err)
	}
}

// WasInterrupted returns true if the process was interrupted.
func (h *InterruptHandler) WasInterrupted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interrupted
}
