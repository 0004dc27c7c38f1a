// Package devicetest provides an in-memory device.System for tests.
package devicetest

import (
	"sync"
	"syscall"

	"github.com/deploymenttheory/go-vcctl/internal/device"
)

// HandlerFunc plays the driver for one control code. It receives the input
// buffer and the output buffer (pre-filled with the input) and returns the
// number of bytes written and an OS error.
type HandlerFunc func(in, out []byte) (uint32, error)

// Call records one control transfer.
type Call struct {
	Code    uint32
	Request []byte
}

// System is a fake device.System. The zero value has no handlers: every
// transfer returns zero bytes.
type System struct {
	mu sync.Mutex

	// OpenErr, when set, fails every Open with it.
	OpenErr error
	// Handlers maps control codes to fake driver behaviour.
	Handlers map[uint32]HandlerFunc

	opened int
	closed int
	paths  []string
	calls  []Call
}

// NewSystem returns a fake with no handlers.
func NewSystem() *System {
	return &System{Handlers: make(map[uint32]HandlerFunc)}
}

// Handle registers fn for code.
func (s *System) Handle(code uint32, fn HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Handlers == nil {
		s.Handlers = make(map[uint32]HandlerFunc)
	}
	s.Handlers[code] = fn
}

// Open implements device.System.
func (s *System) Open(path string) (device.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths = append(s.paths, path)
	if s.OpenErr != nil {
		return nil, s.OpenErr
	}
	s.opened++
	return &handle{sys: s}, nil
}

// Opened returns the number of handles successfully opened.
func (s *System) Opened() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened
}

// Closed returns the number of handles closed.
func (s *System) Closed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Leaked returns the number of handles opened but never closed.
func (s *System) Leaked() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened - s.closed
}

// Paths returns every path passed to Open.
func (s *System) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.paths...)
}

// Calls returns every control transfer issued.
func (s *System) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

type handle struct {
	sys    *System
	closed bool
}

func (h *handle) IoControl(code uint32, in, out []byte) (uint32, error) {
	h.sys.mu.Lock()
	if h.closed {
		h.sys.mu.Unlock()
		return 0, syscall.EBADF
	}
	h.sys.calls = append(h.sys.calls, Call{Code: code, Request: append([]byte(nil), in...)})
	fn := h.sys.Handlers[code]
	h.sys.mu.Unlock()

	if fn == nil {
		return 0, nil
	}
	return fn(in, out)
}

func (h *handle) Close() error {
	h.sys.mu.Lock()
	defer h.sys.mu.Unlock()
	if h.closed {
		return syscall.EBADF
	}
	h.closed = true
	h.sys.closed++
	return nil
}

// Reply returns a handler that copies reply into the output buffer and
// reports its length.
func Reply(reply []byte) HandlerFunc {
	return func(in, out []byte) (uint32, error) {
		n := copy(out, reply)
		return uint32(n), nil
	}
}

// Echo returns a handler that applies mutate to the output buffer and reports
// the full buffer as written, the way the driver answers buffered requests.
func Echo(mutate func(out []byte)) HandlerFunc {
	return func(in, out []byte) (uint32, error) {
		if mutate != nil {
			mutate(out)
		}
		return uint32(len(out)), nil
	}
}

// Fail returns a handler that reports zero bytes and errno.
func Fail(errno syscall.Errno) HandlerFunc {
	return func(in, out []byte) (uint32, error) {
		return 0, errno
	}
}
