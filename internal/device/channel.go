// Package device provides the scoped channel to the driver's device object
// and the control transfer on top of it.
package device

import (
	"errors"
	"fmt"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/deploymenttheory/go-vcctl/internal/types"
)

// Handle is an open OS handle to a device.
type Handle interface {
	// IoControl performs one buffered control transfer and returns the number of
	// bytes the driver wrote into out.
	IoControl(code uint32, in, out []byte) (uint32, error)
	Close() error
}

// System opens device handles. The Windows implementation wraps CreateFileW;
// tests inject a fake.
type System interface {
	Open(path string) (Handle, error)
}

// Reply is the result of a control transfer. Data is the whole output buffer,
// of the requested capacity; only the first BytesReturned bytes were written by
// the driver in this call.
type Reply struct {
	BytesReturned uint32
	Data          []byte
}

// Channel is one open handle to the driver. It is not safe for concurrent use;
// callers serialise whole transactions.
type Channel struct {
	path   string
	handle Handle
	log    logrus.FieldLogger
	closed bool
}

// Open acquires a channel to path. The error is an *OpenError carrying the OS
// error code.
func Open(sys System, path string, log logrus.FieldLogger) (*Channel, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	h, err := sys.Open(path)
	if err != nil {
		return nil, &OpenError{Path: path, Code: ErrorCode(err), Err: err}
	}
	if h == nil {
		return nil, &OpenError{Path: path, Err: errors.New("invalid handle")}
	}
	log.WithField("device", path).Debug("device channel opened")
	return &Channel{path: path, handle: h, log: log}, nil
}

// Path returns the device path the channel was opened on.
func (c *Channel) Path() string {
	return c.path
}

// Send issues code with request as input and an output buffer of
// responseCapacity bytes. The output buffer starts as a copy of request, so a
// record sent and received in place reads back unchanged where the driver did
// not write.
//
// A transfer that returns zero bytes is a failure even when the OS call
// succeeded: the driver reports every processed request with a non-empty reply.
func (c *Channel) Send(code types.ControlCode, request []byte, responseCapacity int) (Reply, error) {
	if c.closed {
		return Reply{}, &TransactionError{Path: c.path, ControlCode: code, Err: ErrChannelClosed}
	}
	if responseCapacity < 0 {
		return Reply{}, fmt.Errorf("send %s: negative response capacity %d", code, responseCapacity)
	}

	out := make([]byte, responseCapacity)
	copy(out, request)

	n, err := c.handle.IoControl(uint32(code), request, out)
	c.log.WithFields(logrus.Fields{
		"device":         c.path,
		"control_code":   code.String(),
		"request_bytes":  len(request),
		"bytes_returned": n,
	}).Debug("control transfer")

	if err != nil || n == 0 {
		return Reply{BytesReturned: n, Data: out}, &TransactionError{
			Path:        c.path,
			ControlCode: code,
			Code:        ErrorCode(err),
			Err:         err,
		}
	}
	if int(n) > responseCapacity {
		return Reply{BytesReturned: n, Data: out}, &TransactionError{
			Path:        c.path,
			ControlCode: code,
			Err:         fmt.Errorf("driver reported %d bytes for a %d byte buffer", n, responseCapacity),
		}
	}
	return Reply{BytesReturned: n, Data: out}, nil
}

// Close releases the handle. Closing twice is a no-op.
func (c *Channel) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if err := c.handle.Close(); err != nil {
		return fmt.Errorf("close %s: %w", c.path, err)
	}
	c.log.WithField("device", c.path).Debug("device channel closed")
	return nil
}

// WithChannel opens a channel, runs fn and always closes the channel, whether
// fn returns normally, fails or panics. An error from fn wins over an error
// from Close.
func WithChannel(sys System, path string, log logrus.FieldLogger, fn func(*Channel) error) (err error) {
	ch, err := Open(sys, path, log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := ch.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(ch)
}

// ErrorCode extracts the OS error code from err, or 0 if there is none.
func ErrorCode(err error) uint32 {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return uint32(errno)
	}
	var coded interface{ OSErrorCode() uint32 }
	if errors.As(err, &coded) {
		return coded.OSErrorCode()
	}
	return 0
}
