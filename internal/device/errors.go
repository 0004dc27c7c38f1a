package device

import (
	"errors"
	"fmt"

	"github.com/deploymenttheory/go-vcctl/internal/types"
)

var (
	// ErrChannelOpenFailed is matched by *OpenError.
	ErrChannelOpenFailed = errors.New("device channel open failed")
	// ErrTransactionFailed is matched by *TransactionError.
	ErrTransactionFailed = errors.New("device control transaction failed")
	// ErrChannelClosed is returned when sending on a closed channel.
	ErrChannelClosed = errors.New("device channel closed")
	// ErrUnsupportedPlatform is returned by the default System outside Windows.
	ErrUnsupportedPlatform = errors.New("driver device access is only supported on windows")
)

// OpenError reports a device path that could not be opened.
type OpenError struct {
	Path string
	Code uint32
	Err  error
}

func (e *OpenError) Error() string {
	msg := fmt.Sprintf("failed to open %s", e.Path)
	if e.Code != 0 {
		msg += fmt.Sprintf(": %s (GetLastError %d)", types.DescribeOSError(e.Code), e.Code)
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

func (e *OpenError) Is(target error) bool {
	return target == ErrChannelOpenFailed
}

// TransactionError reports a control transfer the driver did not process.
type TransactionError struct {
	Path        string
	ControlCode types.ControlCode
	Code        uint32
	Err         error
}

func (e *TransactionError) Error() string {
	msg := fmt.Sprintf("DeviceIoControl %s on %s failed", e.ControlCode, e.Path)
	switch {
	case e.Code != 0:
		msg += fmt.Sprintf(": %s (GetLastError %d)", types.DescribeOSError(e.Code), e.Code)
	case e.Err != nil:
		msg += ": " + e.Err.Error()
	default:
		msg += ": no bytes returned"
	}
	return msg
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

func (e *TransactionError) Is(target error) bool {
	return target == ErrTransactionFailed
}
