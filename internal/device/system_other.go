//go:build !windows

package device

// NewSystem returns a System whose Open always fails: the driver only exists on
// Windows.
func NewSystem() System {
	return unsupportedSystem{}
}

type unsupportedSystem struct{}

func (unsupportedSystem) Open(path string) (Handle, error) {
	return nil, ErrUnsupportedPlatform
}
