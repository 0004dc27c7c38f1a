package app

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContext_ApplyVerbosity(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		quiet   bool
		level   string
		want    logrus.Level
		wantErr bool
	}{
		{"config level", false, false, "warn", logrus.WarnLevel, false},
		{"verbose wins", true, false, "warn", logrus.DebugLevel, false},
		{"quiet wins", false, true, "debug", logrus.ErrorLevel, false},
		{"bad level", false, false, "loud", logrus.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewContext()
			ctx.Verbose = tt.verbose
			ctx.Quiet = tt.quiet

			err := ctx.ApplyVerbosity(tt.level)
			if tt.wantErr {
				var ce *CommonError
				require.True(t, errors.As(err, &ce))
				assert.Equal(t, ErrCodeInvalidInput, ce.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ctx.Logger.GetLevel())
		})
	}
}

func TestContext_Log(t *testing.T) {
	var buf bytes.Buffer
	ctx := NewContext()
	ctx.Logger.SetOutput(&buf)

	ctx.Log("hidden")
	assert.Empty(t, buf.String())

	ctx.Verbose = true
	ctx.Log("shown")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	ctx.Quiet = true
	ctx.Error("suppressed")
	assert.Empty(t, buf.String())
}

func TestCommonError(t *testing.T) {
	cause := errors.New("root cause")
	err := NewError(ErrCodeDriverRefused, "driver operation failed", cause)
	assert.Equal(t, "driver operation failed: root cause", err.Error())
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, "plain", NewError(ErrCodeInvalidInput, "plain", nil).Error())
}
