package watchdog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunCompletesBeforeTimeout(t *testing.T) {
	err := Run(time.Second, func() error { return nil })
	require.NoError(t, err)
}

func TestArmDoneIsIdempotent(t *testing.T) {
	_, done := Arm(time.Second)
	require.NotPanics(t, func() {
		done()
		done()
	})
}
