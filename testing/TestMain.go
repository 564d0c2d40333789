// Package testing flips the binaries into test mode. Test packages import it
// for its side effect so that nothing dials Postgres or Redis.
package testing

import (
	"os"
	"sync"
	stdtesting "testing"
)

// ModeEnv is read by app.InTestMode.
const ModeEnv = "ORDERDESK_TEST_MODE"

var once sync.Once

func ensureTestMode() {
	once.Do(func() {
		_ = os.Setenv(ModeEnv, "1")
	})
}

func init() {
	ensureTestMode()
}

// TestMain can be delegated to from a package's own TestMain.
func TestMain(m *stdtesting.M) {
	ensureTestMode()
	os.Exit(m.Run())
}
