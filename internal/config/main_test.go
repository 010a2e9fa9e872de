package config

import (
	"io"
	"os"
	"strings"
	"testing"

	xglog "github.com/ManuGH/asrconf/internal/log"
)

func TestMain(m *testing.M) {
	// Unset all ASRCONF vars to ensure clean test environment
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, "ASRCONF_") {
			kv := strings.SplitN(e, "=", 2)
			if err := os.Unsetenv(kv[0]); err != nil {
				panic("failed to unset env: " + err.Error())
			}
		}
	}
	xglog.Configure(xglog.Config{Level: "error", Output: io.Discard})

	os.Exit(m.Run())
}
