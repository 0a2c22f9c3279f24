package testutil

import (
	"io/ioutil"
	"log"
	"time"

	"github.com/darasalabs/darasa/core"
	logsvc "github.com/darasalabs/darasa/services/logger"
)

// NewTestConfig returns a config pointed at the given fake API, with fast
// timeouts suitable for tests.
func NewTestConfig(baseURL string) *core.Config {
	return &core.Config{
		Debug:         true,
		TestMode:      true,
		Env:           "TEST",
		AppName:       "Darasa",
		MaxUploadSize: 1 << 20,
		API: core.APIConfig{
			BaseURL:        baseURL,
			RequestTimeout: 5 * time.Second,
		},
	}
}

// NewTestLogger returns a logger that swallows all output.
func NewTestLogger() core.Logger {
	return logsvc.NewStdLogger(log.New(ioutil.Discard, "", 0))
}
