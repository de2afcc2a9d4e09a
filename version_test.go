package storage_test

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	storage "github.com/temifoden/alx-backend-storage"
)

func TestVersion_Default(t *testing.T) {
	assert.Equal(t, "0000.00.00-0000-dev", storage.Version())
}

func TestVersion_Overridden(t *testing.T) {
	date, env := storage.BuildDate, storage.BuildEnv
	t.Cleanup(func() { storage.BuildDate, storage.BuildEnv = date, env })

	storage.BuildDate, storage.BuildEnv = "2026.10.17-0900", "prod"
	assert.Equal(t, "2026.10.17-0900-prod", storage.Version())
	assert.Equal(t, "2026.10.17-0900-prod", storage.Build().Version)
}

func TestBuild(t *testing.T) {
	b := storage.Build()
	assert.Equal(t, runtime.Version(), b.GoVersion)
	assert.True(t, strings.Contains(b.Platform, "/"))
}
