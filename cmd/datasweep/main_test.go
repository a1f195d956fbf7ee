package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datasweep/pkg/config"
)

func TestNewLogger(t *testing.T) {
	l, err := newLogger("debug", "console")
	require.NoError(t, err)
	assert.NotNil(t, l)

	l, err = newLogger("info", "json")
	require.NoError(t, err)
	assert.NotNil(t, l)

	// Unknown levels fall back to info rather than failing
	l, err = newLogger("chatty", "json")
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestRequireDataPath(t *testing.T) {
	cfg = &config.Config{}
	assert.Error(t, requireDataPath())

	cfg = &config.Config{DataPath: "/tmp/data.txt"}
	assert.NoError(t, requireDataPath())
}
