// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/stretchr/testify/assert"
)

func TestCustomHandler_HandleLog(t *testing.T) {
	var buf bytes.Buffer
	h := NewCustomHandler(&buf)
	h.now = func() time.Time { return time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC) }

	logger := &log.Logger{Handler: h, Level: log.DebugLevel}
	logger.WithError(errors.New("nope")).WithField("path", "/tmp/x").Warn("failed to remove")

	assert.Equal(t, "2025-03-04 05:06:07 W failed to remove error=nope path=/tmp/x\n", buf.String())
}

func TestInitLogger_Level(t *testing.T) {
	t.Setenv("HOOKCTL_LOG", "debug")
	InitLogger()
	l, ok := log.Log.(*log.Logger)
	if assert.True(t, ok) {
		assert.Equal(t, log.DebugLevel, l.Level)
	}

	t.Setenv("HOOKCTL_LOG", "bogus")
	InitLogger()
	l, _ = log.Log.(*log.Logger)
	assert.Equal(t, log.ErrorLevel, l.Level)

	t.Setenv("HOOKCTL_LOG", "")
	InitLogger()
	l, _ = log.Log.(*log.Logger)
	assert.Equal(t, log.ErrorLevel, l.Level)
}
