//
// Copyright (C) 2024 Dmitry Kolesnikov
//
// This file may be modified and distributed under the terms
// of the MIT license.  See the LICENSE file for details.
// https://github.com/fogfish/docdb
//

package main

import (
	"strings"
	"testing"

	"github.com/fogfish/it/v2"
	"go.uber.org/zap/zapcore"
)

func TestWrapString(t *testing.T) {
	text := wrapString("Connection string of the server, e.g. mongodb://127.0.0.1:27017. It overrides host and port")

	for _, line := range strings.Split(text, "\n") {
		it.Then(t).Should(it.True(len(line) <= wrap))
	}

	it.Then(t).Should(
		it.Equal(wrapString("short help"), "short help"),
		it.Equal(wrapString(""), ""),
	)
}

func TestNewLogger(t *testing.T) {
	it.Then(t).Should(
		it.True(newLogger("debug").Core().Enabled(zapcore.DebugLevel)),
		it.True(!newLogger("WARN").Core().Enabled(zapcore.InfoLevel)),
		it.True(newLogger("unknown").Core().Enabled(zapcore.InfoLevel)),
		it.True(!newLogger("unknown").Core().Enabled(zapcore.DebugLevel)),
	)
}
