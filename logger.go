// Copyright 2023 The gowch Authors. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package wchisp

import (
	"github.com/sirupsen/logrus"
)

var logger *logrus.Logger

func init() {
	logger = logrus.New()
}

// SetLogger replaces the package logger. Raw frame tracing is emitted at
// trace level unless a custom TraceSink is installed on the session.
func SetLogger(loggerInstance *logrus.Logger) {
	logger = loggerInstance
}
