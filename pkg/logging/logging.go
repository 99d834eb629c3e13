// Copyright (c) 2022-2022 北京渠成软件有限公司(Beijing Qucheng Software Co., Ltd. www.qucheng.com) All rights reserved.
// Use of this source code is covered by the following dual licenses:
// (1) Z PUBLIC LICENSE 1.2 (ZPL 1.2)
// (2) Affero General Public License 3.0 (AGPL 3.0)
// license that can be found in the LICENSE file.

package logging

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	FlagLogLevel = "log-level"
)

var (
	defaultLogger *logrus.Logger
)

func DefaultLogger() *logrus.Logger {
	if defaultLogger == nil {
		defaultLogger = NewLogger()
	}
	return defaultLogger
}

func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.Formatter = &logrus.TextFormatter{
		ForceQuote:       true,
		TimestampFormat:  time.RFC3339,
		FullTimestamp:    true,
		QuoteEmptyFields: true,
	}

	lv := viper.GetString(FlagLogLevel)
	if lv == "" {
		lv = "info"
	}
	level, err := logrus.ParseLevel(lv)
	if err != nil {
		logger.WithError(err).Warnf("unknown log level '%s', fallback to info", lv)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
