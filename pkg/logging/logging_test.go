// Copyright (c) 2022-2022 北京渠成软件有限公司(Beijing Qucheng Software Co., Ltd. www.qucheng.com) All rights reserved.
// Use of this source code is covered by the following dual licenses:
// (1) Z PUBLIC LICENSE 1.2 (ZPL 1.2)
// (2) Affero General Public License 3.0 (AGPL 3.0)
// license that can be found in the LICENSE file.

package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLoggerIsSingleton(t *testing.T) {
	defaultLogger = nil
	first := DefaultLogger()
	require.NotNil(t, first)
	assert.Same(t, first, DefaultLogger())
}

func TestNewLoggerLevel(t *testing.T) {
	viper.Reset()
	viper.Set(FlagLogLevel, "debug")
	assert.Equal(t, logrus.DebugLevel, NewLogger().GetLevel())

	viper.Set(FlagLogLevel, "not-a-level")
	assert.Equal(t, logrus.InfoLevel, NewLogger().GetLevel())

	viper.Reset()
	assert.Equal(t, logrus.InfoLevel, NewLogger().GetLevel())
}
