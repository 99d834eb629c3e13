// Copyright (c) 2022-2022 北京渠成软件有限公司(Beijing Qucheng Software Co., Ltd. www.qucheng.com) All rights reserved.
// Use of this source code is covered by the following dual licenses:
// (1) Z PUBLIC LICENSE 1.2 (ZPL 1.2)
// (2) Affero General Public License 3.0 (AGPL 3.0)
// license that can be found in the LICENSE file.

package manage

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Dump runs pg_dump in custom format, which pg_restore can replay
// selectively and in parallel. The output file belongs to the caller.
func (m *postgresqlManage) Dump(ctx context.Context, dbName, outputPath string) error {
	commandArgs := m.buildConnectArgs()
	commandArgs = append(commandArgs, "-F", "c", "-b", "-v", "-f", outputPath, dbName)

	return m.runTool(ctx, "pg_dump", commandArgs)
}

// Restore replays a custom-format dump into dbName with pg_restore.
func (m *postgresqlManage) Restore(ctx context.Context, dbName, inputPath string) error {
	commandArgs := m.buildConnectArgs()
	commandArgs = append(commandArgs, "-d", dbName, "-v", inputPath)

	return m.runTool(ctx, "pg_restore", commandArgs)
}

func (m *postgresqlManage) runTool(ctx context.Context, tool string, args []string) error {
	var stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, tool, args...)
	// the credential reaches the tool only through this child's env
	cmd.Env = []string{fmt.Sprintf("PGPASSWORD=%s", m.meta.AdminPassword)}
	cmd.Stderr = &stderr

	m.logger.Debugf("run %s %v", tool, args)
	err := cmd.Run()
	if err != nil {
		return newExecError(tool, cmd.ProcessState, stderr.String(), err)
	}

	m.logger.Debugf("%s output: %s", tool, stderr.String())
	return nil
}

func (m *postgresqlManage) buildConnectArgs() []string {
	var args = make([]string, 0)
	args = append(args, "-h", m.meta.Host)
	args = append(args, "-p", fmt.Sprintf("%d", m.meta.Port))
	args = append(args, "-U", m.meta.AdminUser)
	return args
}
