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
	"os"
	"os/exec"
)

// Dump writes a mysqldump of dbName to outputPath. The connection
// settings, password included, travel in a --defaults-extra-file so they
// never show up in the process list.
func (m *mysqlManage) Dump(ctx context.Context, dbName, outputPath string) error {
	extraFile, err := m.buildExtraFile()
	if err != nil {
		return err
	}
	defer os.Remove(extraFile)

	output, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer output.Close()

	var stderr bytes.Buffer
	commandArgs := []string{"--defaults-extra-file=" + extraFile, "--single-transaction", dbName}

	cmd := exec.CommandContext(ctx, "mysqldump", commandArgs...)
	cmd.Stdout = output
	cmd.Stderr = &stderr

	m.logger.Debugf("run mysqldump for %s", dbName)
	if err = cmd.Run(); err != nil {
		return newExecError("mysqldump", cmd.ProcessState, stderr.String(), err)
	}
	return nil
}

// Restore feeds the dump at inputPath into the mysql client against dbName.
func (m *mysqlManage) Restore(ctx context.Context, dbName, inputPath string) error {
	extraFile, err := m.buildExtraFile()
	if err != nil {
		return err
	}
	defer os.Remove(extraFile)

	input, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer input.Close()

	var stderr bytes.Buffer
	commandArgs := []string{"--defaults-extra-file=" + extraFile, dbName}

	cmd := exec.CommandContext(ctx, "mysql", commandArgs...)
	cmd.Stdin = input
	cmd.Stderr = &stderr

	m.logger.Debugf("run mysql restore for %s", dbName)
	if err = cmd.Run(); err != nil {
		return newExecError("mysql", cmd.ProcessState, stderr.String(), err)
	}
	return nil
}

func (m *mysqlManage) buildExtraFile() (string, error) {
	buf := bytes.NewBufferString("[client]\n")
	buf.WriteString(fmt.Sprintf("host = %s\n", m.meta.Host))
	buf.WriteString(fmt.Sprintf("port = %d\n", m.meta.Port))
	buf.WriteString(fmt.Sprintf("user = %s\n", m.meta.AdminUser))
	buf.WriteString(fmt.Sprintf("password = %s\n", m.meta.AdminPassword))

	tmpExtraFile, err := os.CreateTemp("", "pgbackup-my-cnf-*")
	if err != nil {
		return "", err
	}
	defer tmpExtraFile.Close()

	if _, err = buf.WriteTo(tmpExtraFile); err != nil {
		os.Remove(tmpExtraFile.Name())
		return "", err
	}
	return tmpExtraFile.Name(), nil
}
