// Copyright (c) 2022-2022 北京渠成软件有限公司(Beijing Qucheng Software Co., Ltd. www.qucheng.com) All rights reserved.
// Use of this source code is covered by the following dual licenses:
// (1) Z PUBLIC LICENSE 1.2 (ZPL 1.2)
// (2) Affero General Public License 3.0 (AGPL 3.0)
// license that can be found in the LICENSE file.

package manage

import (
	"errors"
	"fmt"
	"os"
	"regexp"
)

var (
	// ErrPermissionDenied marks administrative statements rejected by the
	// server for lack of privilege.
	ErrPermissionDenied = errors.New("database permission denied")

	// ErrConnectionFailed marks failures to reach or authenticate against
	// the database server at all.
	ErrConnectionFailed = errors.New("database connection failed")
)

// ExecError reports a dump/restore tool that exited non-zero, with the
// stderr it produced.
type ExecError struct {
	Tool     string
	ExitCode int
	Stderr   string
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%s exited with code %d: %s", e.Tool, e.ExitCode, e.Stderr)
}

// newExecError builds the error for a failed tool run. When the tool
// never produced an exit status (not installed, not executable) the exec
// error itself is the only diagnostic, so it stands in for stderr.
func newExecError(tool string, state *os.ProcessState, stderr string, err error) *ExecError {
	exitCode := -1
	if state != nil {
		exitCode = state.ExitCode()
	} else if stderr == "" {
		stderr = err.Error()
	}
	return &ExecError{Tool: tool, ExitCode: exitCode, Stderr: stderr}
}

// identifierPattern is the allow-list for names that get interpolated into
// DROP/CREATE DATABASE statements. Those statements cannot be
// parameterized, so anything outside this set is refused outright.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

func validateIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("invalid database identifier %q", name)
	}
	return nil
}
