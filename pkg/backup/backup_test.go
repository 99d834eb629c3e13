// Copyright (c) 2022-2022 北京渠成软件有限公司(Beijing Qucheng Software Co., Ltd. www.qucheng.com) All rights reserved.
// Use of this source code is covered by the following dual licenses:
// (1) Z PUBLIC LICENSE 1.2 (ZPL 1.2)
// (2) Affero General Public License 3.0 (AGPL 3.0)
// license that can be found in the LICENSE file.

package backup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/easysoft/pgbackup/pkg/db/manage"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
}

func newTestBackupper(t *testing.T, manager *fakeManager, store *fakeStore) (*Backupper, string) {
	t.Helper()
	workDir := t.TempDir()
	b := NewBackupper(manager, store, workDir, testLogger())
	b.now = fixedClock
	return b, workDir
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestBackupperRun(t *testing.T) {
	manager := &fakeManager{}
	store := newFakeStore()
	b, workDir := newTestBackupper(t, manager, store)

	name, err := b.Run(context.Background(), "mydb")
	require.NoError(t, err)

	assert.Equal(t, "backup_mydb_2024-03-01_09-00-00", name)
	assert.Equal(t, 1, manager.dumpCalls)
	assert.Equal(t, []string{name}, store.putKeys)
	assert.Contains(t, store.objects, name)
	assert.Empty(t, dirEntries(t, workDir), "local artifact must be removed after upload")
}

func TestBackupperDumpFailure(t *testing.T) {
	tests := []struct {
		name         string
		skipDumpFile bool
	}{
		{name: "partial dump written"},
		{name: "tool died before writing", skipDumpFile: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager := &fakeManager{
				dumpErr:      &manage.ExecError{Tool: "pg_dump", ExitCode: 1, Stderr: "connection refused"},
				skipDumpFile: tt.skipDumpFile,
			}
			store := newFakeStore()
			b, workDir := newTestBackupper(t, manager, store)

			_, err := b.Run(context.Background(), "mydb")

			var dumpErr *DumpError
			require.ErrorAs(t, err, &dumpErr)
			var execErr *manage.ExecError
			require.ErrorAs(t, err, &execErr)
			assert.Equal(t, 1, execErr.ExitCode)

			assert.Empty(t, store.putKeys, "no upload may be attempted after a failed dump")
			assert.Empty(t, store.objects, "no store mutation may happen after a failed dump")
			assert.Empty(t, dirEntries(t, workDir), "partial dump must be removed")
		})
	}
}

func TestBackupperUploadFailureKeepsArtifact(t *testing.T) {
	manager := &fakeManager{}
	store := newFakeStore()
	store.putErr = errors.New("credentials rejected")
	b, workDir := newTestBackupper(t, manager, store)

	_, err := b.Run(context.Background(), "mydb")

	var uploadErr *UploadError
	require.ErrorAs(t, err, &uploadErr)

	// documented retention policy: the dump stays on disk so the operator
	// can retry the upload without another dump
	kept := filepath.Join(workDir, "backup_mydb_2024-03-01_09-00-00")
	_, statErr := os.Stat(kept)
	assert.NoError(t, statErr, "artifact must be kept after a failed upload")
	assert.Empty(t, store.objects)
}
