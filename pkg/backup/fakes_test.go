// Copyright (c) 2022-2022 北京渠成软件有限公司(Beijing Qucheng Software Co., Ltd. www.qucheng.com) All rights reserved.
// Use of this source code is covered by the following dual licenses:
// (1) Z PUBLIC LICENSE 1.2 (ZPL 1.2)
// (2) Affero General Public License 3.0 (AGPL 3.0)
// license that can be found in the LICENSE file.

package backup

import (
	"context"
	"os"
	"sort"

	"github.com/easysoft/pgbackup/pkg/db/manage"
	"github.com/easysoft/pgbackup/pkg/snapshot"
	"github.com/easysoft/pgbackup/pkg/storage"
)

// fakeStore keeps blobs in memory and records every call.
type fakeStore struct {
	objects map[string][]byte

	putKeys []string
	getKeys []string

	putErr  error
	getErr  error
	listErr error
}

func newFakeStore(keys ...string) *fakeStore {
	s := &fakeStore{objects: make(map[string][]byte)}
	for _, key := range keys {
		s.objects[key] = []byte("dump-bytes")
	}
	return s
}

func (s *fakeStore) Put(_ context.Context, key, localPath string) error {
	s.putKeys = append(s.putKeys, key)
	if s.putErr != nil {
		return s.putErr
	}
	content, err := os.ReadFile(localPath)
	if err != nil {
		return err
	}
	s.objects[key] = content
	return nil
}

func (s *fakeStore) Get(_ context.Context, key, localPath string) error {
	s.getKeys = append(s.getKeys, key)
	if s.getErr != nil {
		return s.getErr
	}
	content, ok := s.objects[key]
	if !ok {
		return os.ErrNotExist
	}
	return os.WriteFile(localPath, content, 0644)
}

func (s *fakeStore) List(_ context.Context, prefix string) ([]snapshot.Record, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	keys := make([]string, 0, len(s.objects))
	for key := range s.objects {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	records := make([]snapshot.Record, 0, len(keys))
	for _, key := range keys {
		records = append(records, snapshot.Record{Key: key, Size: int64(len(s.objects[key]))})
	}
	return records, nil
}

func (s *fakeStore) Kind() storage.Kind {
	return storage.Kind("fake")
}

// fakeManager counts engine and admin calls and fails on demand.
type fakeManager struct {
	dumpCalls    int
	restoreCalls int
	termCalls    int
	dropCalls    int
	createCalls  int

	dumpErr    error
	restoreErr error
	termErr    error
	dropErr    error
	createErr  error

	// skipDumpFile simulates a tool that died before writing anything
	skipDumpFile bool
}

func (m *fakeManager) DbType() manage.DbType { return manage.DbTypePostgresql }

func (m *fakeManager) ServerInfo() manage.DbServerInfo { return nil }

func (m *fakeManager) Dump(_ context.Context, _, outputPath string) error {
	m.dumpCalls++
	if !m.skipDumpFile {
		if err := os.WriteFile(outputPath, []byte("dump-bytes"), 0644); err != nil {
			return err
		}
	}
	return m.dumpErr
}

func (m *fakeManager) Restore(_ context.Context, _, _ string) error {
	m.restoreCalls++
	return m.restoreErr
}

func (m *fakeManager) TerminateSessions(_ context.Context, _ string) error {
	m.termCalls++
	return m.termErr
}

func (m *fakeManager) DropDatabase(_ context.Context, _ string) error {
	m.dropCalls++
	return m.dropErr
}

func (m *fakeManager) CreateDatabase(_ context.Context, _ string) error {
	m.createCalls++
	return m.createErr
}
