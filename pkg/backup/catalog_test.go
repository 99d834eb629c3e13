// Copyright (c) 2022-2022 北京渠成软件有限公司(Beijing Qucheng Software Co., Ltd. www.qucheng.com) All rights reserved.
// Use of this source code is covered by the following dual licenses:
// (1) Z PUBLIC LICENSE 1.2 (ZPL 1.2)
// (2) Affero General Public License 3.0 (AGPL 3.0)
// license that can be found in the LICENSE file.

package backup

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestCatalogListSortedDesc(t *testing.T) {
	store := newFakeStore(
		"backup_mydb_2024-01-14_10-00-00",
		"backup_mydb_2024-03-01_09-00-00",
		"backup_mydb_2024-01-15_10-00-00",
	)
	catalog := NewCatalog(store, testLogger())

	records, err := catalog.ListSortedDesc(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "backup_mydb_2024-03-01_09-00-00", records[0].Key)
	assert.Equal(t, "backup_mydb_2024-01-15_10-00-00", records[1].Key)
	assert.Equal(t, "backup_mydb_2024-01-14_10-00-00", records[2].Key)
}

func TestCatalogListEmptyStore(t *testing.T) {
	catalog := NewCatalog(newFakeStore(), testLogger())

	records, err := catalog.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCatalogListStoreUnavailable(t *testing.T) {
	store := newFakeStore()
	store.listErr = errors.New("connection refused")
	catalog := NewCatalog(store, testLogger())

	_, err := catalog.List(context.Background())
	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
}

func TestCatalogFindBestMatch(t *testing.T) {
	store := newFakeStore(
		"backup_mydb_2024-01-14_10-00-00",
		"backup_mydb_2024-01-15_10-00-00",
		"backup_mydb_2024-01-15_18-00-00",
	)
	catalog := NewCatalog(store, testLogger())

	tests := []struct {
		name     string
		fragment string
		want     string
	}{
		{
			name:     "picks the matching day over others",
			fragment: "2024-01-15",
			want:     "backup_mydb_2024-01-15_18-00-00",
		},
		{
			name:     "newest wins among several matches",
			fragment: "2024-01",
			want:     "backup_mydb_2024-01-15_18-00-00",
		},
		{
			name:     "full name is a fragment of itself",
			fragment: "backup_mydb_2024-01-14_10-00-00",
			want:     "backup_mydb_2024-01-14_10-00-00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := catalog.FindBestMatch(context.Background(), tt.fragment)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCatalogFindBestMatchNoMatch(t *testing.T) {
	catalog := NewCatalog(newFakeStore("backup_mydb_2024-01-14_10-00-00"), testLogger())

	_, err := catalog.FindBestMatch(context.Background(), "2025-06")
	var noMatch *NoMatchError
	require.ErrorAs(t, err, &noMatch)
	assert.Equal(t, "2025-06", noMatch.Fragment)
}

func TestCatalogFindBestMatchEmptyStore(t *testing.T) {
	catalog := NewCatalog(newFakeStore(), testLogger())

	_, err := catalog.FindBestMatch(context.Background(), "2024")
	var noMatch *NoMatchError
	require.ErrorAs(t, err, &noMatch)
}
