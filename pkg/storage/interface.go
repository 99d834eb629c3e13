// Copyright (c) 2022-2022 北京渠成软件有限公司(Beijing Qucheng Software Co., Ltd. www.qucheng.com) All rights reserved.
// Use of this source code is covered by the following dual licenses:
// (1) Z PUBLIC LICENSE 1.2 (ZPL 1.2)
// (2) Affero General Public License 3.0 (AGPL 3.0)
// license that can be found in the LICENSE file.

package storage

import (
	"context"

	"github.com/easysoft/pgbackup/pkg/snapshot"
)

type Kind string

var (
	KindFileSystem   Kind = "fileSystem"
	KindObjectSystem Kind = "objectSystem"
)

// Storage persists snapshot blobs under flat string keys.
type Storage interface {
	// Put uploads the file at localPath under key, overwriting any
	// existing object.
	Put(ctx context.Context, key, localPath string) error

	// Get downloads the object at key into localPath.
	Get(ctx context.Context, key, localPath string) error

	// List returns every stored object whose key starts with prefix.
	// An empty store yields an empty slice, not an error.
	List(ctx context.Context, prefix string) ([]snapshot.Record, error)

	Kind() Kind
}
