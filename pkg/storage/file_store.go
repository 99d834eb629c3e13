// Copyright (c) 2022-2022 北京渠成软件有限公司(Beijing Qucheng Software Co., Ltd. www.qucheng.com) All rights reserved.
// Use of this source code is covered by the following dual licenses:
// (1) Z PUBLIC LICENSE 1.2 (ZPL 1.2)
// (2) Affero General Public License 3.0 (AGPL 3.0)
// license that can be found in the LICENSE file.

package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/easysoft/pgbackup/pkg/snapshot"
)

type fileStorage struct {
	root string
}

// NewFileStorage stores snapshot blobs as plain files under root. Keys map
// directly to file names; the namespace is flat.
func NewFileStorage(root string) (Storage, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, err
	}
	return &fileStorage{root: root}, nil
}

func (f *fileStorage) Put(_ context.Context, key, localPath string) error {
	return copyFile(localPath, filepath.Join(f.root, key))
}

func (f *fileStorage) Get(_ context.Context, key, localPath string) error {
	return copyFile(filepath.Join(f.root, key), localPath)
}

func (f *fileStorage) List(_ context.Context, prefix string) ([]snapshot.Record, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, err
	}

	records := make([]snapshot.Record, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		records = append(records, snapshot.Record{
			Key:     entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return records, nil
}

func (f *fileStorage) Kind() Kind {
	return KindFileSystem
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
