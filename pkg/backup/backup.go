// Copyright (c) 2022-2022 北京渠成软件有限公司(Beijing Qucheng Software Co., Ltd. www.qucheng.com) All rights reserved.
// Use of this source code is covered by the following dual licenses:
// (1) Z PUBLIC LICENSE 1.2 (ZPL 1.2)
// (2) Affero General Public License 3.0 (AGPL 3.0)
// license that can be found in the LICENSE file.

// Package backup sequences the dump-and-upload and
// download-and-restore workflows against a database engine and a
// snapshot store.
package backup

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/easysoft/pgbackup/pkg/db/manage"
	"github.com/easysoft/pgbackup/pkg/snapshot"
	"github.com/easysoft/pgbackup/pkg/storage"
)

// Backupper creates one snapshot per Run: dump the database to a local
// artifact, upload it under a freshly derived snapshot name, then remove
// the artifact.
type Backupper struct {
	manager manage.DbManager
	store   storage.Storage
	workDir string
	log     logrus.FieldLogger

	now func() time.Time
}

func NewBackupper(manager manage.DbManager, store storage.Storage, workDir string, log logrus.FieldLogger) *Backupper {
	return &Backupper{
		manager: manager,
		store:   store,
		workDir: workDir,
		log:     log,
		now:     time.Now,
	}
}

// Run backs up dbName and returns the snapshot name, the only durable
// handle to the new snapshot.
//
// A failed dump removes the partial artifact and uploads nothing. A
// failed upload keeps the artifact on disk so the operator can re-run
// after fixing store access without paying for another dump; the kept
// path is logged. Failure to remove the artifact after a successful
// upload is logged and does not fail the backup.
func (b *Backupper) Run(ctx context.Context, dbName string) (string, error) {
	name := snapshot.Name(dbName, b.now())
	localPath := filepath.Join(b.workDir, name)
	log := b.log.WithField("backup", name)

	log.Infof("creating backup: %s", name)
	if err := b.manager.Dump(ctx, dbName, localPath); err != nil {
		if rmErr := os.Remove(localPath); rmErr != nil && !os.IsNotExist(rmErr) {
			log.WithError(rmErr).Warnf("remove partial dump %s", localPath)
		}
		return "", &DumpError{Err: err}
	}

	log.Infof("uploading %s", name)
	if err := b.store.Put(ctx, name, localPath); err != nil {
		log.Warnf("upload failed, dump kept at %s for retry", localPath)
		return "", &UploadError{Err: err}
	}
	log.Infof("backup %s uploaded successfully", name)

	if err := os.Remove(localPath); err != nil {
		log.WithError(err).Warnf("remove local artifact %s", localPath)
	}
	return name, nil
}
