// Copyright (c) 2022-2022 北京渠成软件有限公司(Beijing Qucheng Software Co., Ltd. www.qucheng.com) All rights reserved.
// Use of this source code is covered by the following dual licenses:
// (1) Z PUBLIC LICENSE 1.2 (ZPL 1.2)
// (2) Affero General Public License 3.0 (AGPL 3.0)
// license that can be found in the LICENSE file.

package backup

import (
	"context"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/easysoft/pgbackup/pkg/db/manage"
	"github.com/easysoft/pgbackup/pkg/storage"
)

// Selector picks the snapshot to restore: either an exact snapshot name
// or a date fragment resolved through the catalog. Exactly one field may
// be set.
type Selector struct {
	Name         string
	DateFragment string
}

// Restorer replaces the contents of a database with a stored snapshot.
type Restorer struct {
	manager manage.DbManager
	store   storage.Storage
	catalog *Catalog
	workDir string
	log     logrus.FieldLogger
}

func NewRestorer(manager manage.DbManager, store storage.Storage, catalog *Catalog, workDir string, log logrus.FieldLogger) *Restorer {
	return &Restorer{
		manager: manager,
		store:   store,
		catalog: catalog,
		workDir: workDir,
		log:     log,
	}
}

// Run restores dbName from the selected snapshot.
//
// DESTRUCTIVE: once the download and session termination succeed, the
// target database is dropped and recreated unconditionally. Its previous
// contents are gone even if applying the dump then fails; there is no
// merge and no automatic rollback. A failure in any earlier step aborts
// before anything is touched.
//
// An explicit name is taken verbatim; whether it exists is discovered at
// download, before any destructive step. There are no automatic retries;
// re-running the command is the retry.
func (r *Restorer) Run(ctx context.Context, sel Selector, dbName string) error {
	name, err := r.resolve(ctx, sel)
	if err != nil {
		return err
	}
	log := r.log.WithField("backup", name)

	localPath := filepath.Join(r.workDir, name)
	log.Infof("downloading %s", name)
	if err = r.store.Get(ctx, name, localPath); err != nil {
		return &DownloadError{Key: name, Err: err}
	}
	defer func() {
		if rmErr := os.Remove(localPath); rmErr != nil && !os.IsNotExist(rmErr) {
			log.WithError(rmErr).Warnf("remove local artifact %s", localPath)
		}
	}()

	if err = r.manager.TerminateSessions(ctx, dbName); err != nil {
		return err
	}
	if err = r.manager.DropDatabase(ctx, dbName); err != nil {
		return err
	}
	if err = r.manager.CreateDatabase(ctx, dbName); err != nil {
		return err
	}

	log.Infof("restoring %s into %s", name, dbName)
	if err = r.manager.Restore(ctx, dbName, localPath); err != nil {
		return &RestoreError{Err: err}
	}
	log.Info("restore completed successfully")
	return nil
}

func (r *Restorer) resolve(ctx context.Context, sel Selector) (string, error) {
	switch {
	case sel.Name != "" && sel.DateFragment != "":
		return "", &SelectorError{}
	case sel.Name != "":
		return sel.Name, nil
	case sel.DateFragment != "":
		return r.catalog.FindBestMatch(ctx, sel.DateFragment)
	default:
		return "", &SelectorError{}
	}
}
