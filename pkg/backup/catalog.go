// Copyright (c) 2022-2022 北京渠成软件有限公司(Beijing Qucheng Software Co., Ltd. www.qucheng.com) All rights reserved.
// Use of this source code is covered by the following dual licenses:
// (1) Z PUBLIC LICENSE 1.2 (ZPL 1.2)
// (2) Affero General Public License 3.0 (AGPL 3.0)
// license that can be found in the LICENSE file.

package backup

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/easysoft/pgbackup/pkg/snapshot"
	"github.com/easysoft/pgbackup/pkg/storage"
)

// Catalog discovers snapshots by listing the store under the snapshot
// prefix. It keeps no state of its own; the store is the single source
// of truth.
type Catalog struct {
	store storage.Storage
	log   logrus.FieldLogger
}

func NewCatalog(store storage.Storage, log logrus.FieldLogger) *Catalog {
	return &Catalog{store: store, log: log}
}

// List returns every known snapshot in store order. An unreachable or
// denying store surfaces as *StoreError; an empty store is not an error.
func (c *Catalog) List(ctx context.Context) ([]snapshot.Record, error) {
	records, err := c.store.List(ctx, snapshot.Prefix)
	if err != nil {
		return nil, &StoreError{Err: err}
	}
	return records, nil
}

// ListSortedDesc returns every known snapshot newest first. Snapshot
// names sort lexically by creation time, so reverse lexical order is
// reverse chronological order.
func (c *Catalog) ListSortedDesc(ctx context.Context) ([]snapshot.Record, error) {
	records, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Key > records[j].Key
	})
	return records, nil
}

// FindBestMatch picks the most recent snapshot whose name contains
// fragment. Matching is substring containment; among several matches the
// lexically greatest, and therefore newest, wins.
func (c *Catalog) FindBestMatch(ctx context.Context, fragment string) (string, error) {
	records, err := c.List(ctx)
	if err != nil {
		return "", err
	}

	var best string
	for _, rec := range records {
		if !snapshot.MatchesFragment(rec.Key, fragment) {
			continue
		}
		if rec.Key > best {
			best = rec.Key
		}
	}
	if best == "" {
		return "", &NoMatchError{Fragment: fragment}
	}
	c.log.Infof("selected most recent matching backup: %s", best)
	return best, nil
}
