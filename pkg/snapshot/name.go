// Copyright (c) 2022-2022 北京渠成软件有限公司(Beijing Qucheng Software Co., Ltd. www.qucheng.com) All rights reserved.
// Use of this source code is covered by the following dual licenses:
// (1) Z PUBLIC LICENSE 1.2 (ZPL 1.2)
// (2) Affero General Public License 3.0 (AGPL 3.0)
// license that can be found in the LICENSE file.

// Package snapshot names backup artifacts and parses those names back.
//
// A snapshot name embeds the database name and the creation time at second
// precision, formatted so that lexical order of names equals chronological
// order. The name is the only durable handle to a snapshot; the object store
// key and the name are the same string.
package snapshot

import (
	"fmt"
	"strings"
	"time"
)

const (
	// Prefix starts every snapshot name. Listing the store by this prefix
	// yields exactly the snapshot set.
	Prefix = "backup_"

	// TimeLayout is year-to-second, zero padded, so names sort by creation
	// time as long as the database name itself does not change.
	TimeLayout = "2006-01-02_15-04-05"
)

// Name builds the snapshot name for a database and a creation time.
// Resolution is one second; callers that may create two snapshots of the
// same database within one second must serialize them.
func Name(database string, ts time.Time) string {
	return fmt.Sprintf("%s%s_%s", Prefix, database, ts.Format(TimeLayout))
}

// MatchesFragment reports whether fragment occurs anywhere in name.
//
// This is plain substring containment, not a calendar match: "2024-01-1"
// also matches "2024-01-10" and later days, and "2024-1" matches nothing
// (the layout zero-pads months). Selection among multiple matches is the
// caller's concern; the catalog picks the lexically greatest.
func MatchesFragment(name, fragment string) bool {
	return strings.Contains(name, fragment)
}

// Timestamp parses the creation time back out of a snapshot name. The
// second return is false for names this tool did not produce.
func Timestamp(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, Prefix) || len(name) <= len(TimeLayout) {
		return time.Time{}, false
	}
	ts, err := time.Parse(TimeLayout, name[len(name)-len(TimeLayout):])
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// Record is one listed snapshot: its name plus the object-store metadata
// shown by the list command. Records are always rebuilt from the store,
// never persisted on their own.
type Record struct {
	Key     string
	Size    int64
	ModTime time.Time
}
