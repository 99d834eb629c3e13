// Copyright (c) 2022-2022 北京渠成软件有限公司(Beijing Qucheng Software Co., Ltd. www.qucheng.com) All rights reserved.
// Use of this source code is covered by the following dual licenses:
// (1) Z PUBLIC LICENSE 1.2 (ZPL 1.2)
// (2) Affero General Public License 3.0 (AGPL 3.0)
// license that can be found in the LICENSE file.

package backup

import "fmt"

// DumpError wraps a failed dump step. When the dump tool itself exited
// non-zero the cause is a *manage.ExecError carrying exit code and stderr.
type DumpError struct {
	Err error
}

func (e *DumpError) Error() string { return fmt.Sprintf("dump failed: %v", e.Err) }
func (e *DumpError) Unwrap() error { return e.Err }

// RestoreError wraps a failed apply-dump step.
type RestoreError struct {
	Err error
}

func (e *RestoreError) Error() string { return fmt.Sprintf("restore failed: %v", e.Err) }
func (e *RestoreError) Unwrap() error { return e.Err }

// UploadError wraps a failed snapshot upload.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string { return fmt.Sprintf("upload failed: %v", e.Err) }
func (e *UploadError) Unwrap() error { return e.Err }

// DownloadError wraps a failed snapshot download, not-found included.
type DownloadError struct {
	Key string
	Err error
}

func (e *DownloadError) Error() string { return fmt.Sprintf("download %s failed: %v", e.Key, e.Err) }
func (e *DownloadError) Unwrap() error { return e.Err }

// StoreError wraps a failed or denied store listing.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("object store unavailable: %v", e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }

// NoMatchError reports a date fragment that matched no stored snapshot.
type NoMatchError struct {
	Fragment string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no backup matches date fragment %q", e.Fragment)
}

// SelectorError reports a restore selector that names both or neither of
// an explicit snapshot and a date fragment.
type SelectorError struct{}

func (e *SelectorError) Error() string {
	return "exactly one of snapshot name or date fragment must be given"
}
