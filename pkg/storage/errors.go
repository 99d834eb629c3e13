// Copyright (c) 2022-2022 北京渠成软件有限公司(Beijing Qucheng Software Co., Ltd. www.qucheng.com) All rights reserved.
// Use of this source code is covered by the following dual licenses:
// (1) Z PUBLIC LICENSE 1.2 (ZPL 1.2)
// (2) Affero General Public License 3.0 (AGPL 3.0)
// license that can be found in the LICENSE file.

package storage

import (
	"errors"

	"github.com/minio/minio-go/v7"
)

// ErrCredentials marks store failures caused by invalid or rejected
// credentials, as opposed to connectivity or server-side problems.
// Callers distinguish it with errors.Is.
var ErrCredentials = errors.New("object store credentials rejected")

var credentialCodes = map[string]struct{}{
	"AccessDenied":          {},
	"InvalidAccessKeyId":    {},
	"SignatureDoesNotMatch": {},
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	if _, ok := credentialCodes[resp.Code]; ok {
		return errors.Join(ErrCredentials, err)
	}
	return err
}
