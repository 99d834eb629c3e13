// Copyright (c) 2022-2022 北京渠成软件有限公司(Beijing Qucheng Software Co., Ltd. www.qucheng.com) All rights reserved.
// Use of this source code is covered by the following dual licenses:
// (1) Z PUBLIC LICENSE 1.2 (ZPL 1.2)
// (2) Affero General Public License 3.0 (AGPL 3.0)
// license that can be found in the LICENSE file.

// Package manage drives the external dump/restore tools of a database
// server and the administrative statements that precede a restore.
package manage

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type DbType string

const (
	DbTypeMysql      DbType = "mysql"
	DbTypePostgresql DbType = "postgresql"
)

// DbServiceMeta identifies a database server and the administrative
// account used for dump, restore and maintenance statements. The
// credential is only ever handed to child processes through their
// environment, never on a command line.
type DbServiceMeta struct {
	Type          DbType
	Host          string
	Port          int32
	AdminUser     string
	AdminPassword string
}

// DbManager abstracts one database engine. Dump and Restore shell out to
// the engine's own tools; the remaining operations run over an
// administrative connection to the engine's maintenance database.
type DbManager interface {
	DbType() DbType
	ServerInfo() DbServerInfo

	// Dump writes a self-contained dump of dbName to outputPath.
	Dump(ctx context.Context, dbName, outputPath string) error

	// Restore applies the dump at inputPath to dbName, which is expected
	// to exist and be empty.
	Restore(ctx context.Context, dbName, inputPath string) error

	// TerminateSessions forcibly ends every other session against dbName
	// so a following drop cannot be blocked by open connections.
	TerminateSessions(ctx context.Context, dbName string) error

	// DropDatabase drops dbName if it exists. Destructive and
	// irreversible; the caller owns the decision.
	DropDatabase(ctx context.Context, dbName string) error

	// CreateDatabase creates dbName empty.
	CreateDatabase(ctx context.Context, dbName string) error
}

type DbServerInfo interface {
	Host() string
	Port() int32
	Address() string
}

func NewManager(meta DbServiceMeta, logger logrus.FieldLogger) (DbManager, error) {
	switch meta.Type {
	case DbTypeMysql:
		return newMysqlManager(meta, logger)
	case DbTypePostgresql:
		return newPostgresqlManager(meta, logger)
	default:
		return nil, errors.Errorf("dbType %q is not supported", meta.Type)
	}
}
