// Copyright (c) 2022-2022 北京渠成软件有限公司(Beijing Qucheng Software Co., Ltd. www.qucheng.com) All rights reserved.
// Use of this source code is covered by the following dual licenses:
// (1) Z PUBLIC LICENSE 1.2 (ZPL 1.2)
// (2) Affero General Public License 3.0 (AGPL 3.0)
// license that can be found in the LICENSE file.

package manage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	_postgresqlDriver = "postgres"

	// maintenance database for administrative statements; the target
	// database itself cannot be dropped over a connection to it.
	_postgresqlAdminDb = "postgres"
)

type postgresqlManage struct {
	meta   DbServiceMeta
	logger logrus.FieldLogger
}

func newPostgresqlManager(meta DbServiceMeta, logger logrus.FieldLogger) (DbManager, error) {
	return &postgresqlManage{
		meta:   meta,
		logger: logger,
	}, nil
}

func (m *postgresqlManage) DbType() DbType {
	return DbTypePostgresql
}

func (m *postgresqlManage) ServerInfo() DbServerInfo {
	return &serverInfo{host: m.meta.Host, port: m.meta.Port}
}

func (m *postgresqlManage) TerminateSessions(ctx context.Context, dbName string) error {
	dbClient, err := m.adminConnect(ctx)
	if err != nil {
		return err
	}
	defer dbClient.Close()

	res, err := dbClient.ExecContext(ctx, `
		SELECT pg_terminate_backend(pg_stat_activity.pid)
		FROM pg_stat_activity
		WHERE pg_stat_activity.datname = $1
		AND pid <> pg_backend_pid()`, dbName)
	if err != nil {
		return m.classify(err, "terminate sessions")
	}
	if n, err := res.RowsAffected(); err == nil {
		m.logger.Infof("terminated %d active sessions on %s", n, dbName)
	}
	return nil
}

func (m *postgresqlManage) DropDatabase(ctx context.Context, dbName string) error {
	if err := validateIdentifier(dbName); err != nil {
		return err
	}

	dbClient, err := m.adminConnect(ctx)
	if err != nil {
		return err
	}
	defer dbClient.Close()

	dropDbCmd := fmt.Sprintf("DROP DATABASE IF EXISTS %s", pq.QuoteIdentifier(dbName))
	m.logger.Debugf("execute sql: %s", dropDbCmd)
	if _, err = dbClient.ExecContext(ctx, dropDbCmd); err != nil {
		return m.classify(err, "drop database")
	}
	m.logger.Infof("dropped database %s", dbName)
	return nil
}

func (m *postgresqlManage) CreateDatabase(ctx context.Context, dbName string) error {
	if err := validateIdentifier(dbName); err != nil {
		return err
	}

	dbClient, err := m.adminConnect(ctx)
	if err != nil {
		return err
	}
	defer dbClient.Close()

	createDbCmd := fmt.Sprintf("CREATE DATABASE %s", pq.QuoteIdentifier(dbName))
	m.logger.Debugf("execute sql: %s", createDbCmd)
	if _, err = dbClient.ExecContext(ctx, createDbCmd); err != nil {
		return m.classify(err, "create database")
	}
	m.logger.Infof("created database %s", dbName)
	return nil
}

func (m *postgresqlManage) adminConnect(ctx context.Context) (*sql.DB, error) {
	dbClient, err := sql.Open(_postgresqlDriver, m.genAdminDsn())
	if err != nil {
		return nil, errors.Wrap(ErrConnectionFailed, err.Error())
	}
	if err = dbClient.PingContext(ctx); err != nil {
		dbClient.Close()
		return nil, m.classify(err, "ping server")
	}
	return dbClient, nil
}

func (m *postgresqlManage) classify(err error, op string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "42501": // insufficient_privilege
			return errors.Wrapf(ErrPermissionDenied, "%s: %s", op, pqErr.Message)
		case "28000", "28P01": // authorization / password failure
			return errors.Wrapf(ErrConnectionFailed, "%s: %s", op, pqErr.Message)
		}
		return errors.Wrap(err, op)
	}
	return errors.Wrapf(ErrConnectionFailed, "%s: %v", op, err)
}

func (m *postgresqlManage) genAdminDsn() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		m.meta.AdminUser, m.meta.AdminPassword, m.meta.Host, m.meta.Port, _postgresqlAdminDb)
}
