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

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	_mysqlDriver = "mysql"
)

type mysqlManage struct {
	meta   DbServiceMeta
	logger logrus.FieldLogger
}

func newMysqlManager(meta DbServiceMeta, logger logrus.FieldLogger) (DbManager, error) {
	return &mysqlManage{
		meta:   meta,
		logger: logger,
	}, nil
}

func (m *mysqlManage) DbType() DbType {
	return DbTypeMysql
}

func (m *mysqlManage) ServerInfo() DbServerInfo {
	return &serverInfo{host: m.meta.Host, port: m.meta.Port}
}

func (m *mysqlManage) TerminateSessions(ctx context.Context, dbName string) error {
	dbClient, err := m.adminConnect(ctx)
	if err != nil {
		return err
	}
	defer dbClient.Close()

	rows, err := dbClient.QueryContext(ctx, `
		SELECT id FROM information_schema.processlist
		WHERE db = ? AND id <> CONNECTION_ID()`, dbName)
	if err != nil {
		return m.classify(err, "list sessions")
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			return errors.Wrap(err, "scan session id")
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return m.classify(err, "list sessions")
	}

	for _, id := range ids {
		// a session may be gone already; that is what we wanted anyway
		if _, err = dbClient.ExecContext(ctx, fmt.Sprintf("KILL %d", id)); err != nil {
			m.logger.WithError(err).Debugf("kill session %d", id)
		}
	}
	m.logger.Infof("terminated %d active sessions on %s", len(ids), dbName)
	return nil
}

func (m *mysqlManage) DropDatabase(ctx context.Context, dbName string) error {
	if err := validateIdentifier(dbName); err != nil {
		return err
	}

	dbClient, err := m.adminConnect(ctx)
	if err != nil {
		return err
	}
	defer dbClient.Close()

	dropDbCmd := fmt.Sprintf("DROP DATABASE IF EXISTS `%s`", dbName)
	m.logger.Debugf("execute sql: %s", dropDbCmd)
	if _, err = dbClient.ExecContext(ctx, dropDbCmd); err != nil {
		return m.classify(err, "drop database")
	}
	m.logger.Infof("dropped database %s", dbName)
	return nil
}

func (m *mysqlManage) CreateDatabase(ctx context.Context, dbName string) error {
	if err := validateIdentifier(dbName); err != nil {
		return err
	}

	dbClient, err := m.adminConnect(ctx)
	if err != nil {
		return err
	}
	defer dbClient.Close()

	createDbCmd := fmt.Sprintf("CREATE DATABASE `%s`", dbName)
	m.logger.Debugf("execute sql: %s", createDbCmd)
	if _, err = dbClient.ExecContext(ctx, createDbCmd); err != nil {
		return m.classify(err, "create database")
	}
	m.logger.Infof("created database %s", dbName)
	return nil
}

func (m *mysqlManage) adminConnect(ctx context.Context) (*sql.DB, error) {
	dbClient, err := sql.Open(_mysqlDriver, m.genAdminDsn())
	if err != nil {
		return nil, errors.Wrap(ErrConnectionFailed, err.Error())
	}
	if err = dbClient.PingContext(ctx); err != nil {
		dbClient.Close()
		return nil, m.classify(err, "ping server")
	}
	return dbClient, nil
}

func (m *mysqlManage) classify(err error, op string) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1044, 1142, 1227: // access denied to db / table / missing privilege
			return errors.Wrapf(ErrPermissionDenied, "%s: %s", op, myErr.Message)
		case 1045: // authentication failure
			return errors.Wrapf(ErrConnectionFailed, "%s: %s", op, myErr.Message)
		}
		return errors.Wrap(err, op)
	}
	return errors.Wrapf(ErrConnectionFailed, "%s: %v", op, err)
}

func (m *mysqlManage) genAdminDsn() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/",
		m.meta.AdminUser, m.meta.AdminPassword, m.meta.Host, m.meta.Port)
}
