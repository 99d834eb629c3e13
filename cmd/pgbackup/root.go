// Copyright (c) 2022-2022 北京渠成软件有限公司(Beijing Qucheng Software Co., Ltd. www.qucheng.com) All rights reserved.
// Use of this source code is covered by the following dual licenses:
// (1) Z PUBLIC LICENSE 1.2 (ZPL 1.2)
// (2) Affero General Public License 3.0 (AGPL 3.0)
// license that can be found in the LICENSE file.

package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/easysoft/pgbackup/pkg/config"
	"github.com/easysoft/pgbackup/pkg/db/manage"
	"github.com/easysoft/pgbackup/pkg/logging"
	"github.com/easysoft/pgbackup/pkg/storage"
)

var rootCmd = &cobra.Command{
	Use:   "pgbackup",
	Short: "Back up and restore a database through an object store",
	Long: `pgbackup snapshots a PostgreSQL or MySQL database with the engine's
own dump tool, keeps the snapshots in an S3-compatible object store, and
restores them by exact name or by date fragment.

Connection and store settings come from the environment (a .env file in
the working directory is honored).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String(logging.FlagLogLevel, "info", "log level (debug, info, warn, error)")
	_ = viper.BindPFlag(logging.FlagLogLevel, rootCmd.PersistentFlags().Lookup(logging.FlagLogLevel))
}

// runtime bundles the collaborators every subcommand needs.
type runtime struct {
	cfg     *config.Config
	log     *logrus.Logger
	manager manage.DbManager
	store   storage.Storage
}

func setup(ctx context.Context) (*runtime, error) {
	log := logging.DefaultLogger()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Error("load configuration")
		return nil, err
	}

	manager, err := manage.NewManager(cfg.ServiceMeta(), log)
	if err != nil {
		log.WithError(err).Error("setup database manager")
		return nil, err
	}

	var store storage.Storage
	switch cfg.Store.Type {
	case config.StoreTypeFile:
		store, err = storage.NewFileStorage(cfg.Store.FileRoot)
	default:
		store, err = storage.NewObjectStorage(ctx, cfg.Store.Endpoint,
			cfg.Store.AccessKey, cfg.Store.SecretKey, cfg.Store.Region, cfg.Store.Bucket)
	}
	if err != nil {
		log.WithError(err).Error("setup snapshot store")
		return nil, err
	}

	return &runtime{cfg: cfg, log: log, manager: manager, store: store}, nil
}
