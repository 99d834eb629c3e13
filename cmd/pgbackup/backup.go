// Copyright (c) 2022-2022 北京渠成软件有限公司(Beijing Qucheng Software Co., Ltd. www.qucheng.com) All rights reserved.
// Use of this source code is covered by the following dual licenses:
// (1) Z PUBLIC LICENSE 1.2 (ZPL 1.2)
// (2) Affero General Public License 3.0 (AGPL 3.0)
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os/signal"
	"sync"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/easysoft/pgbackup/pkg/backup"
)

var backupSchedule string

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create a new backup and upload it to the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd.Context())
		if err != nil {
			return err
		}

		b := backup.NewBackupper(rt.manager, rt.store, rt.cfg.WorkDir, rt.log)
		if backupSchedule != "" {
			return runScheduled(cmd, rt, b)
		}

		name, err := b.Run(cmd.Context(), rt.cfg.DB.Name)
		if err != nil {
			rt.log.WithError(err).Error("backup failed")
			return err
		}
		fmt.Println(name)
		return nil
	},
}

// runScheduled repeats the backup on a cron schedule until the process is
// told to stop. A tick that fires while the previous run is still going
// is skipped rather than stacked.
func runScheduled(cmd *cobra.Command, rt *runtime, b *backup.Backupper) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var busy sync.Mutex
	c := cron.New()
	_, err := c.AddFunc(backupSchedule, func() {
		if !busy.TryLock() {
			rt.log.Warn("previous backup still running, skipping this tick")
			return
		}
		defer busy.Unlock()

		if name, runErr := b.Run(ctx, rt.cfg.DB.Name); runErr != nil {
			rt.log.WithError(runErr).Error("scheduled backup failed")
		} else {
			rt.log.Infof("scheduled backup completed: %s", name)
		}
	})
	if err != nil {
		rt.log.WithError(err).Errorf("invalid schedule %q", backupSchedule)
		return err
	}

	rt.log.Infof("running on schedule %q, ctrl-c to stop", backupSchedule)
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

func init() {
	backupCmd.Flags().StringVar(&backupSchedule, "schedule", "",
		"run continuously, creating a backup on this cron schedule")
	rootCmd.AddCommand(backupCmd)
}
