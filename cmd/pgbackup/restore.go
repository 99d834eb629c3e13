// Copyright (c) 2022-2022 北京渠成软件有限公司(Beijing Qucheng Software Co., Ltd. www.qucheng.com) All rights reserved.
// Use of this source code is covered by the following dual licenses:
// (1) Z PUBLIC LICENSE 1.2 (ZPL 1.2)
// (2) Affero General Public License 3.0 (AGPL 3.0)
// license that can be found in the LICENSE file.

package main

import (
	"github.com/spf13/cobra"

	"github.com/easysoft/pgbackup/pkg/backup"
)

var (
	restoreName string
	restoreDate string
)

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore a backup from the store",
	Long: `Restore replaces the target database with a stored backup, selected
either by exact name (--name) or by the newest backup whose name contains
a date fragment (--date).

The target database is dropped and recreated before the dump is applied.
Its current contents are discarded unconditionally.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd.Context())
		if err != nil {
			return err
		}

		catalog := backup.NewCatalog(rt.store, rt.log)
		r := backup.NewRestorer(rt.manager, rt.store, catalog, rt.cfg.WorkDir, rt.log)

		sel := backup.Selector{Name: restoreName, DateFragment: restoreDate}
		if err := r.Run(cmd.Context(), sel, rt.cfg.DB.Name); err != nil {
			rt.log.WithError(err).Error("restore failed")
			return err
		}
		return nil
	},
}

func init() {
	restoreCmd.Flags().StringVar(&restoreName, "name", "", "exact name of the backup to restore")
	restoreCmd.Flags().StringVar(&restoreDate, "date", "", "date fragment, the newest matching backup is restored")
	restoreCmd.MarkFlagsMutuallyExclusive("name", "date")
	restoreCmd.MarkFlagsOneRequired("name", "date")
	rootCmd.AddCommand(restoreCmd)
}
