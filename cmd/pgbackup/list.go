// Copyright (c) 2022-2022 北京渠成软件有限公司(Beijing Qucheng Software Co., Ltd. www.qucheng.com) All rights reserved.
// Use of this source code is covered by the following dual licenses:
// (1) Z PUBLIC LICENSE 1.2 (ZPL 1.2)
// (2) Affero General Public License 3.0 (AGPL 3.0)
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/easysoft/pgbackup/pkg/backup"
	"github.com/easysoft/pgbackup/pkg/snapshot"
)

var listAll bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available backups, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd.Context())
		if err != nil {
			return err
		}

		catalog := backup.NewCatalog(rt.store, rt.log)
		records, err := catalog.ListSortedDesc(cmd.Context())
		if err != nil {
			rt.log.WithError(err).Error("list backups")
			return err
		}
		if len(records) == 0 {
			fmt.Println("no backups found")
			return nil
		}

		for i, rec := range records {
			if listAll {
				fmt.Printf("%d. %s\t%d bytes\t%s\n", i+1, rec.Key, rec.Size, displayTime(rec))
			} else {
				fmt.Printf("%d. %s\n", i+1, rec.Key)
			}
		}
		return nil
	},
}

// displayTime prefers the creation time embedded in the snapshot name;
// the store's modification time only tells when the blob was uploaded.
func displayTime(rec snapshot.Record) string {
	ts, ok := snapshot.Timestamp(rec.Key)
	if !ok {
		ts = rec.ModTime
	}
	return ts.Format("2006-01-02 15:04:05")
}

func init() {
	listCmd.Flags().BoolVar(&listAll, "all", false, "include size and upload time")
	rootCmd.AddCommand(listCmd)
}
