package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/babylon-sim/babylon/sim/store"
)

var (
	backupStoreDir string // Store to archive
	backupDir      string // Directory receiving the archive
)

// backupCmd archives a store directory into a timestamped tar.gz.
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Archive a simulation store into a tar.gz",
	Run: func(cmd *cobra.Command, args []string) {
		appCfg, err := LoadEnv()
		if err != nil {
			logrus.Fatalf("Invalid environment: %v", err)
		}
		if backupStoreDir == "" {
			backupStoreDir = appCfg.DatabaseURL
		}
		if backupStoreDir == "" {
			logrus.Fatal("No store directory given (--store-dir or BABYLON_DATABASE_URL)")
		}

		st, err := store.Open(backupStoreDir)
		if err != nil {
			logrus.Fatalf("Could not open store: %v", err)
		}
		defer func() {
			if err := st.Close(); err != nil {
				logrus.Errorf("Could not close store: %v", err)
			}
		}()

		path, err := st.Backup(backupDir)
		if err != nil {
			logrus.Fatalf("Backup failed: %v", err)
		}
		logrus.Infof("Backup written to %s", path)
	},
}

func init() {
	backupCmd.Flags().StringVar(&backupStoreDir, "store-dir", "", "Store directory to archive")
	backupCmd.Flags().StringVar(&backupDir, "backup-dir", ".", "Directory receiving the archive")

	rootCmd.AddCommand(backupCmd)
}
