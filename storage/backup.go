package storage

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/junaidrashid-git/food-delivery-api/logger"
)

// Backup copies src into a timestamped folder under backupDir and then
// removes backup folders older than retention. It returns the new folder.
func Backup(src, backupDir string, retention time.Duration, now time.Time) (string, error) {
	dest := filepath.Join(backupDir, now.Format("2006-01-02_15-04-05"))
	if err := copyDir(src, dest); err != nil {
		return "", err
	}
	logger.Log.WithField("dest", dest).Info("uploads backed up")

	cleanupOldBackups(backupDir, now.Add(-retention))
	return dest, nil
}

// copyDir recursively copies a folder
func copyDir(src, dest string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dest, 0755); err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		destPath := filepath.Join(dest, entry.Name())

		if entry.IsDir() {
			if err := copyDir(srcPath, destPath); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(srcPath, destPath); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

// cleanupOldBackups removes backup folders last modified before cutoff.
func cleanupOldBackups(backupDir string, cutoff time.Time) {
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		logger.Log.WithError(err).Error("failed to read backup directory")
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folderPath := filepath.Join(backupDir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(folderPath); err != nil {
			logger.Log.WithError(err).WithField("path", folderPath).Error("failed to remove old backup")
		} else {
			logger.Log.WithField("path", folderPath).Info("removed old backup")
		}
	}
}
