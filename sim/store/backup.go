package store

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Backup writes a gzipped tar archive of the database into targetDir and
// returns the archive path. The archive holds a single badger backup
// stream. targetDir must already exist.
func (s *Store) Backup(targetDir string) (string, error) {
	info, err := os.Stat(targetDir)
	if err != nil {
		return "", fmt.Errorf("backup directory %s does not exist: %w", targetDir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("backup target %s is not a directory", targetDir)
	}

	// Stream the backup to a temp file first so the tar header can carry
	// its size.
	tmp, err := os.CreateTemp(targetDir, "babylon_backup_*.tmp")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := s.db.Backup(tmp, 0); err != nil {
		return "", fmt.Errorf("badger backup: %w", err)
	}
	size, err := tmp.Seek(0, io.SeekEnd)
	if err != nil {
		return "", err
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	name := fmt.Sprintf("babylon_backup_%s.tar.gz", s.now().Format("20060102_150405"))
	path := filepath.Join(targetDir, name)
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)
	hdr := &tar.Header{
		Name:    "babylon.badger",
		Mode:    0o600,
		Size:    size,
		ModTime: s.now(),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return "", err
	}
	if _, err := io.Copy(tw, tmp); err != nil {
		return "", err
	}
	if err := tw.Close(); err != nil {
		return "", err
	}
	if err := gz.Close(); err != nil {
		return "", err
	}
	return path, nil
}
