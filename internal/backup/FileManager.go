// Package backup keeps a compressed file copy of every collection and
// restores it into an empty database on startup.
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"

	"vibes/internal/backup/interfaces"
	"vibes/internal/models"
	"vibes/internal/providers"
	"vibes/internal/services"
)

type FileManager struct {
	service    services.CollectionServiceInterface
	compressor interfaces.CompressorInterface
	logger     providers.Logger
	now        func() time.Time
}

func NewFileManager(compressor interfaces.CompressorInterface, service services.CollectionServiceInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		service:    service,
		logger:     logger,
		now:        time.Now,
	}
}

func (f *FileManager) SaveToFile(ctx context.Context, fileName string) error {
	collections, err := f.service.SnapshotAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to snapshot collections: %w", err)
	}

	jsonData, err := json.Marshal(models.BackupSnapshot{
		Version:     models.BackupVersion,
		CreatedAt:   f.now().UTC(),
		Collections: collections,
	})
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fileName), 0o755); err != nil {
		return err
	}
	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

// LoadFromFile restores the backup into an empty database. A missing file is not an error.
func (f *FileManager) LoadFromFile(ctx context.Context, fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		return err
	}

	var snapshot models.BackupSnapshot
	if err := json.Unmarshal(decompressedData, &snapshot); err != nil || snapshot.Collections == nil {
		// Unversioned backups hold the user map at the top level.
		f.logger.Warnf(providers.TypeApp, "Backup %s has no version header, reading it as a bare collection map", fileName)
		var bare map[string]models.CollectionState
		if err := json.Unmarshal(decompressedData, &bare); err != nil {
			return fmt.Errorf("failed to decode backup: %w", err)
		}
		snapshot.Collections = bare
	}

	restored, err := f.service.RestoreAll(ctx, snapshot.Collections)
	if err != nil {
		return err
	}
	if restored {
		f.logger.Infof(providers.TypeApp, "Restored %d collections from %s", len(snapshot.Collections), fileName)
	} else {
		f.logger.Debugf(providers.TypeApp, "Database already holds collections, backup %s left unused", fileName)
	}
	return nil
}
