package avatar

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"avatard/internal/avatar/interfaces"
	"avatard/internal/models"
	"avatard/internal/providers"
)

// FileManager persists the record store as a compressed snapshot so the
// daemon restarts with a warm cache.
type FileManager struct {
	store      *RecordStore
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, store *RecordStore, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		store:      store,
		logger:     logger,
	}
}

func (f *FileManager) SaveToFile(fileName string) error {
	snapshot := &models.SnapshotV1{
		Version: models.SnapshotVersion,
		Records: f.store.SnapshotRecords(),
	}

	jsonData, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
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

func (f *FileManager) LoadFromFile(fileName string) error {
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

	var snapshot models.SnapshotV1
	if err := json.Unmarshal(decompressedData, &snapshot); err != nil {
		return fmt.Errorf("unreadable snapshot %s: %w", fileName, err)
	}
	if snapshot.Version != models.SnapshotVersion {
		f.logger.Warnf(providers.TypeApp, "Snapshot version %d unsupported, starting cold", snapshot.Version)
		return nil
	}

	restored := f.store.RestoreRecords(snapshot.Records)
	f.logger.Infof(providers.TypeApp, "Restored %d avatar records from %s", restored, fileName)
	return nil
}

func (f *FileManager) Close() {
	f.compressor.Close()
}
