package journal

import (
	"os"

	json "github.com/goccy/go-json"

	"ctd/internal/journal/interfaces"
	"ctd/internal/models"
	"ctd/internal/providers"
)

type journalFile struct {
	Events []*models.TransitionEvent `json:"events"`
}

type FileManager struct {
	journal    interfaces.JournalInterface
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, jrnl interfaces.JournalInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		journal:    jrnl,
		logger:     logger,
	}
}

func (f *FileManager) SaveToFile(fileName string) error {
	payload := journalFile{Events: f.journal.Events()}

	jsonData, err := json.Marshal(payload)
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

	var payload journalFile
	if err := json.Unmarshal(decompressedData, &payload); err != nil {
		return err
	}
	if payload.Events == nil {
		payload.Events = make([]*models.TransitionEvent, 0)
	}
	f.journal.PutEvents(payload.Events)
	f.logger.Infof(providers.TypeApp, "Restored %d journal events", len(payload.Events))
	return nil
}

func (f *FileManager) Close() {
	f.compressor.Close()
}
