// internal/services/script_service.go
package services

import (
	"encoding/json"
	"fmt"
	"time"

	apperrors "github.com/DulceVida/MagoChat/internal/errors"
	"github.com/DulceVida/MagoChat/internal/models"
	"github.com/DulceVida/MagoChat/internal/scripts"
	"github.com/DulceVida/MagoChat/internal/storage"
	"github.com/DulceVida/MagoChat/internal/utils"
)

const scriptsDir = "scripts"

// ScriptService layers persistence onto the script repository: imports are
// parsed, validated, registered and written to disk; persisted scripts are
// re-registered at boot.
type ScriptService struct {
	Repository  *scripts.Repository
	FileStorage *storage.FileStorage
	Stats       *StatsService
}

// NewScriptService wires the script service. fileStorage may be nil, which
// disables persistence (used by tests).
func NewScriptService(repo *scripts.Repository, fileStorage *storage.FileStorage, stats *StatsService) *ScriptService {
	return &ScriptService{
		Repository:  repo,
		FileStorage: fileStorage,
		Stats:       stats,
	}
}

// LoadPersisted registers every script found on disk. Documents that no
// longer parse, validate or whose id collides are skipped with a warning so
// one bad file never blocks startup.
func (s *ScriptService) LoadPersisted() {
	if s.FileStorage == nil {
		return
	}

	files, err := s.FileStorage.ListFiles(scriptsDir)
	if err != nil {
		utils.GetLogger().Warn("failed to list persisted scripts", map[string]interface{}{
			"err": err.Error(),
		})
		return
	}

	loaded := 0
	for _, name := range files {
		var script models.ConversationScript
		if err := s.FileStorage.LoadJSONFile(scriptsDir, name, &script); err != nil {
			utils.GetLogger().Warn("skipping unreadable script file", map[string]interface{}{
				"file": name,
				"err":  err.Error(),
			})
			continue
		}
		if err := s.Repository.Add(&script); err != nil {
			utils.GetLogger().Warn("skipping persisted script", map[string]interface{}{
				"file": name,
				"err":  err.Error(),
			})
			continue
		}
		loaded++
	}

	if loaded > 0 {
		utils.GetLogger().Info("loaded persisted scripts", map[string]interface{}{
			"count": loaded,
		})
	}
}

// Import parses, validates and registers an uploaded script document, then
// persists it. The repository is left unchanged on any failure.
func (s *ScriptService) Import(raw []byte) (*models.ConversationScript, error) {
	var script models.ConversationScript
	if err := json.Unmarshal(raw, &script); err != nil {
		return nil, apperrors.NewValidationError("script document is not valid JSON", err)
	}

	// WrapError keeps the repository's error type (validation, conflict) so
	// the HTTP status mapping still sees it.
	if err := s.Repository.Add(&script); err != nil {
		return nil, apperrors.WrapError(err, "script import rejected", apperrors.ErrorTypeValidation)
	}

	if s.FileStorage != nil {
		if err := s.FileStorage.SaveJSONFile(scriptsDir, script.ID+".json", &script); err != nil {
			utils.GetLogger().Warn("failed to persist imported script", map[string]interface{}{
				"script_id": script.ID,
				"err":       err.Error(),
			})
		}
	}

	if s.Stats != nil {
		s.Stats.RecordScriptImported()
	}
	utils.GetLogger().Info("script imported", map[string]interface{}{
		"script_id": script.ID,
		"steps":     len(script.Steps),
	})

	return &script, nil
}

// Export serializes a script for download. The produced document passes the
// import validator verbatim.
func (s *ScriptService) Export(id string) (*models.ExportResult, error) {
	script, ok := s.Repository.Get(id)
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("script %q not found", id), nil)
	}

	return exportScript(script)
}

// TemplateExport returns a blank, fill-in-the-steps script document that
// round-trips through Import.
func (s *ScriptService) TemplateExport() (*models.ExportResult, error) {
	return exportScript(scripts.Template())
}

func exportScript(script *models.ConversationScript) (*models.ExportResult, error) {
	content, err := json.MarshalIndent(script, "", "  ")
	if err != nil {
		return nil, apperrors.NewProcessingError("failed to serialize script", err)
	}

	return &models.ExportResult{
		ScriptID:   script.ID,
		FileName:   script.ID + ".json",
		Content:    string(content),
		ExportedAt: time.Now(),
	}, nil
}

// Delete removes an uploaded script from the repository and from disk.
// Built-in scripts cannot be deleted.
func (s *ScriptService) Delete(id string) error {
	if err := s.Repository.Remove(id); err != nil {
		return err
	}

	if s.FileStorage != nil && s.FileStorage.FileExists(scriptsDir, id+".json") {
		if err := s.FileStorage.DeleteFile(scriptsDir, id+".json"); err != nil {
			utils.GetLogger().Warn("failed to delete persisted script", map[string]interface{}{
				"script_id": id,
				"err":       err.Error(),
			})
		}
	}

	utils.GetLogger().Info("script deleted", map[string]interface{}{
		"script_id": id,
	})

	return nil
}

// List returns every known script.
func (s *ScriptService) List() []*models.ConversationScript {
	return s.Repository.List()
}

// Get returns a script by id.
func (s *ScriptService) Get(id string) (*models.ConversationScript, error) {
	script, ok := s.Repository.Get(id)
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("script %q not found", id), nil)
	}
	return script, nil
}
