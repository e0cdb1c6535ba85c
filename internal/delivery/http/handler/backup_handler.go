package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"clinic-sync-backend/internal/store"
	"clinic-sync-backend/internal/usecase"
	"clinic-sync-backend/pkg/response"
)

type BackupHandler struct {
	backupUsecase usecase.BackupUsecase
}

func NewBackupHandler(backupUsecase usecase.BackupUsecase) *BackupHandler {
	return &BackupHandler{backupUsecase: backupUsecase}
}

// Export streams the full document as a JSON backup download.
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.backupUsecase.ExportBackup(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to export backup")
		return
	}

	filename := fmt.Sprintf("clinic-backup-%s.json", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Restore replaces the document with an uploaded backup. Rejected when
// the payload is missing the required collections, leaving current data
// untouched.
func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Failed to read upload", nil)
		return
	}

	if err := h.backupUsecase.RestoreBackup(r.Context(), actingUserFrom(r), data); err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidBackup):
			response.Error(w, http.StatusBadRequest, "Backup file is missing required collections", nil)
		default:
			response.Error(w, http.StatusBadRequest, "Failed to restore backup", nil)
		}
		return
	}

	response.Success(w, http.StatusOK, "Backup restored successfully", nil)
}
