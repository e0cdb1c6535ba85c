package handler

import (
	"net/http"

	"clinic-sync-backend/internal/usecase"
	"clinic-sync-backend/pkg/response"
)

type SyncHandler struct {
	syncUsecase usecase.SyncUsecase
}

func NewSyncHandler(syncUsecase usecase.SyncUsecase) *SyncHandler {
	return &SyncHandler{syncUsecase: syncUsecase}
}

// GetStatus reports the sync state and the two local timestamps.
func (h *SyncHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.syncUsecase.GetStatus(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get sync status")
		return
	}

	response.Success(w, http.StatusOK, "Sync status retrieved successfully", status)
}

// TriggerSync pushes the document to the cloud immediately, bypassing
// the debounce window.
func (h *SyncHandler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	result, err := h.syncUsecase.TriggerSync(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to trigger sync")
		return
	}

	response.Success(w, http.StatusOK, "Sync triggered", result)
}

// PullFromCloud force-downloads the remote document over local state.
func (h *SyncHandler) PullFromCloud(w http.ResponseWriter, r *http.Request) {
	result, err := h.syncUsecase.PullFromCloud(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to pull from cloud")
		return
	}

	response.Success(w, http.StatusOK, "Cloud pull complete", result)
}

// GetAuditLog returns the audit trail, newest first.
func (h *SyncHandler) GetAuditLog(w http.ResponseWriter, r *http.Request) {
	entries, err := h.syncUsecase.GetAuditLog(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get audit log")
		return
	}

	response.Success(w, http.StatusOK, "Audit log retrieved successfully", entries)
}
