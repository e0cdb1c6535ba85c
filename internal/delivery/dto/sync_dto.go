package dto

import "time"

type SyncStatusResponse struct {
	Status          string    `json:"status"`
	LastSync        time.Time `json:"last_sync,omitempty"`
	LastLocalUpdate time.Time `json:"last_local_update,omitempty"`
	LatencyMS       int64     `json:"latency_ms,omitempty"`
}

type SyncResultResponse struct {
	Synced bool `json:"synced"`
}

type AuditEntryResponse struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	User      string    `json:"user"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
}
