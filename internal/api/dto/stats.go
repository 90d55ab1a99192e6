package dto

import "time"

type ProviderConflictResponse struct {
	Provider          string `json:"provider"`
	ProviderID        int    `json:"provider_id"`
	KeptInternalID    int    `json:"kept_internal_id"`
	DroppedInternalID int    `json:"dropped_internal_id"`
}

type StatsResponse struct {
	Version     uint64                     `json:"version"`
	Fingerprint string                     `json:"fingerprint"`
	LoadedAt    time.Time                  `json:"loaded_at"`
	Areas       int                        `json:"areas"`
	Districts   int                        `json:"districts"`
	Divisions   int                        `json:"divisions"`
	Providers   []string                   `json:"providers"`
	Conflicts   []ProviderConflictResponse `json:"conflicts"`
}
