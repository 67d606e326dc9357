package models

import "time"

const BackupVersion = 1

// BackupSnapshot is the on-disk form of every stored collection.
type BackupSnapshot struct {
	Version     int                        `json:"version"`
	CreatedAt   time.Time                  `json:"createdAt"`
	Collections map[string]CollectionState `json:"collections"`
}
