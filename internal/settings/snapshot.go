// Package settings exposes a process-wide snapshot of the settings table
// so hot paths can read configuration without touching the database.
package settings

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/mobiledorms/mobiledorms-api/internal/models"
	"gorm.io/gorm"
)

var (
	snapshotMu sync.RWMutex
	snapshot   map[string]json.RawMessage
)

// DBConfigValue returns the snapshot value for a settings key.
func DBConfigValue(key string) (json.RawMessage, bool) {
	snapshotMu.RLock()
	defer snapshotMu.RUnlock()
	raw, ok := snapshot[key]
	return raw, ok
}

// RefreshSnapshot reloads all settings rows into the snapshot.
func RefreshSnapshot(ctx context.Context, conn *gorm.DB) error {
	var rows []models.Setting
	if errFind := conn.WithContext(ctx).Find(&rows).Error; errFind != nil {
		return errFind
	}
	next := make(map[string]json.RawMessage, len(rows))
	for _, row := range rows {
		next[row.Key] = json.RawMessage(row.Value)
	}
	snapshotMu.Lock()
	snapshot = next
	snapshotMu.Unlock()
	return nil
}

// ResetSnapshot clears the snapshot. Used by tests.
func ResetSnapshot() {
	snapshotMu.Lock()
	snapshot = nil
	snapshotMu.Unlock()
}
