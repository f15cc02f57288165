package settings

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/mobiledorms/mobiledorms-api/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSnapshotDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "settings-test.db")
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := conn.AutoMigrate(&models.Setting{}); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return conn
}

func TestRefreshSnapshotLoadsRows(t *testing.T) {
	ResetSnapshot()
	t.Cleanup(ResetSnapshot)

	conn := newSnapshotDB(t)
	setting := models.Setting{Key: SiteNameKey, Value: datatypes.JSON(`"MobileDorms"`)}
	if errCreate := conn.Create(&setting).Error; errCreate != nil {
		t.Fatalf("seed setting: %v", errCreate)
	}

	if errRefresh := RefreshSnapshot(context.Background(), conn); errRefresh != nil {
		t.Fatalf("refresh snapshot: %v", errRefresh)
	}

	raw, ok := DBConfigValue(SiteNameKey)
	if !ok {
		t.Fatalf("expected snapshot to contain %s", SiteNameKey)
	}
	if string(raw) != `"MobileDorms"` {
		t.Fatalf("unexpected value: %s", raw)
	}
	if _, ok := DBConfigValue("UNKNOWN_KEY"); ok {
		t.Fatalf("expected unknown key to be absent")
	}
}

func TestRefreshSnapshotReplacesPreviousState(t *testing.T) {
	ResetSnapshot()
	t.Cleanup(ResetSnapshot)

	conn := newSnapshotDB(t)
	setting := models.Setting{Key: RateLimitMaxRequestsKey, Value: datatypes.JSON(`10`)}
	if errCreate := conn.Create(&setting).Error; errCreate != nil {
		t.Fatalf("seed setting: %v", errCreate)
	}
	if errRefresh := RefreshSnapshot(context.Background(), conn); errRefresh != nil {
		t.Fatalf("refresh snapshot: %v", errRefresh)
	}

	if errDelete := conn.Delete(&models.Setting{}, "key = ?", RateLimitMaxRequestsKey).Error; errDelete != nil {
		t.Fatalf("delete setting: %v", errDelete)
	}
	if errRefresh := RefreshSnapshot(context.Background(), conn); errRefresh != nil {
		t.Fatalf("refresh snapshot: %v", errRefresh)
	}

	if _, ok := DBConfigValue(RateLimitMaxRequestsKey); ok {
		t.Fatalf("expected deleted key to leave the snapshot")
	}
}
