package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robosim-backend/services"
)

func TestRunReleasesResourcesOnStartupError(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "robosim.yaml")
	cfg := "database:\n" +
		"  driver: sqlite\n" +
		"  sqlite_path: " + filepath.Join(dir, "results.db") + "\n" +
		"catalog:\n" +
		"  path: " + filepath.Join(dir, "missing.yaml") + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	err := run(cfgPath)
	require.Error(t, err)
	if strings.Contains(err.Error(), "DB 초기화 실패") {
		t.Skipf("sqlite unavailable: %v", err)
	}
	assert.ErrorContains(t, err, "챌린지 카탈로그 로드 실패")
	assert.Nil(t, services.GetDB(), "database closed before run returned")
}

func TestRunRejectsBadConfig(t *testing.T) {
	err := run(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "설정 로드 실패")
	assert.Nil(t, services.GetDB())
}
