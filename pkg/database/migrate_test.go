package database

import (
	"io"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
)

func TestMigrationsEmbedded(t *testing.T) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		t.Fatalf("加载嵌入迁移失败: %v", err)
	}
	defer src.Close()

	first, err := src.First()
	if err != nil {
		t.Fatalf("读取首个迁移失败: %v", err)
	}
	if first != 1 {
		t.Errorf("期望首个迁移版本=1，实际=%d", first)
	}

	up, _, err := src.ReadUp(first)
	if err != nil {
		t.Fatalf("读取 up 迁移失败: %v", err)
	}
	defer up.Close()
	body, _ := io.ReadAll(up)
	for _, table := range []string{"CREATE TABLE IF NOT EXISTS hold", "CREATE TABLE IF NOT EXISTS ugeplan"} {
		if !strings.Contains(string(body), table) {
			t.Errorf("up 迁移缺少 %q", table)
		}
	}

	down, _, err := src.ReadDown(first)
	if err != nil {
		t.Fatalf("读取 down 迁移失败: %v", err)
	}
	down.Close()
}
