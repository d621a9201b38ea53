package database

import (
	"embed"
	"fmt"
	"strings"

	"github.com/yeremiapane/sepatu-storefront/utils"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// ExecuteTriggers memasang trigger db_changes sesuai dialek database. SQLite (test)
// dilewati; perubahan di test ditulis langsung ke db_changes.
func ExecuteTriggers(db *gorm.DB) error {
	var file string
	switch db.Dialector.Name() {
	case "mysql":
		file = "migrations/triggers_mysql.sql"
	case "postgres":
		file = "migrations/triggers_postgres.sql"
	default:
		utils.InfoLogger.Printf("Trigger dilewati untuk dialect %s", db.Dialector.Name())
		return nil
	}

	triggerSQL, err := migrationFiles.ReadFile(file)
	if err != nil {
		return err
	}

	var failed int
	for _, stmt := range SplitStatements(string(triggerSQL)) {
		if err := db.Exec(stmt).Error; err != nil {
			utils.ErrorLogger.Printf("Error executing trigger: %v\nStatement: %s", err, stmt)
			failed++
			continue
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d trigger statement gagal dieksekusi", failed)
	}

	verifyTriggers(db)
	return nil
}

// SplitStatements memecah file trigger berdasarkan "//" dan membuang baris komentar.
func SplitStatements(sql string) []string {
	var out []string
	for _, block := range strings.Split(sql, "//") {
		var lines []string
		for _, line := range strings.Split(block, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "--") {
				continue
			}
			lines = append(lines, line)
		}
		stmt := strings.TrimSpace(strings.Join(lines, "\n"))
		if stmt == "" || stmt == ";" {
			continue
		}
		out = append(out, stmt)
	}
	return out
}

func verifyTriggers(db *gorm.DB) {
	var triggers []struct {
		TriggerName string
		EventType   string
		TableName   string
	}

	query := `
        SELECT
            TRIGGER_NAME as trigger_name,
            EVENT_MANIPULATION as event_type,
            EVENT_OBJECT_TABLE as table_name
        FROM information_schema.triggers
        WHERE TRIGGER_SCHEMA = DATABASE()`
	if db.Dialector.Name() == "postgres" {
		query = `
        SELECT
            trigger_name,
            event_manipulation as event_type,
            event_object_table as table_name
        FROM information_schema.triggers
        WHERE trigger_schema = current_schema()`
	}

	if err := db.Raw(query).Scan(&triggers).Error; err != nil {
		utils.ErrorLogger.Printf("Gagal memverifikasi trigger: %v", err)
		return
	}
	for _, t := range triggers {
		utils.InfoLogger.Printf("Trigger verified: %s (%s on %s)", t.TriggerName, t.EventType, t.TableName)
	}
}
