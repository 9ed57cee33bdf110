package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/vladimiradmaev/diabetes-tracker/internal/logger"
	"gorm.io/gorm"
)

// Files holds the SQL migrations shipped with the binary
//
//go:embed sql/*.sql
var Files embed.FS

// Migration represents a database migration
type Migration struct {
	ID   string
	Up   func(*gorm.DB) error
	Down func(*gorm.DB) error
}

// MigrationRecord represents a record of executed migrations
type MigrationRecord struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt int64  `gorm:"autoCreateTime"`
}

// Migrator keeps a registry of migrations and applies the pending ones in ID order
type Migrator struct {
	migrations map[string]Migration
}

func NewMigrator() *Migrator {
	return &Migrator{migrations: make(map[string]Migration)}
}

// Register adds a new migration to the registry
func (m *Migrator) Register(id string, up, down func(*gorm.DB) error) {
	m.migrations[id] = Migration{
		ID:   id,
		Up:   up,
		Down: down,
	}
}

// LoadSQL registers every .sql file in dir of fsys; the file name without
// extension is the migration ID
func (m *Migrator) LoadSQL(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		content, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		statement := string(content)
		m.Register(strings.TrimSuffix(entry.Name(), ".sql"), func(db *gorm.DB) error {
			return db.Exec(statement).Error
		}, nil) // No down migration for SQL files
	}

	return nil
}

// Pending returns the registered migrations not present in executed, sorted by ID
func (m *Migrator) Pending(executed map[string]bool) []Migration {
	var pending []Migration
	for id, migration := range m.migrations {
		if !executed[id] {
			pending = append(pending, migration)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].ID < pending[j].ID })
	return pending
}

// Run executes all pending migrations
func (m *Migrator) Run(db *gorm.DB) error {
	if err := db.AutoMigrate(&MigrationRecord{}); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var executed []MigrationRecord
	if err := db.Find(&executed).Error; err != nil {
		return fmt.Errorf("failed to get executed migrations: %w", err)
	}

	executedMap := make(map[string]bool, len(executed))
	for _, r := range executed {
		executedMap[r.ID] = true
	}

	for _, migration := range m.Pending(executedMap) {
		logger.Info("Running migration", "id", migration.ID)
		if err := migration.Up(db); err != nil {
			return fmt.Errorf("failed to run migration %s: %w", migration.ID, err)
		}

		if err := db.Create(&MigrationRecord{ID: migration.ID}).Error; err != nil {
			return fmt.Errorf("failed to record migration %s: %w", migration.ID, err)
		}
		logger.Info("Completed migration", "id", migration.ID)
	}

	return nil
}
