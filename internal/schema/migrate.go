package schema

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table in dependency order.
func Models() []any {
	return []any{
		&Profile{},
		&Media{},
		&Section{},
		&GalleryItem{},
		&Post{},
		&PostLink{},
		&Like{},
		&Bookmark{},
		&Comment{},
		&Page{},
		&Project{},
		&ProjectMedia{},
		&Education{},
		&Experience{},
		&SocialLink{},
		&Organization{},
		&StoryElement{},
		&OutboxEvent{},
		&OutboxDLQ{},
		&ImportJob{},
	}
}

// statements gorm tags cannot express.
var extra = []string{
	`CREATE INDEX IF NOT EXISTS idx_profiles_search ON profiles
		USING gin (to_tsvector('simple', username || ' ' || display_name || ' ' || bio))`,
	`CREATE INDEX IF NOT EXISTS idx_outbox_events_pending ON outbox_events (id) WHERE processed_at IS NULL`,
}

// Migrate brings the schema up to date on an existing connection pool.
func Migrate(db *sql.DB, log *zap.Logger) error {
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: newGormLogger(log, logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("open gorm: %w", err)
	}

	// Migrate models individually so the log names the table that failed.
	for _, m := range Models() {
		if err := gdb.AutoMigrate(m); err != nil {
			return fmt.Errorf("migrate %T: %w", m, err)
		}
	}

	for _, stmt := range extra {
		if err := gdb.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	log.Info("schema migrated", zap.Int("tables", len(Models())))
	return nil
}
