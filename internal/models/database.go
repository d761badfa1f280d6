package models

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// mutableColumns are the MediaItem columns an update may touch
var mutableColumns = []string{
	"status", "notes", "rating", "completedAt",
	"currentSeason", "currentEpisode", "totalSeasons", "episodesInSeason",
	"updatedAt",
}

// Database wraps the gorm handle over the SQLite file
type Database struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewDatabase opens the SQLite database at path.
// Migrations are not applied here; call Migrate once at startup.
func NewDatabase(path string, logger *logrus.Logger) (*Database, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", path)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(logger, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	// SQLite serialises writers; one connection avoids SQLITE_BUSY churn
	sqlDB.SetMaxOpenConns(1)

	return &Database{db: db, logger: logger}, nil
}

// Migrate applies every pending schema migration. Safe to call repeatedly.
func (d *Database) Migrate(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql handle: %w", err)
	}

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(d.logger)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err == nil {
		d.logger.WithField("schema_version", version).Debug("Database schema up to date")
	}
	return nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Media operations

// ListMedia returns items matching the filter, newest first
func (d *Database) ListMedia(ctx context.Context, filter MediaFilter) ([]MediaItem, error) {
	query := d.db.WithContext(ctx).Model(&MediaItem{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.MediaType != "" {
		query = query.Where("mediaType = ?", filter.MediaType)
	}

	items := make([]MediaItem, 0)
	if err := query.Order("createdAt DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list media items: %w", err)
	}
	return items, nil
}

// GetMediaByID retrieves a media item by ID
func (d *Database) GetMediaByID(ctx context.Context, id string) (*MediaItem, error) {
	var item MediaItem
	err := d.db.WithContext(ctx).Where("id = ?", id).Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get media item %s: %w", id, err)
	}
	return &item, nil
}

// CreateMedia inserts a new media item. ID and timestamps must be set.
func (d *Database) CreateMedia(ctx context.Context, item *MediaItem) error {
	if err := d.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create media item: %w", err)
	}
	return nil
}

// SaveMediaState writes every mutable column of item in a single UPDATE
func (d *Database) SaveMediaState(ctx context.Context, item *MediaItem) error {
	result := d.db.WithContext(ctx).
		Model(&MediaItem{}).
		Where("id = ?", item.ID).
		Select(mutableColumns).
		Updates(item)
	if result.Error != nil {
		return fmt.Errorf("failed to update media item %s: %w", item.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMedia deletes a media item by ID
func (d *Database) DeleteMedia(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).Where("id = ?", id).Delete(&MediaItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete media item %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountMediaByStatus returns item counts keyed by media type then status
func (d *Database) CountMediaByStatus(ctx context.Context) (map[MediaType]map[Status]int, error) {
	var rows []struct {
		MediaType MediaType `gorm:"column:mediaType"`
		Status    Status    `gorm:"column:status"`
		Count     int       `gorm:"column:count"`
	}
	err := d.db.WithContext(ctx).
		Model(&MediaItem{}).
		Select("mediaType, status, COUNT(*) AS count").
		Group("mediaType, status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count media items: %w", err)
	}

	counts := make(map[MediaType]map[Status]int)
	for _, row := range rows {
		if counts[row.MediaType] == nil {
			counts[row.MediaType] = make(map[Status]int)
		}
		counts[row.MediaType][row.Status] = row.Count
	}
	return counts, nil
}

// User operations

// CountUsers returns the number of registered users
func (d *Database) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := d.db.WithContext(ctx).Model(&User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// CreateFirstUser inserts user only while the User table is empty.
// The check and the insert are one statement, so two concurrent setups
// cannot both succeed.
func (d *Database) CreateFirstUser(ctx context.Context, user *User) error {
	result := d.db.WithContext(ctx).Exec(
		`INSERT INTO User (id, email, password, createdAt, updatedAt)
		 SELECT ?, ?, ?, ?, ?
		 WHERE NOT EXISTS (SELECT 1 FROM User)`,
		user.ID, user.Email, user.Password, user.CreatedAt, user.UpdatedAt,
	)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSetupComplete
	}
	return nil
}

// GetUserByEmail retrieves a user by email
func (d *Database) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := d.db.WithContext(ctx).Where("email = ?", email).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}
