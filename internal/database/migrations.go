package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/onboarding-portal/api/internal/config"
	"github.com/onboarding-portal/api/internal/models"
	"github.com/onboarding-portal/api/internal/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// schemaMigration records an applied migration step.
type schemaMigration struct {
	ID        string `gorm:"primarykey;type:varchar(64)"`
	AppliedAt time.Time
}

func (schemaMigration) TableName() string {
	return "schema_migrations"
}

type migration struct {
	ID  string
	Run func(db *gorm.DB) error
}

// Migrate applies the ordered migration list. Each step runs inside a
// transaction and is recorded in schema_migrations, so it is applied at
// most once per database.
func Migrate(cfg *config.Config) error {
	db := DB

	if err := db.AutoMigrate(&schemaMigration{}); err != nil {
		return fmt.Errorf("failed to prepare migration table: %w", err)
	}

	migrations := []migration{
		{ID: "0001_base_tables", Run: createBaseTables},
		{ID: "0002_indexes", Run: addIndexes},
		{ID: "0003_bootstrap_admin", Run: func(db *gorm.DB) error {
			return bootstrapAdmin(db, cfg)
		}},
	}

	for _, m := range migrations {
		var applied schemaMigration
		err := db.Where("id = ?", m.ID).First(&applied).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check migration %s: %w", m.ID, err)
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := m.Run(tx); err != nil {
				return err
			}
			return tx.Create(&schemaMigration{ID: m.ID, AppliedAt: time.Now()}).Error
		})
		if err != nil {
			return fmt.Errorf("migration %s failed: %w", m.ID, err)
		}

		logrus.WithField("migration", m.ID).Info("applied migration")
	}

	return nil
}

func createBaseTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.Contact{},
		&models.CompletionRecord{},
	)
}

func addIndexes(db *gorm.DB) error {
	indexes := []struct {
		name    string
		table   string
		columns string
	}{
		{"idx_tasks_stage", "tasks", "stage"},
		{"idx_tasks_category", "tasks", "category"},
		{"idx_completion_records_user_id", "completion_records", "user_id"},
		{"idx_completion_records_task_id", "completion_records", "task_id"},
		{"idx_contacts_area", "contacts", "area"},
	}

	for _, idx := range indexes {
		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}

// bootstrapAdmin seeds the first administrator account. Users are
// otherwise created by administrators only, so an empty users table
// would be unreachable.
func bootstrapAdmin(db *gorm.DB, cfg *config.Config) error {
	if cfg.AdminLogin == "" || cfg.AdminPassword == "" {
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, salt, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap admin password: %w", err)
	}

	admin := &models.User{
		Login:        strings.ToUpper(strings.TrimSpace(cfg.AdminLogin)),
		Role:         models.RoleAdmin,
		CurrentStage: models.StageOne,
		PasswordHash: hash,
		PasswordSalt: salt,
	}

	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}

	logrus.WithField("login", admin.Login).Info("created bootstrap administrator")
	return nil
}
