// Package database handles database connections.
//
// It wraps GORM and configures either an embedded SQLite file (the default, used by a
// single workstation) or a MySQL server. Saved AniList accounts and the restore run
// journal are stored through the returned *gorm.DB.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return fmt.Errorf("database unavailable: %w", err)
//	}
package database
