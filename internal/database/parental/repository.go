// Package parental provides database operations for per-user parental
// controls. Updates merge onto previously saved values: a field left
// unset in the patch never overwrites what a parent saved earlier.
package parental

import (
	"gorm.io/gorm"

	"storyhatch/internal/entities"
)

// SettingsPatch is a partial update; nil fields are left unchanged.
type SettingsPatch struct {
	ContentFilterEnabled *bool `json:"contentFilterEnabled"`
	MaxBooksPerDay       *int  `json:"maxBooksPerDay"`
	AllowSharing         *bool `json:"allowSharing"`
	RequireApproval      *bool `json:"requireApproval"`
}

// Repository handles all parental-settings database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new parental settings repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetSettings returns the user's settings, or the defaults when none
// were ever saved.
func (r *Repository) GetSettings(userID string) (*entities.ParentSettings, error) {
	var settings entities.ParentSettings
	err := r.db.First(&settings, "user_id = ?", userID).Error
	if err == gorm.ErrRecordNotFound {
		defaults := entities.DefaultParentSettings(userID)
		return &defaults, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateSettings upserts the user's row, merging the patch onto
// existing values (defaults on first write).
func (r *Repository) UpdateSettings(userID string, patch SettingsPatch) (*entities.ParentSettings, error) {
	var settings entities.ParentSettings
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.First(&settings, "user_id = ?", userID)
		if res.Error == gorm.ErrRecordNotFound {
			settings = entities.DefaultParentSettings(userID)
		} else if res.Error != nil {
			return res.Error
		}

		if patch.ContentFilterEnabled != nil {
			settings.ContentFilterEnabled = *patch.ContentFilterEnabled
		}
		if patch.MaxBooksPerDay != nil {
			settings.MaxBooksPerDay = *patch.MaxBooksPerDay
		}
		if patch.AllowSharing != nil {
			settings.AllowSharing = *patch.AllowSharing
		}
		if patch.RequireApproval != nil {
			settings.RequireApproval = *patch.RequireApproval
		}

		return tx.Save(&settings).Error
	})
	if err != nil {
		return nil, err
	}
	return &settings, nil
}
