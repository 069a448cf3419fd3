package entities

import "time"

// UserLibraryEntry links a user to a book they favorited or read.
// One row per (user, book) pair, created lazily on the first action.
type UserLibraryEntry struct {
	UserID     string     `gorm:"primaryKey;size:64" json:"userId"`
	BookID     string     `gorm:"primaryKey;size:64" json:"bookId"`
	IsFavorite bool       `json:"isFavorite"`
	ReadCount  int64      `json:"readCount"`
	LastReadAt *time.Time `json:"lastReadAt,omitempty"`
}

func (UserLibraryEntry) TableName() string {
	return "user_library"
}

// ReadingStatEvent records one reading session. Rows are append-only.
type ReadingStatEvent struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          string    `gorm:"index;size:64" json:"userId"`
	BookID          string    `gorm:"index;size:64" json:"bookId"`
	DurationSeconds int       `json:"durationSeconds"`
	Completed       bool      `json:"completed"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (ReadingStatEvent) TableName() string {
	return "reading_stats"
}

// ParentSettings is per-user parental configuration, one row per user.
type ParentSettings struct {
	UserID               string    `gorm:"primaryKey;size:64" json:"userId"`
	ContentFilterEnabled bool      `json:"contentFilterEnabled"`
	MaxBooksPerDay       int       `json:"maxBooksPerDay"`
	AllowSharing         bool      `json:"allowSharing"`
	RequireApproval      bool      `json:"requireApproval"`
	UpdatedAt            time.Time `json:"-"`
}

func (ParentSettings) TableName() string {
	return "parent_settings"
}

// DefaultParentSettings returns the settings applied when a user has
// never saved any.
func DefaultParentSettings(userID string) ParentSettings {
	return ParentSettings{
		UserID:               userID,
		ContentFilterEnabled: true,
		MaxBooksPerDay:       10,
		AllowSharing:         true,
		RequireApproval:      false,
	}
}
