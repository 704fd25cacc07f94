package account

import "time"

// Account is a saved AniList login.
type Account struct {
	ID           uint      `gorm:"primaryKey;column:id"`
	Username     string    `gorm:"column:username;type:varchar(64);uniqueIndex;not null"`
	UserID       int       `gorm:"column:user_id"`
	Token        string    `gorm:"column:token;type:text;not null"`
	ClientID     string    `gorm:"column:client_id;type:varchar(32)"`
	ClientSecret string    `gorm:"column:client_secret;type:varchar(128)"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}
