package model

import "time"

// KVEntry is one value of the key-value durability layer.
type KVEntry struct {
	Key       string    `gorm:"primaryKey;size:128"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
