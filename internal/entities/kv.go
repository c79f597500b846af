package entities

import "time"

// KVRecord is one row of the local key-value store. Records are
// namespaced by data kind and owner so that unrelated state never
// collides (e.g. "library:42" vs "progress:42").
type KVRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Namespace string    `gorm:"uniqueIndex:idx_kv_ns_key;size:128" json:"namespace"`
	Key       string    `gorm:"uniqueIndex:idx_kv_ns_key;size:256" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (KVRecord) TableName() string {
	return "kv_records"
}
