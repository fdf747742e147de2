package domain

import (
	"time"

	"gorm.io/datatypes"
)

// CREATE TABLE public.flags (
//     name        TEXT PRIMARY KEY,
//     position    INT NOT NULL DEFAULT 0,
//     attributes  JSONB NOT NULL DEFAULT '{}',
//     created_at  TIMESTAMPTZ DEFAULT NOW()
// );

// Flag is one country flag record. Name is the only identity; Attributes is
// sparse and a missing key means the value is unknown.
type Flag struct {
	Name       string            `gorm:"primaryKey;column:name;type:text" json:"name"`
	Position   int               `gorm:"column:position;not null;default:0" json:"-"`
	Attributes datatypes.JSONMap `gorm:"column:attributes;type:jsonb" json:"attributes"`
	CreatedAt  time.Time         `gorm:"column:created_at" json:"-"`
}

func (Flag) TableName() string {
	return "flags"
}

// Value returns the attribute stored under key. A nil value counts as absent.
func (f Flag) Value(key string) (any, bool) {
	if f.Attributes == nil {
		return nil, false
	}
	v, ok := f.Attributes[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

type FlagAttribute struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

type DetailValue struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}
