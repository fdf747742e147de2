package domain

import (
	"fmt"
	"strings"
)

type FeatureKind string

const (
	FeatureDiscrete FeatureKind = "discrete"
	FeatureBoolean  FeatureKind = "boolean"
	FeatureNumeric  FeatureKind = "numeric"
)

func ParseFeatureKind(s string) (FeatureKind, error) {
	switch k := FeatureKind(strings.ToLower(strings.TrimSpace(s))); k {
	case FeatureDiscrete, FeatureBoolean, FeatureNumeric:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFeatureKind, s)
	}
}

// CREATE TABLE public.feature_weights (
//     feature_key  TEXT PRIMARY KEY,
//     position  INT NOT NULL DEFAULT 0,
//     weight    NUMERIC NOT NULL,
//     kind      TEXT NOT NULL
// );

type FeatureWeight struct {
	Key      string      `gorm:"primaryKey;column:feature_key;type:text" json:"key" yaml:"key"`
	Position int         `gorm:"column:position;not null;default:0" json:"-" yaml:"-"`
	Weight   float64     `gorm:"column:weight;type:numeric;not null" json:"weight" yaml:"weight"`
	Kind     FeatureKind `gorm:"column:kind;type:text;not null" json:"kind" yaml:"kind"`
}

func (FeatureWeight) TableName() string {
	return "feature_weights"
}
