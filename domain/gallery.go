package domain

// CREATE TABLE public.gallery (
//     name       TEXT PRIMARY KEY,
//     asset_key  TEXT NOT NULL
// );

type GalleryEntry struct {
	Name     string `gorm:"primaryKey;column:name;type:text" json:"name"`
	AssetKey string `gorm:"column:asset_key;type:text;not null" json:"asset_key"`
}

func (GalleryEntry) TableName() string {
	return "gallery"
}

// Dataset is everything a matrix build needs, loaded once from a source.
type Dataset struct {
	Flags    []Flag            `json:"flags"`
	Features []FeatureWeight   `json:"features"`
	Gallery  map[string]string `json:"gallery"`
}
