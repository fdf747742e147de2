package gallery

const DefaultAssetKey = "default.svg"

// Resolver maps flag names to gallery asset keys by exact lookup of the
// canonical name.
type Resolver struct {
	index      map[string]string
	defaultKey string
}

func NewResolver(index map[string]string, defaultKey string) *Resolver {
	if defaultKey == "" {
		defaultKey = DefaultAssetKey
	}

	normalized := make(map[string]string, len(index))
	for name, key := range index {
		normalized[normalizeText(name)] = key
	}

	return &Resolver{
		index:      normalized,
		defaultKey: defaultKey,
	}
}

// Resolve returns the asset key for name, or the placeholder and false.
func (r *Resolver) Resolve(name string) (string, bool) {
	if key, ok := r.index[Canonicalize(name)]; ok {
		return key, true
	}
	return r.defaultKey, false
}

func (r *Resolver) AssetKey(name string) string {
	key, _ := r.Resolve(name)
	return key
}

func (r *Resolver) DefaultKey() string {
	return r.defaultKey
}

func (r *Resolver) Len() int {
	return len(r.index)
}
