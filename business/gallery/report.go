package gallery

import "flagCompare/domain"

// UnresolvedReport lists, in dataset order, the flags that fall back to the
// placeholder asset.
func UnresolvedReport(flags []domain.Flag, r *Resolver) []string {
	res := []string{}
	for _, f := range flags {
		if _, ok := r.Resolve(f.Name); !ok {
			res = append(res, f.Name)
		}
	}
	return res
}
