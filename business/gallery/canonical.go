package gallery

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// abbreviations are applied in order, first occurrence only.
var abbreviations = []struct {
	old string
	new string
}{
	{"Is.", "Islands"},
	{"St.", "Saint"},
	{"Rep.", "Republic"},
	{"Eq.", "Equatorial"},
}

// aliases maps dataset names to the gallery's vocabulary.
var aliases = map[string]string{
	"Antigua Barbuda":       "Antigua and Barbuda",
	"Cabo Verde":            "Cape Verde",
	"eSwatini":              "Eswatini",
	"Faeroe Islands":        "Faroe Islands",
	"Fr. Polynesia":         "French Polynesia",
	"Guinea-Bissau":         "Guinea",
	"N. Mariana Islands":    "Northern Mariana Islands",
	"Saint Vin. and Gren.":  "Saint Vincent and the Grenadines",
	"São Tomé and Principe": "São Tomé and Príncipe",
	"U.S. Virgin Islands":   "Virgin Islands",
	"Vatican":               "Vatican City",
}

// Canonicalize rewrites a flag name into the gallery's naming scheme.
func Canonicalize(name string) string {
	s := normalizeText(name)
	for _, a := range abbreviations {
		s = strings.Replace(s, a.old, a.new, 1)
	}
	if alias, ok := aliases[s]; ok {
		return alias
	}
	return s
}

func normalizeText(s string) string {
	s = norm.NFC.String(s)
	return strings.Join(strings.Fields(s), " ")
}
