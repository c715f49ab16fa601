package standardize

import (
	"schoolmap/internal"
	"schoolmap/internal/util"
)

// BuildProfiles annotates records with their normalized key and
// classification. Input order is preserved.
func BuildProfiles(records []internal.RawNameRecord) []internal.SchoolProfile {
	out := make([]internal.SchoolProfile, 0, len(records))
	for _, rec := range records {
		key := util.NormalizeName(rec.OriginalName)
		out = append(out, internal.SchoolProfile{
			RawNameRecord: rec,
			NormalizedKey: key,
			Disambiguator: ExtractDisambiguator(rec.OriginalName),
			Type:          ClassifyType(rec.OriginalName),
			CommonName:    IsCommonName(key),
		})
	}
	return out
}
