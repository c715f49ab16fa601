package standardize

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"schoolmap/internal"
)

// Prep and basketball academies that frequency grouping cannot resolve:
// their spellings vary across rosters but rarely collide within a state.
// Curated by hand; the YAML file from configuration replaces this table
// when present.
var defaultCurated = []internal.CuratedSchool{
	{OriginalName: "IMG Academy", StandardizedName: "IMG Academy", State: "FL", City: "Bradenton"},
	{OriginalName: "IMG", StandardizedName: "IMG Academy", State: "FL", City: "Bradenton"},
	{OriginalName: "Montverde Academy", StandardizedName: "Montverde Academy", State: "FL", City: "Montverde"},
	{OriginalName: "Montverde", StandardizedName: "Montverde Academy", State: "FL", City: "Montverde"},
	{OriginalName: "Oak Hill Academy", StandardizedName: "Oak Hill Academy", State: "VA", City: "Mouth of Wilson"},
	{OriginalName: "La Lumiere School", StandardizedName: "La Lumiere School", State: "IN", City: "La Porte"},
	{OriginalName: "La Lumiere", StandardizedName: "La Lumiere School", State: "IN", City: "La Porte"},
	{OriginalName: "Hamilton Heights Christian Academy", StandardizedName: "Hamilton Heights Christian Academy", State: "TN", City: "Chattanooga"},
	{OriginalName: "Sunrise Christian Academy", StandardizedName: "Sunrise Christian Academy", State: "KS", City: "Bel Aire"},
	{OriginalName: "Sunrise Christian", StandardizedName: "Sunrise Christian Academy", State: "KS", City: "Bel Aire"},
	{OriginalName: "Findlay Prep", StandardizedName: "Findlay Prep", State: "NV", City: "Henderson"},
	{OriginalName: "Long Island Lutheran", StandardizedName: "Long Island Lutheran High School", State: "NY", City: "Brookville"},
	{OriginalName: "Long Island Lutheran HS", StandardizedName: "Long Island Lutheran High School", State: "NY", City: "Brookville"},
	{OriginalName: "New Hope Academy", StandardizedName: "New Hope Academy", State: "MD", City: "Landover Hills"},
	{OriginalName: "Blair Academy", StandardizedName: "Blair Academy", State: "NJ", City: "Blairstown"},
	{OriginalName: "DeMatha Catholic", StandardizedName: "DeMatha Catholic High School", State: "MD", City: "Hyattsville"},
}

// LoadCurated returns the manual mapping list. Empty path means the
// built-in table.
func LoadCurated(path string) ([]internal.CuratedSchool, error) {
	if path == "" {
		out := make([]internal.CuratedSchool, len(defaultCurated))
		copy(out, defaultCurated)
		return out, nil
	}

	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var out []internal.CuratedSchool
	if err := yaml.Unmarshal(blob, &out); err != nil {
		return nil, fmt.Errorf("parse curated file %s: %w", path, err)
	}
	for i, c := range out {
		if c.OriginalName == "" || c.StandardizedName == "" {
			return nil, fmt.Errorf("curated file %s: entry %d missing original or standardized name", path, i)
		}
	}
	return out, nil
}
