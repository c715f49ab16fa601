package internal

type SchoolType string

const (
	SchoolPublic        SchoolType = "public"
	SchoolPrivate       SchoolType = "private"
	SchoolPrep          SchoolType = "prep"
	SchoolInternational SchoolType = "international"
	SchoolUnknown       SchoolType = "unknown"
)

type Confidence string

type MappingSource string

const (
	ConfidenceHighAuto   Confidence = "high_auto"
	ConfidenceHighManual Confidence = "high_manual"

	SourceDuplicateResolution MappingSource = "duplicate_resolution"
	SourcePrepSchoolCurated   MappingSource = "prep_school_curated"
)

// RawNameRecord is one exact roster spelling with its aggregate metadata.
type RawNameRecord struct {
	OriginalName    string
	State           string
	Country         string
	OccurrenceCount int
}

// SchoolProfile is a RawNameRecord annotated with normalization and
// classification results.
type SchoolProfile struct {
	RawNameRecord
	NormalizedKey string
	Disambiguator string
	Type          SchoolType
	CommonName    bool
}

// DuplicateGroup is a set of distinct raw spellings that share the same
// normalized key within one state. Always has at least two members.
type DuplicateGroup struct {
	NormalizedKey string
	State         string
	Members       []RawNameRecord
}

type MappingEntry struct {
	OriginalName     string
	StandardizedName string
	State            string
	Confidence       Confidence
	Source           MappingSource
	NCESID           *string
}

type CuratedSchool struct {
	OriginalName     string `yaml:"original"`
	StandardizedName string `yaml:"standardized"`
	State            string `yaml:"state"`
	City             string `yaml:"city,omitempty"`
}

// MappingConflict records an original name mapped by both sources to
// different canonical names. Reported, never silently resolved.
type MappingConflict struct {
	OriginalName string
	AutoName     string
	CuratedName  string
}

type DirectorySchool struct {
	NCESID       string
	Name         string
	DistrictName *string
	DistrictID   *string
	Street       *string
	City         *string
	State        *string
	Zip          *string
	Phone        *string
	County       *string
	SchoolLevel  *int
	LowestGrade  *int
	HighestGrade *int
	SchoolStatus *int
	Enrollment   *int
	FIPS         int
	Year         int
	RawJSON      string
}

type CoverageReport struct {
	TotalSchools      int
	MappedSchools     int
	TotalOccurrences  int
	MappedOccurrences int
	Unmapped          []SchoolProfile
}

func (r CoverageReport) SchoolCoverage() float64 {
	if r.TotalSchools == 0 {
		return 0
	}
	return float64(r.MappedSchools) / float64(r.TotalSchools)
}

func (r CoverageReport) OccurrenceCoverage() float64 {
	if r.TotalOccurrences == 0 {
		return 0
	}
	return float64(r.MappedOccurrences) / float64(r.TotalOccurrences)
}
