package directory

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"schoolmap/internal"
	"schoolmap/internal/config"
	"schoolmap/internal/util"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestGetSchoolsByStateWithRetryAndPagination(t *testing.T) {
	attempt := 0

	cfg, _ := config.Load()
	cfg.DirectoryAPIBaseURL = "https://example.test/api/v1"
	cfg.DirectoryRateLimitRPS = 1000
	cfg.DirectoryTimeoutMs = 30000

	client := NewClient(cfg)
	client.httpClient = &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if !strings.HasPrefix(r.URL.Path, "/api/v1/schools/ccd/directory/2022/") {
				t.Fatalf("unexpected path %s", r.URL.Path)
			}
			attempt++

			if attempt == 1 {
				return &http.Response{
					StatusCode: http.StatusInternalServerError,
					Body:       io.NopCloser(strings.NewReader(`{"error":"boom"}`)),
					Header:     make(http.Header),
				}, nil
			}

			payload := map[string]any{
				"count": 2,
				"next":  nil,
				"results": []map[string]any{
					{"ncessch": "390002", "school_name": "Lincoln High School", "state_location": "OH", "school_level": 3, "school_status": 1, "fips": 39},
				},
			}
			if attempt == 2 {
				payload = map[string]any{
					"count": 2,
					"next":  "https://example.test/api/v1/schools/ccd/directory/2022/?fips=39&page=2",
					"results": []map[string]any{
						{"ncessch": "390001", "school_name": "Central High School", "state_location": "OH", "school_level": 3, "school_status": 1, "fips": 39},
					},
				}
			}
			blob, _ := json.Marshal(payload)
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(string(blob))),
				Header:     make(http.Header),
			}, nil
		}),
	}

	schools, err := client.GetSchoolsByState(context.Background(), 2022, 39)
	if err != nil {
		t.Fatal(err)
	}
	if len(schools) != 2 {
		t.Fatalf("len=%d", len(schools))
	}
	if schools[0].NCESID != "390001" || schools[1].NCESID != "390002" {
		t.Fatalf("unexpected schools: %+v", schools)
	}
	if schools[0].State == nil || *schools[0].State != "OH" {
		t.Fatalf("state not parsed: %+v", schools[0])
	}
}

func TestGetSchoolsSkipsMalformedRows(t *testing.T) {
	cfg, _ := config.Load()
	cfg.DirectoryAPIBaseURL = "https://example.test/api/v1"
	cfg.DirectoryRateLimitRPS = 1000

	client := NewClient(cfg)
	client.httpClient = &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			payload := map[string]any{
				"count": 3,
				"next":  nil,
				"results": []map[string]any{
					{"ncessch": "390001", "school_name": "Central High School"},
					{"school_name": "No ID School"},
					{"ncessch": "390003", "school_name": "   "},
				},
			}
			blob, _ := json.Marshal(payload)
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(string(blob))),
				Header:     make(http.Header),
			}, nil
		}),
	}

	schools, err := client.GetSchoolsByState(context.Background(), 2022, 39)
	if err != nil {
		t.Fatal(err)
	}
	if len(schools) != 1 {
		t.Fatalf("len=%d, want 1", len(schools))
	}
}

func TestIsHighSchool(t *testing.T) {
	cases := []struct {
		name   string
		school internal.DirectorySchool
		want   bool
	}{
		{name: "high level", school: internal.DirectorySchool{SchoolLevel: util.IntPtr(3), SchoolStatus: util.IntPtr(1)}, want: true},
		{name: "other level", school: internal.DirectorySchool{SchoolLevel: util.IntPtr(4), SchoolStatus: util.IntPtr(1)}, want: true},
		{name: "grade reach", school: internal.DirectorySchool{SchoolLevel: util.IntPtr(2), HighestGrade: util.IntPtr(12), SchoolStatus: util.IntPtr(1)}, want: true},
		{name: "closed", school: internal.DirectorySchool{SchoolLevel: util.IntPtr(3), SchoolStatus: util.IntPtr(2)}, want: false},
		{name: "middle school", school: internal.DirectorySchool{SchoolLevel: util.IntPtr(2), HighestGrade: util.IntPtr(8), SchoolStatus: util.IntPtr(1)}, want: false},
		{name: "no status known", school: internal.DirectorySchool{SchoolLevel: util.IntPtr(3)}, want: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsHighSchool(tc.school); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}
