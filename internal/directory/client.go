package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"schoolmap/internal"
	"schoolmap/internal/config"
	"schoolmap/internal/util"
)

// Client talks to the Urban Institute Education Data API, which serves
// the NCES Common Core of Data school directory.
type Client struct {
	cfg        config.Config
	httpClient *http.Client
	limiter    *RateLimiter
}

type directoryPage struct {
	Count   *int             `json:"count"`
	Next    *string          `json:"next"`
	Results []map[string]any `json:"results"`
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.DirectoryTimeoutMs) * time.Millisecond},
		limiter:    NewRateLimiter(cfg.DirectoryRateLimitRPS),
	}
}

// GetSchoolsByState downloads one state's directory rows for a year,
// following pagination to the end.
func (c *Client) GetSchoolsByState(ctx context.Context, year, fips int) ([]internal.DirectorySchool, error) {
	return c.getSchools(ctx, year, map[string]string{"fips": strconv.Itoa(fips)})
}

// GetSchoolsAll downloads the whole directory for a year. Slower and
// less reliable than per-state download; used as the fallback.
func (c *Client) GetSchoolsAll(ctx context.Context, year int) ([]internal.DirectorySchool, error) {
	return c.getSchools(ctx, year, map[string]string{"per_page": strconv.Itoa(c.cfg.DirectoryPerPage)})
}

func (c *Client) getSchools(ctx context.Context, year int, params map[string]string) ([]internal.DirectorySchool, error) {
	pageURL, err := c.directoryURL(year, params)
	if err != nil {
		return nil, err
	}

	all := make([]internal.DirectorySchool, 0)
	seen := map[string]struct{}{}

	for pageURL != "" {
		body, err := c.fetchJSON(ctx, pageURL)
		if err != nil {
			return nil, err
		}

		var page directoryPage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, err
		}

		for _, raw := range page.Results {
			school, err := toDirectorySchool(raw, year)
			if err != nil {
				continue
			}
			all = append(all, school)
		}

		if page.Next == nil || *page.Next == "" || len(page.Results) == 0 {
			break
		}
		if _, ok := seen[*page.Next]; ok {
			break
		}
		seen[*page.Next] = struct{}{}
		pageURL = *page.Next
	}

	return all, nil
}

func (c *Client) directoryURL(year int, params map[string]string) (string, error) {
	base := strings.TrimRight(c.cfg.DirectoryAPIBaseURL, "/")
	u, err := url.Parse(fmt.Sprintf("%s/schools/ccd/directory/%d/", base, year))
	if err != nil {
		return "", err
	}

	q := u.Query()
	for k, v := range params {
		if strings.TrimSpace(v) != "" {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) fetchJSON(ctx context.Context, rawURL string) ([]byte, error) {
	var body []byte

	op := func() error {
		c.limiter.WaitTurn()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}

		blob, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return readErr
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			err := fmt.Errorf("directory api error: status=%d url=%s", resp.StatusCode, rawURL)
			if isRetryableStatus(resp.StatusCode) {
				return err
			}
			return backoff.Permanent(err)
		}

		body = blob
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxElapsedTime = 2 * time.Minute

	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		return nil, err
	}
	return body, nil
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

func toDirectorySchool(raw map[string]any, year int) (internal.DirectorySchool, error) {
	ncessch, _ := raw["ncessch"].(string)
	ncessch = strings.TrimSpace(ncessch)
	if ncessch == "" {
		return internal.DirectorySchool{}, fmt.Errorf("missing ncessch")
	}

	name, _ := raw["school_name"].(string)
	name = strings.TrimSpace(name)
	if name == "" {
		return internal.DirectorySchool{}, fmt.Errorf("empty school_name")
	}

	rawJSON, _ := json.Marshal(raw)
	school := internal.DirectorySchool{
		NCESID:  ncessch,
		Name:    name,
		Year:    year,
		RawJSON: string(rawJSON),
	}
	school.DistrictName = toStringPtr(raw["lea_name"])
	school.DistrictID = toStringPtr(raw["leaid"])
	school.Street = toStringPtr(raw["street_location"])
	school.City = toStringPtr(raw["city_location"])
	school.State = toStringPtr(raw["state_location"])
	school.Zip = toStringPtr(raw["zip_location"])
	school.Phone = toStringPtr(raw["phone"])
	school.County = toStringPtr(raw["county_name"])
	school.SchoolLevel = toIntPtr(raw["school_level"])
	school.LowestGrade = toIntPtr(raw["lowest_grade"])
	school.HighestGrade = toIntPtr(raw["highest_grade"])
	school.SchoolStatus = toIntPtr(raw["school_status"])
	school.Enrollment = toIntPtr(raw["enrollment"])
	if fips, ok := toInt(raw["fips"]); ok {
		school.FIPS = fips
	}

	return school, nil
}

// IsHighSchool applies the CCD filter: open schools that are level high
// or other, or that reach at least grade 9.
func IsHighSchool(s internal.DirectorySchool) bool {
	if s.SchoolStatus != nil && *s.SchoolStatus != 1 {
		return false
	}
	if s.SchoolLevel != nil && (*s.SchoolLevel == 3 || *s.SchoolLevel == 4) {
		return true
	}
	if s.HighestGrade != nil && *s.HighestGrade >= 9 {
		return true
	}
	return false
}

func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case json.Number:
		i, err := t.Int64()
		return int(i), err == nil
	default:
		return 0, false
	}
}

func toIntPtr(v any) *int {
	if i, ok := toInt(v); ok {
		return util.IntPtr(i)
	}
	return nil
}

func toStringPtr(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return util.StringPtr(s)
}
