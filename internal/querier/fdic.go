package querier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"branchscope/internal/analysis"
)

// DefaultBaseURL is the FDIC BankFind API root.
const DefaultBaseURL = "https://banks.data.fdic.gov/api"

// fetchLimit is the page size for Summary of Deposits queries; county-level
// result sets stay well under it.
const fetchLimit = 10000

// FDICClient fetches Summary of Deposits records from the FDIC BankFind API.
type FDICClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewFDICClient creates an FDIC API client. baseURL falls back to
// DefaultBaseURL when empty.
func NewFDICClient(baseURL string, timeout time.Duration, logger *slog.Logger) *FDICClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FDICClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// sodResponse mirrors the relevant slice of the API's /sod payload.
type sodResponse struct {
	Data []struct {
		Data sodRecord `json:"data"`
	} `json:"data"`
}

type sodRecord struct {
	InstitutionName string  `json:"NAMEFULL"`
	Year            string  `json:"YEAR"`
	CountyState     string  `json:"CSA"`
	Branches        int64   `json:"BRNUM"`
	LMIBranches     int64   `json:"LMICT"`
	MMCTBranches    int64   `json:"MMCT"`
	Deposits        float64 `json:"DEPSUMBR"`
}

// Fetch implements Querier: one API call per (area, year) pair. Failures are
// wrapped in QueryFailure so the orchestrator can omit the pair and keep
// going.
func (c *FDICClient) Fetch(ctx context.Context, areaID string, year int) ([]analysis.BranchRecord, error) {
	q := url.Values{}
	q.Set("filters", fmt.Sprintf("YEAR:%d AND CSA:%q", year, areaID))
	q.Set("fields", "NAMEFULL,YEAR,CSA,BRNUM,LMICT,MMCT,DEPSUMBR")
	q.Set("limit", fmt.Sprintf("%d", fetchLimit))
	endpoint := fmt.Sprintf("%s/sod?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &QueryFailure{AreaID: areaID, Year: year, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &QueryFailure{AreaID: areaID, Year: year, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &QueryFailure{
			AreaID: areaID, Year: year,
			Err: fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body),
		}
	}

	var payload sodResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &QueryFailure{AreaID: areaID, Year: year, Err: fmt.Errorf("decode response: %w", err)}
	}

	records := make([]analysis.BranchRecord, 0, len(payload.Data))
	for _, d := range payload.Data {
		records = append(records, analysis.BranchRecord{
			Institution:      d.Data.InstitutionName,
			Year:             year,
			AreaID:           areaID,
			Branches:         d.Data.Branches,
			LMIBranches:      d.Data.LMIBranches,
			MinorityBranches: d.Data.MMCTBranches,
			Deposits:         d.Data.Deposits,
		})
	}

	c.logger.DebugContext(ctx, "fetched summary of deposits",
		slog.String("area", areaID),
		slog.Int("year", year),
		slog.Int("records", len(records)),
	)
	return records, nil
}
