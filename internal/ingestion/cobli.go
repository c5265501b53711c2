package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aroucaleo/componente-B-C/internal/config"
	"github.com/aroucaleo/componente-B-C/internal/models"
	"github.com/aroucaleo/componente-B-C/internal/repository"
)

// RiskEvent is one entry of the Cobli risk-events page.
type RiskEvent struct {
	Driver struct {
		Name string `json:"name"`
	} `json:"driver"`
	Vehicle struct {
		LicensePlate string `json:"license_plate"`
	} `json:"vehicle"`
	EventType string `json:"event_type"`
	EventTime string `json:"event_time"` // RFC 3339
}

type riskEventsResponse struct {
	Data []RiskEvent `json:"data"`
}

// Client calls the Cobli risk-events API over a fixed date window.
type Client struct {
	baseURL    string
	apiKey     string
	startDate  string
	endDate    string
	timezone   string
	pageSize   int
	httpClient *http.Client
}

func NewClient(cfg config.CobliConfig) *Client {
	return &Client{
		baseURL:   cfg.URL,
		apiKey:    cfg.APIKey,
		startDate: cfg.StartDate,
		endDate:   cfg.EndDate,
		timezone:  cfg.Timezone,
		pageSize:  cfg.PageSize,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// FetchEvents pulls one page of risk events. Anything other than HTTP 200,
// or a body that does not decode, is an error; no retries.
func (c *Client) FetchEvents(ctx context.Context) ([]RiskEvent, error) {
	params := url.Values{
		"start_date": {c.startDate},
		"end_date":   {c.endDate},
		"timezone":   {c.timezone},
		"limit":      {fmt.Sprintf("%d", c.pageSize)},
		"page":       {"1"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("cobli-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error while doing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d - status: %s", resp.StatusCode, resp.Status)
	}

	var data riskEventsResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("error decoding resp.Body: %w", err)
	}

	return data.Data, nil
}

// mapEvent projects one risk event onto the crises schema. The deadline is
// fixed at one day for ingested events.
func mapEvent(ev RiskEvent) (*models.Crise, error) {
	dataCrise, err := toBrazilianDate(ev.EventTime)
	if err != nil {
		return nil, err
	}

	return &models.Crise{
		Nome:      ev.Driver.Name,
		DataCrise: dataCrise,
		Prazo:     1,
		Detalhes:  ev.EventType + " for the vehicle license plate " + ev.Vehicle.LicensePlate,
		CreatedAt: time.Now(),
	}, nil
}

// toBrazilianDate rearranges the YYYY-MM-DD prefix of an event timestamp
// into DD/MM/YYYY.
func toBrazilianDate(eventTime string) (string, error) {
	if len(eventTime) < 10 {
		return "", fmt.Errorf("event_time too short: %q", eventTime)
	}
	parts := strings.Split(eventTime[:10], "-")
	if len(parts) != 3 {
		return "", fmt.Errorf("malformed event_time date: %q", eventTime)
	}
	return parts[2] + "/" + parts[1] + "/" + parts[0], nil
}

// Ingestor pulls risk events and stores them as crises through the same
// create path the HTTP handlers use.
type Ingestor struct {
	client *Client
	repo   repository.CriseRepository
}

func NewIngestor(client *Client, repo repository.CriseRepository) *Ingestor {
	return &Ingestor{
		client: client,
		repo:   repo,
	}
}

// FetchAndStoreOne ingests exactly the first event of the current page.
// Events beyond index 0 are ignored here; the background poller can be
// configured to take the whole page instead.
func (i *Ingestor) FetchAndStoreOne(ctx context.Context) (*models.Crise, error) {
	events, err := i.client.FetchEvents(ctx)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("risk-events response has no data entries")
	}

	crise, err := mapEvent(events[0])
	if err != nil {
		return nil, err
	}

	if err := i.repo.Add(ctx, crise); err != nil {
		return nil, err
	}

	return crise, nil
}
