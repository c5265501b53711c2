package ingestion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aroucaleo/componente-B-C/internal/config"
	"github.com/aroucaleo/componente-B-C/internal/models"
	"github.com/aroucaleo/componente-B-C/internal/repository"
)

const testAPIKey = "test-api-key"

func testClient(baseURL string) *Client {
	return NewClient(config.CobliConfig{
		URL:       baseURL,
		APIKey:    testAPIKey,
		StartDate: "2023-05-01",
		EndDate:   "2023-10-01",
		Timezone:  "America/Sao_Paulo",
		PageSize:  1000,
		Timeout:   5 * time.Second,
	})
}

const sampleBody = `{"data":[
	{"driver": {"name": "Bob"}, "vehicle": {"license_plate": "ABC123"},
	 "event_type": "harsh_braking", "event_time": "2023-06-15T10:00:00Z"},
	{"driver": {"name": "Carol"}, "vehicle": {"license_plate": "XYZ789"},
	 "event_type": "speeding", "event_time": "2023-07-01T08:30:00Z"}
]}`

func TestClient_FetchEvents_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testAPIKey, r.Header.Get("cobli-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("accept"))
		assert.Equal(t, "2023-05-01", r.URL.Query().Get("start_date"))
		assert.Equal(t, "2023-10-01", r.URL.Query().Get("end_date"))
		assert.Equal(t, "America/Sao_Paulo", r.URL.Query().Get("timezone"))
		assert.Equal(t, "1000", r.URL.Query().Get("limit"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleBody))
	}))
	defer srv.Close()

	events, err := testClient(srv.URL).FetchEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "Bob", events[0].Driver.Name)
	assert.Equal(t, "ABC123", events[0].Vehicle.LicensePlate)
	assert.Equal(t, "harsh_braking", events[0].EventType)
}

func TestClient_FetchEvents_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchEvents(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code")
}

func TestClient_FetchEvents_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchEvents(context.Background())
	require.Error(t, err)
}

func TestMapEvent(t *testing.T) {
	ev := RiskEvent{EventType: "harsh_braking", EventTime: "2023-06-15T10:00:00Z"}
	ev.Driver.Name = "Bob"
	ev.Vehicle.LicensePlate = "ABC123"

	crise, err := mapEvent(ev)
	require.NoError(t, err)

	assert.Equal(t, "Bob", crise.Nome)
	assert.Equal(t, "harsh_braking for the vehicle license plate ABC123", crise.Detalhes)
	assert.Equal(t, "15/06/2023", crise.DataCrise)
	assert.Equal(t, 1, crise.Prazo)
}

func TestToBrazilianDate(t *testing.T) {
	tests := []struct {
		name      string
		eventTime string
		want      string
		wantErr   bool
	}{
		{name: "rfc3339", eventTime: "2023-06-15T10:00:00Z", want: "15/06/2023"},
		{name: "date only", eventTime: "2023-01-02", want: "02/01/2023"},
		{name: "too short", eventTime: "2023", wantErr: true},
		{name: "no dashes", eventTime: "15/06/2023T10", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := toBrazilianDate(tt.eventTime)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// memRepo is a minimal in-memory CriseRepository for ingestor and manager
// tests. Guarded by a mutex since pool workers call Add concurrently.
type memRepo struct {
	mu     sync.Mutex
	crises []models.Crise
	nextID int64
}

func (m *memRepo) Add(ctx context.Context, c *models.Crise) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.crises {
		if existing.Nome == c.Nome {
			return repository.ErrDuplicateNome
		}
	}
	m.nextID++
	c.ID = m.nextID
	m.crises = append(m.crises, *c)
	return nil
}

func (m *memRepo) GetByID(ctx context.Context, id int64) (*models.Crise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.crises {
		if c.ID == id {
			found := c
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memRepo) ListByPrazo(ctx context.Context) ([]models.Crise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Crise{}, m.crises...), nil
}

func (m *memRepo) ListByNome(ctx context.Context) ([]models.Crise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Crise{}, m.crises...), nil
}

func (m *memRepo) Update(ctx context.Context, c *models.Crise) error { return nil }

func (m *memRepo) Delete(ctx context.Context, id int64) error { return nil }

func TestIngestor_FetchAndStoreOne(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(sampleBody))
	}))
	defer srv.Close()

	repo := &memRepo{}
	ingestor := NewIngestor(testClient(srv.URL), repo)

	crise, err := ingestor.FetchAndStoreOne(context.Background())
	require.NoError(t, err)

	// Only the first page entry is stored
	require.Len(t, repo.crises, 1)
	assert.Equal(t, "Bob", crise.Nome)
	assert.NotZero(t, crise.ID)
}

func TestIngestor_FetchAndStoreOne_EmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	repo := &memRepo{}
	ingestor := NewIngestor(testClient(srv.URL), repo)

	_, err := ingestor.FetchAndStoreOne(context.Background())
	require.Error(t, err)
	assert.Empty(t, repo.crises)
}

func TestIngestor_FetchAndStoreOne_DuplicateDriver(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(sampleBody))
	}))
	defer srv.Close()

	repo := &memRepo{}
	ingestor := NewIngestor(testClient(srv.URL), repo)

	_, err := ingestor.FetchAndStoreOne(context.Background())
	require.NoError(t, err)

	// Same driver again hits the uniqueness constraint
	_, err = ingestor.FetchAndStoreOne(context.Background())
	assert.ErrorIs(t, err, repository.ErrDuplicateNome)
}
