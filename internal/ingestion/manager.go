package ingestion

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/aroucaleo/componente-B-C/internal/config"
	"github.com/aroucaleo/componente-B-C/internal/models"
	"github.com/aroucaleo/componente-B-C/internal/repository"
	"github.com/aroucaleo/componente-B-C/internal/worker"
)

// Manager runs the optional background poller. Each tick pulls one page of
// risk events and hands the mapped crises to the worker pool; duplicates
// (same driver already stored) are skipped quietly.
type Manager struct {
	cfg    *config.Config
	client *Client
	repo   repository.CriseRepository
	pool   *worker.Pool
	wg     sync.WaitGroup
}

func NewManager(cfg *config.Config, client *Client, repo repository.CriseRepository) *Manager {
	return &Manager{
		cfg:    cfg,
		client: client,
		repo:   repo,
	}
}

func (m *Manager) Start(ctx context.Context) {
	processor := func(ctx context.Context, job worker.Job) error {
		crise := job.(*models.Crise)

		err := m.repo.Add(ctx, crise)
		if errors.Is(err, repository.ErrDuplicateNome) {
			slog.Debug("skipping already stored crise", "nome", crise.Nome)
			return nil
		}
		if err != nil {
			slog.Error("error adding crise", "nome", crise.Nome, "error", err)
			return err
		}

		slog.Info("added crise from poller", "id", crise.ID, "nome", crise.Nome)
		return nil
	}

	m.pool = worker.NewPool(m.cfg.Worker.Count, m.cfg.Worker.BufferSize, processor)
	m.pool.Start(ctx)

	if m.cfg.Cobli.PollEnabled {
		m.wg.Add(1)
		go m.runPoller(ctx, m.cfg.Cobli.PollInterval)
	}
}

func (m *Manager) runPoller(ctx context.Context, interval time.Duration) {
	defer m.wg.Done()
	slog.Info("starting cobli poller", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("cobli poller shutting down")
			return
		case <-ticker.C:
			m.poll(ctx)
		}
	}
}

func (m *Manager) poll(ctx context.Context) {
	slog.Debug("polling cobli risk events")

	events, err := m.client.FetchEvents(ctx)
	if err != nil {
		slog.Error("poll failed", "error", err)
		return
	}
	if len(events) == 0 {
		slog.Debug("poll returned no events")
		return
	}

	// Default is the first entry only; COBLI_INGEST_ALL widens to the page.
	if !m.cfg.Cobli.IngestAll {
		events = events[:1]
	}

	submitted := 0
	for _, ev := range events {
		crise, err := mapEvent(ev)
		if err != nil {
			slog.Warn("skipping unmappable event", "error", err)
			continue
		}
		m.pool.Submit(crise)
		submitted++
	}

	slog.Debug("poll complete", "submitted", submitted)
}

func (m *Manager) Stop() {
	m.wg.Wait()
	m.pool.Stop()
	slog.Info("ingestion manager stopped")
}
