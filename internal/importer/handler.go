package importer

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/netip"
	"time"

	"go.uber.org/zap"

	"github.com/rize-social/rize/internal/model"
	"github.com/rize-social/rize/internal/observability"
	"github.com/rize-social/rize/internal/outbound"
	"github.com/rize-social/rize/internal/tx"
)

const maxDocument = 2 << 20

// ErrFetch wraps failures to download or decode the source document.
var ErrFetch = errors.New("import source unavailable")

// Handler consumes import requests. Redelivery is safe: a succeeded job is
// skipped and rows already present are not inserted twice.
type Handler struct {
	Jobs     JobStore
	Tx       tx.Transactor
	Client   *http.Client
	Profiles ProfileEvicter
}

// ProfileEvicter drops cached profile reads once an import changed the
// profile row.
type ProfileEvicter interface {
	Evict(ctx context.Context, profileID string) error
}

// NewHandler fetches source documents from public addresses only; allow
// exempts internal ranges.
func NewHandler(jobs JobStore, transactor tx.Transactor, profiles ProfileEvicter, timeout time.Duration, allow ...netip.Prefix) *Handler {
	return &Handler{
		Jobs:     jobs,
		Tx:       transactor,
		Client:   outbound.NewClient(outbound.Options{Timeout: timeout, Allow: allow}),
		Profiles: profiles,
	}
}

func (h *Handler) Handle(ctx context.Context, value []byte) error {
	var req model.ImportRequested
	if err := json.Unmarshal(value, &req); err != nil || req.JobID == "" {
		// Retrying cannot fix a malformed payload.
		observability.GetLogger(ctx).Error("bad import payload", zap.ByteString("value", value), zap.Error(err))
		return nil
	}
	log := observability.GetLogger(ctx).With(zap.String("job_id", req.JobID))

	started, err := h.Jobs.MarkRunning(ctx, req.JobID)
	if err != nil {
		return fmt.Errorf("mark job running: %w", err)
	}
	if !started {
		log.Info("import job already finished, skipping")
		return nil
	}

	imported, err := h.run(ctx, req)
	if err != nil {
		if ferr := h.Jobs.Finish(ctx, nil, req.JobID, model.ImportFailed, 0, err.Error()); ferr != nil {
			log.Error("record import failure", zap.Error(ferr))
		}
		observability.ImportJobsTotal.WithLabelValues(string(model.ImportFailed)).Inc()
		return err
	}

	observability.ImportJobsTotal.WithLabelValues(string(model.ImportSucceeded)).Inc()
	log.Info("import job succeeded", zap.Int("imported", imported))

	if h.Profiles != nil {
		if err := h.Profiles.Evict(ctx, req.ProfileID); err != nil {
			log.Warn("profile cache eviction after import failed", zap.Error(err))
		}
	}
	return nil
}

func (h *Handler) run(ctx context.Context, req model.ImportRequested) (int, error) {
	resume, err := h.fetch(ctx, req.SourceURL)
	if err != nil {
		return 0, err
	}

	imported := 0
	err = h.Tx.WithTx(ctx, func(ctx context.Context, dbtx *sql.Tx) error {
		imported = 0
		for _, e := range resume.Experience(req.ProfileID) {
			ok, err := h.Jobs.InsertExperienceIfAbsent(ctx, dbtx, &e)
			if err != nil {
				return fmt.Errorf("import experience: %w", err)
			}
			if ok {
				imported++
			}
		}
		for _, e := range resume.EducationEntries(req.ProfileID) {
			ok, err := h.Jobs.InsertEducationIfAbsent(ctx, dbtx, &e)
			if err != nil {
				return fmt.Errorf("import education: %w", err)
			}
			if ok {
				imported++
			}
		}
		if resume.Basics.Summary != "" {
			if err := h.Jobs.SetSummaryIfEmpty(ctx, dbtx, req.ProfileID, resume.Basics.Summary); err != nil {
				return err
			}
		}
		return h.Jobs.Finish(ctx, dbtx, req.JobID, model.ImportSucceeded, imported, "")
	})
	return imported, err
}

func (h *Handler) fetch(ctx context.Context, url string) (*Resume, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrFetch, resp.StatusCode)
	}

	var r Resume
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxDocument)).Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: decode resume: %v", ErrFetch, err)
	}
	return &r, nil
}
