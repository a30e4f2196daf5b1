package reputation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dshills/callerid-mcp/internal/metrics"
	"github.com/dshills/callerid-mcp/internal/normalize"
	"github.com/dshills/callerid-mcp/internal/storage"
	"github.com/dshills/callerid-mcp/pkg/types"
)

// recentWindow bounds SpamStatus.RecentReportsCount
const recentWindow = 30 * 24 * time.Hour

// Service is the spam report write path plus the read-only status and
// statistics views. Every write invalidates the number's cached score
// before the new score is read back.
type Service struct {
	store  storage.Storage
	scorer *Scorer
	now    func() time.Time
}

// NewService creates a Service
func NewService(store storage.Storage, scorer *Scorer) *Service {
	return &Service{
		store:  store,
		scorer: scorer,
		now:    time.Now,
	}
}

// Scorer returns the scorer the service invalidates
func (s *Service) Scorer() *Scorer {
	return s.scorer
}

// reporter resolves the requesting account. An unknown id is treated as
// an unauthenticated request.
func (s *Service) reporter(ctx context.Context, requesterID string) (*types.Account, error) {
	if requesterID == "" {
		return nil, types.ErrUnauthenticated
	}
	account, err := s.store.GetAccount(ctx, requesterID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, types.ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load requester: %w", err)
	}
	return account, nil
}

// Report records an active spam report from requesterID against rawPhone
func (s *Service) Report(ctx context.Context, requesterID, rawPhone string) (*types.ReportOutcome, error) {
	outcome, err := s.report(ctx, requesterID, rawPhone)
	metrics.SpamReports.WithLabelValues("report", outcomeLabel(err)).Inc()
	return outcome, err
}

func (s *Service) report(ctx context.Context, requesterID, rawPhone string) (*types.ReportOutcome, error) {
	phone, err := normalize.PhoneQuery(rawPhone)
	if err != nil {
		return nil, err
	}
	account, err := s.reporter(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if account.PhoneNumber == phone {
		return nil, types.ErrSelfReport
	}

	report, err := s.store.CreateSpamReport(ctx, account.ID, phone)
	if err != nil {
		return nil, err
	}
	slog.Info("spam reported", "phone", phone, "reporter", account.ID, "report", report.ID)

	s.scorer.Invalidate(ctx, phone)
	score, err := s.scorer.Score(ctx, phone)
	if err != nil {
		return nil, err
	}

	return &types.ReportOutcome{
		ReportID:       report.ID,
		PhoneNumber:    phone,
		SpamLikelihood: score,
	}, nil
}

// Retract deactivates requesterID's active report against rawPhone
func (s *Service) Retract(ctx context.Context, requesterID, rawPhone string) (*types.ReportOutcome, error) {
	outcome, err := s.retract(ctx, requesterID, rawPhone)
	metrics.SpamReports.WithLabelValues("retract", outcomeLabel(err)).Inc()
	return outcome, err
}

func (s *Service) retract(ctx context.Context, requesterID, rawPhone string) (*types.ReportOutcome, error) {
	phone, err := normalize.PhoneQuery(rawPhone)
	if err != nil {
		return nil, err
	}
	account, err := s.reporter(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	if err := s.store.RetractSpamReport(ctx, account.ID, phone); err != nil {
		return nil, err
	}
	slog.Info("spam report retracted", "phone", phone, "reporter", account.ID)

	s.scorer.Invalidate(ctx, phone)
	score, err := s.scorer.Score(ctx, phone)
	if err != nil {
		return nil, err
	}

	return &types.ReportOutcome{
		PhoneNumber:    phone,
		SpamLikelihood: score,
	}, nil
}

// Status summarizes rawPhone's reputation as seen by requesterID
func (s *Service) Status(ctx context.Context, requesterID, rawPhone string) (*types.SpamStatus, error) {
	phone, err := normalize.PhoneQuery(rawPhone)
	if err != nil {
		return nil, err
	}
	account, err := s.reporter(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	status := &types.SpamStatus{PhoneNumber: phone}

	if status.SpamLikelihood, err = s.scorer.Score(ctx, phone); err != nil {
		return nil, err
	}
	if status.TotalReports, err = s.store.CountActiveSpamReports(ctx, phone); err != nil {
		return nil, err
	}
	if status.RecentReportsCount, err = s.store.CountActiveSpamReportsSince(ctx, phone, s.now().Add(-recentWindow)); err != nil {
		return nil, err
	}
	if status.ReportedByUser, err = s.store.HasActiveSpamReport(ctx, account.ID, phone); err != nil {
		return nil, err
	}
	if status.IsUserContact, err = s.store.HasContact(ctx, account.ID, phone); err != nil {
		return nil, err
	}

	return status, nil
}

// Statistics summarizes all active reports
func (s *Service) Statistics(ctx context.Context) (*types.SpamStatistics, error) {
	stats, err := s.store.SpamStatistics(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to compute spam statistics: %w", err)
	}
	return stats, nil
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, types.ErrDuplicateReport):
		return "duplicate"
	case errors.Is(err, types.ErrNotFound):
		return "not_found"
	case errors.Is(err, types.ErrInvalidQuery), errors.Is(err, types.ErrSelfReport):
		return "invalid"
	case errors.Is(err, types.ErrUnauthenticated):
		return "unauthenticated"
	default:
		return "error"
	}
}
