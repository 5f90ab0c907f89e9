package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/hosteldesk/hosteldesk-backend/internal/authz"
	pkgerrors "github.com/hosteldesk/hosteldesk-backend/pkg/errors"
)

// Service derives the reporting aggregates. All operations are pure reads.
type Service interface {
	PublicStats(ctx context.Context) (*PublicStats, error)
	SLAStats(ctx context.Context, actor authz.Actor) (*SLAStats, error)
	Heatmap(ctx context.Context, actor authz.Actor) ([]HeatmapEntry, error)
	ExportCSV(ctx context.Context, actor authz.Actor) ([]byte, error)
}

type service struct {
	repo *Repository
}

// NewService wires the reporting dependencies.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "reports repository required")
	}
	return &service{repo: repo}, nil
}

// PublicStats is deliberately unscoped: it backs the public landing page.
func (s *service) PublicStats(ctx context.Context) (*PublicStats, error) {
	total, err := s.repo.CountTotal(ctx, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count complaints")
	}
	resolved, err := s.repo.CountResolved(ctx, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count resolved complaints")
	}
	avg, err := s.avgResolutionHours(ctx, nil)
	if err != nil {
		return nil, err
	}

	return &PublicStats{
		Total:              total,
		Resolved:           resolved,
		Pending:            total - resolved,
		AvgResolutionHours: avg,
	}, nil
}

func (s *service) SLAStats(ctx context.Context, actor authz.Actor) (*SLAStats, error) {
	if err := authz.CanAccessReports(actor); err != nil {
		return nil, err
	}
	scope := authz.ReportScopeFor(actor)

	total, err := s.repo.CountTotal(ctx, scope.HostelID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count complaints")
	}
	resolved, err := s.repo.CountResolved(ctx, scope.HostelID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count resolved complaints")
	}
	breached, err := s.repo.CountBreached(ctx, scope.HostelID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count breached complaints")
	}
	avg, err := s.avgResolutionHours(ctx, scope.HostelID)
	if err != nil {
		return nil, err
	}

	return &SLAStats{
		Total:              total,
		Resolved:           resolved,
		Breached:           breached,
		ResolvedWithinSLA:  resolved - breached,
		AvgResolutionHours: avg,
	}, nil
}

func (s *service) Heatmap(ctx context.Context, actor authz.Actor) ([]HeatmapEntry, error) {
	if err := authz.CanAccessReports(actor); err != nil {
		return nil, err
	}
	scope := authz.ReportScopeFor(actor)

	entries, err := s.repo.Heatmap(ctx, scope.HostelID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "group complaints by area")
	}
	return entries, nil
}

var csvHeader = []string{
	"id", "title", "description", "category", "area", "status",
	"reporter_email", "hostel_name", "created_at", "updated_at",
}

func (s *service) ExportCSV(ctx context.Context, actor authz.Actor) ([]byte, error) {
	if err := authz.CanAccessReports(actor); err != nil {
		return nil, err
	}
	scope := authz.ReportScopeFor(actor)

	complaints, err := s.repo.ListForExport(ctx, scope.HostelID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list complaints for export")
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(csvHeader); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write csv header")
	}
	for i := range complaints {
		c := &complaints[i]
		reporterEmail := ""
		if c.Reporter != nil {
			reporterEmail = c.Reporter.Email
		}
		hostelName := ""
		if c.Hostel != nil {
			hostelName = c.Hostel.Name
		}
		row := []string{
			c.ID.String(),
			c.Title,
			c.Description,
			c.Category,
			c.Area,
			c.Status.String(),
			reporterEmail,
			hostelName,
			c.CreatedAt.UTC().Format(time.RFC3339),
			c.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write csv row")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "flush csv")
	}
	return buf.Bytes(), nil
}

// avgResolutionHours is the mean resolution time over resolved complaints,
// 0 when none, rounded to two decimals.
func (s *service) avgResolutionHours(ctx context.Context, hostelID *uuid.UUID) (float64, error) {
	spans, err := s.repo.ResolutionSpans(ctx, hostelID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load resolution spans")
	}
	if len(spans) == 0 {
		return 0, nil
	}

	var totalHours float64
	for _, span := range spans {
		totalHours += span.ResolvedAt.Sub(span.CreatedAt).Hours()
	}
	avg := totalHours / float64(len(spans))
	return math.Round(avg*100) / 100, nil
}
