package application

import (
	"context"
	"log/slog"
	"strings"
)

// MatchSchemes returns the subset of catalog records satisfying the query, in
// catalog order. A record passes a criterion dimension when the record carries
// no set for it, or when the set contains the query value exactly. Comparison
// is case-sensitive and literal: an empty query value only passes a dimension
// that is unconstrained or explicitly lists the empty string.
func MatchSchemes(query EligibilityQuery, catalog []SchemeRecord) []SchemeRecord {
	matched := make([]SchemeRecord, 0)
	for _, record := range catalog {
		if !passesCriterion(record.BusinessType, query.BusinessType) {
			continue
		}
		if !passesCriterion(record.Sector, query.Sector) {
			continue
		}
		if !passesCriterion(record.Size, query.Size) {
			continue
		}
		if !passesCriterion(record.Location, query.Location) {
			continue
		}
		if !passesCriterion(record.Revenue, query.Revenue) {
			continue
		}
		if !passesCriterion(record.Years, query.Years) {
			continue
		}
		matched = append(matched, record)
	}
	return matched
}

// passesCriterion reports whether a single dimension accepts the query value.
// An absent set imposes no constraint.
func passesCriterion(accepted []string, value string) bool {
	if len(accepted) == 0 {
		return true
	}
	for _, candidate := range accepted {
		if candidate == value {
			return true
		}
	}
	return false
}

// MatcherService answers eligibility and browsing queries over the static
// scheme catalog. It holds no mutable state; every method is a read-only pass
// over the catalog slice captured at construction.
type MatcherService struct {
	catalog []SchemeRecord
	logger  *slog.Logger
}

// NewMatcherService wraps the supplied catalog. The slice is copied so later
// mutation by the caller cannot change match results.
func NewMatcherService(catalog []SchemeRecord, logger *slog.Logger) *MatcherService {
	records := make([]SchemeRecord, len(catalog))
	copy(records, catalog)
	return &MatcherService{catalog: records, logger: defaultLogger(logger)}
}

func (s *MatcherService) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "MatcherService", operation, attrs...)
}

// Match filters the catalog against the intake form query.
func (s *MatcherService) Match(ctx context.Context, query EligibilityQuery) []SchemeRecord {
	matched := MatchSchemes(query, s.catalog)
	s.log(ctx, "Match",
		"sector", query.Sector,
		"business_type", query.BusinessType,
	).InfoContext(ctx, "eligibility query evaluated", "matched", len(matched), "catalog", len(s.catalog))
	return matched
}

// Schemes returns the full catalog in catalog order.
func (s *MatcherService) Schemes() []SchemeRecord {
	out := make([]SchemeRecord, len(s.catalog))
	copy(out, s.catalog)
	return out
}

// SchemeByID returns the catalog record with the given id.
func (s *MatcherService) SchemeByID(id string) (SchemeRecord, error) {
	for _, record := range s.catalog {
		if record.ID == id {
			return record, nil
		}
	}
	return SchemeRecord{}, ErrNotFound
}

// Search returns records whose rendered text contains the term,
// case-insensitively. An empty term returns the full catalog.
func (s *MatcherService) Search(ctx context.Context, term string) []SchemeRecord {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return s.Schemes()
	}

	matched := make([]SchemeRecord, 0)
	for _, record := range s.catalog {
		if strings.Contains(strings.ToLower(renderedText(record)), needle) {
			matched = append(matched, record)
		}
	}
	s.log(ctx, "Search", "term", needle).InfoContext(ctx, "keyword search evaluated", "matched", len(matched))
	return matched
}

// FilterBySector returns records whose rendered text contains the sector
// value. An empty sector means no filter. The comparison is over the rendered
// card text rather than the sector set alone, matching how the dashboard
// filter behaves.
func (s *MatcherService) FilterBySector(ctx context.Context, sector string) []SchemeRecord {
	if sector == "" {
		return s.Schemes()
	}

	matched := make([]SchemeRecord, 0)
	for _, record := range s.catalog {
		if strings.Contains(renderedText(record), sector) {
			matched = append(matched, record)
		}
	}
	s.log(ctx, "FilterBySector", "sector", sector).InfoContext(ctx, "sector filter evaluated", "matched", len(matched))
	return matched
}

// renderedText flattens the fields a scheme card displays into one searchable
// string.
func renderedText(record SchemeRecord) string {
	parts := []string{
		record.Name,
		record.Description,
		record.Eligibility,
		record.Benefits,
		record.Documents,
		record.Guide,
		record.Deadline,
	}
	parts = append(parts, record.Sector...)
	parts = append(parts, record.Size...)
	parts = append(parts, record.Location...)
	return strings.Join(parts, " ")
}
