package model

import (
	"context"
	"strings"
	"time"

	"pricepilot/config"
)

// BusinessProfile is the read-only snapshot of the customer's business.
type BusinessProfile struct {
	Name     string
	City     string
	Country  string
	Currency string
}

// Dataset is one uploaded booking dataset known to the workspace.
type Dataset struct {
	ID         string
	Name       string
	RowCount   int
	UploadedAt time.Time
}

// CurrentData summarizes the uploaded datasets.
type CurrentData struct {
	TotalBookings int `json:"totalBookings"`
}

// RequestContext is attached to every outgoing assistant request.
// Fields without upstream data are left empty and dropped on encoding.
type RequestContext struct {
	BusinessName string       `json:"businessName,omitempty"`
	Location     string       `json:"location,omitempty"`
	Currency     string       `json:"currency,omitempty"`
	CurrentData  *CurrentData `json:"currentData,omitempty"`
}

// IsEmpty reports whether no recognized field is set.
func (c RequestContext) IsEmpty() bool {
	return c.BusinessName == "" && c.Location == "" && c.Currency == "" && c.CurrentData == nil
}

// ContextSource exposes the externally owned state the context is built from.
type ContextSource interface {
	// Profile returns nil, nil when no profile has been set up.
	Profile(ctx context.Context) (*BusinessProfile, error)
	Datasets(ctx context.Context) ([]Dataset, error)
}

// BuildContext maps a profile snapshot and dataset list to a RequestContext.
// Totals are recomputed on every call.
func BuildContext(profile *BusinessProfile, datasets []Dataset) RequestContext {
	var rc RequestContext

	if profile != nil {
		rc.BusinessName = profile.Name
		rc.Location = formatLocation(profile.City, profile.Country)
		rc.Currency = profile.Currency
	}

	if len(datasets) > 0 {
		total := 0
		for _, ds := range datasets {
			total += ds.RowCount
		}
		rc.CurrentData = &CurrentData{TotalBookings: total}
	}

	return rc
}

func formatLocation(city, country string) string {
	var parts []string
	for _, p := range []string{city, country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// SnapshotContext reads the source and builds a context. Read failures are
// logged and treated as missing data so a broken store never blocks a question.
func SnapshotContext(ctx context.Context, src ContextSource) RequestContext {
	if src == nil {
		return RequestContext{}
	}

	profile, err := src.Profile(ctx)
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Context] profile unavailable: %v", err)
		}
		profile = nil
	}

	datasets, err := src.Datasets(ctx)
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Context] datasets unavailable: %v", err)
		}
		datasets = nil
	}

	return BuildContext(profile, datasets)
}
