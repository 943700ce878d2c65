// ABOUTME: Analytics event model, validation, and sanitization
// ABOUTME: Enforces the event-type whitelist and caps on tags and metadata

package analytics

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Event types accepted from clients.
const (
	EventCopyRepo    = "copy_repo"
	EventVisitRepo   = "visit_repo"
	EventVisitAuthor = "visit_author"
	EventViewDetails = "view_details"
	EventSearch      = "search"
	EventPageView    = "page_view"
)

var validEventTypes = map[string]struct{}{
	EventCopyRepo:    {},
	EventVisitRepo:   {},
	EventVisitAuthor: {},
	EventViewDetails: {},
	EventSearch:      {},
	EventPageView:    {},
}

// Sanitization caps: client-supplied payloads are bounded before storage.
const (
	maxTags            = 16
	maxMetadataEntries = 12
	maxMetadataKeyLen  = 48
)

// ErrInvalidEvent marks events rejected by validation.
var ErrInvalidEvent = errors.New("invalid analytics event")

// Event is one recorded interaction. PluginID correlates with the registry
// record ID where the event concerns a specific plugin.
type Event struct {
	ID         string         `json:"id,omitempty"`
	EventType  string         `json:"eventType"`
	PluginID   string         `json:"pluginId,omitempty"`
	PluginName string         `json:"pluginName,omitempty"`
	PluginTags []string       `json:"pluginTags,omitempty"`
	ClientID   string         `json:"clientId,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"createdAt,omitempty"`
}

// TrendingEntry is one row of the trending aggregation, counting interaction
// events per plugin over a period.
type TrendingEntry struct {
	PluginID         string    `json:"pluginId"`
	PluginName       string    `json:"pluginName,omitempty"`
	Total            int       `json:"total"`
	CopyCount        int       `json:"copyCount"`
	VisitCount       int       `json:"visitCount"`
	AuthorVisitCount int       `json:"authorVisitCount"`
	DetailViews      int       `json:"detailViews"`
	LatestEventAt    time.Time `json:"latestEventAt"`
}

// Sanitize validates the event type and bounds client-supplied fields.
// Unknown metadata value types and over-long keys are dropped silently; an
// unknown event type is an error.
func (e *Event) Sanitize() error {
	if _, ok := validEventTypes[e.EventType]; !ok {
		return fmt.Errorf("%w: unknown event type %q", ErrInvalidEvent, e.EventType)
	}

	tags := make([]string, 0, len(e.PluginTags))
	for _, tag := range e.PluginTags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		tags = append(tags, trimmed)
		if len(tags) == maxTags {
			break
		}
	}
	e.PluginTags = tags

	if len(e.Metadata) > 0 {
		cleaned := make(map[string]any, len(e.Metadata))
		for key, value := range e.Metadata {
			if len(key) == 0 || len(key) > maxMetadataKeyLen {
				continue
			}
			switch value.(type) {
			case string, float64, int, int64, bool:
				cleaned[key] = value
			}
			if len(cleaned) == maxMetadataEntries {
				break
			}
		}
		e.Metadata = cleaned
	}

	return nil
}
