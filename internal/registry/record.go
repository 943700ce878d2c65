// ABOUTME: Plugin record model and transformation from the upstream registry payload
// ABOUTME: Normalizes the machine-name keyed map into stable, tag-normalized records

package registry

import (
	"encoding/json"
	"sort"
)

// Record is one catalog entry. ID is derived from the registry's machine-name
// key and is the stable identity used for caching keys, URLs, and analytics
// correlation.
type Record struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Desc        string   `json:"desc,omitempty"`
	Author      string   `json:"author,omitempty"`
	Repo        string   `json:"repo,omitempty"`
	Homepage    string   `json:"homepage,omitempty"`
	SocialLink  string   `json:"social_link,omitempty"`
	Logo        string   `json:"logo,omitempty"`
	Stars       int      `json:"stars,omitempty"`
	Version     string   `json:"version,omitempty"`
	Tags        []string `json:"tags"`
	UpdatedAt   string   `json:"updated_at,omitempty"`
}

// upstreamEntry mirrors one value of the upstream map. Tags may arrive as a
// bare string or an array, so it is decoded leniently.
type upstreamEntry struct {
	Name        string          `json:"name"`
	DisplayName string          `json:"display_name"`
	Desc        string          `json:"desc"`
	Author      string          `json:"author"`
	Repo        string          `json:"repo"`
	Homepage    string          `json:"homepage"`
	SocialLink  string          `json:"social_link"`
	Logo        string          `json:"logo"`
	Stars       int             `json:"stars"`
	Version     string          `json:"version"`
	Tags        json.RawMessage `json:"tags"`
	UpdatedAt   string          `json:"updated_at"`
}

// toRecord builds a Record from the upstream map key and entry, injecting the
// machine name as ID and defaulting the display name.
func toRecord(machineName string, e upstreamEntry) Record {
	displayName := e.DisplayName
	if displayName == "" {
		displayName = e.Name
	}
	if displayName == "" {
		displayName = machineName
	}

	return Record{
		ID:          machineName,
		Name:        displayName,
		DisplayName: displayName,
		Desc:        e.Desc,
		Author:      e.Author,
		Repo:        e.Repo,
		Homepage:    e.Homepage,
		SocialLink:  e.SocialLink,
		Logo:        e.Logo,
		Stars:       e.Stars,
		Version:     e.Version,
		Tags:        normalizeTags(e.Tags),
		UpdatedAt:   e.UpdatedAt,
	}
}

// normalizeTags always yields a non-nil slice: a bare string becomes a
// one-element slice, arrays drop empty entries, anything else is empty.
func normalizeTags(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		out := make([]string, 0, len(list))
		for _, tag := range list {
			if tag != "" {
				out = append(out, tag)
			}
		}
		return out
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return []string{single}
	}

	return []string{}
}

// transform converts the upstream machine-name keyed map into a record slice
// sorted by ID, so responses are deterministic across refreshes.
func transform(payload map[string]upstreamEntry) []Record {
	records := make([]Record, 0, len(payload))
	for machineName, entry := range payload {
		records = append(records, toRecord(machineName, entry))
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records
}
