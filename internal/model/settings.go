package model

import (
	"encoding/json"
	"time"
)

// GistRef is an entry in the settings document's gist list.
type GistRef struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	AddedAt     time.Time `json:"addedAt"`

	Extra Extra `json:"-"`
}

func (g GistRef) MarshalJSON() ([]byte, error) {
	type plain GistRef
	return mergeExtra(plain(g), g.Extra)
}

func (g *GistRef) UnmarshalJSON(data []byte) error {
	type plain GistRef

	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	extra, err := collectExtra(data, "id", "description", "addedAt")
	if err != nil {
		return err
	}

	*g = GistRef(p)
	g.Extra = extra

	return nil
}

// Settings is the app-level document stored in settings.json.
type Settings struct {
	Gists        []GistRef      `json:"gists"`
	LastUpdated  time.Time      `json:"lastUpdated"`
	UserSettings map[string]any `json:"userSettings"`

	// Extra keeps top-level keys written by other clients
	Extra Extra `json:"-"`
}

func (s Settings) MarshalJSON() ([]byte, error) {
	type plain Settings
	return mergeExtra(plain(s), s.Extra)
}

func (s *Settings) UnmarshalJSON(data []byte) error {
	type plain Settings

	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	extra, err := collectExtra(data, "gists", "lastUpdated", "userSettings")
	if err != nil {
		return err
	}

	*s = Settings(p)
	s.Extra = extra

	return nil
}

// NewSettings returns an empty settings document stamped with now.
func NewSettings(now time.Time) Settings {
	return Settings{
		Gists:        []GistRef{},
		LastUpdated:  now,
		UserSettings: map[string]any{},
	}
}

// IndexOf returns the index of the first entry with id, or -1.
func (s *Settings) IndexOf(id string) int {
	for i, g := range s.Gists {
		if g.ID == id {
			return i
		}
	}

	return -1
}
