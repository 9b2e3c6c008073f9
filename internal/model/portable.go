package model

// Portable is the file written by settings export. Credentials are never
// included.
type Portable struct {
	GistID         string `json:"gistId"`
	SettingsGistID string `json:"settingsGistId,omitempty"`
}
