package model

import "time"

// Credential is the record kept by the credential gate. It exists if and
// only if setup has completed.
type Credential struct {
	// Username must match exactly on login
	Username string `json:"username"`

	// HashedPassword is a bcrypt hash, or a 16-char legacy hash for records
	// imported from the browser app
	HashedPassword string `json:"hashedPassword"`

	// SetupTime is when the record was created
	SetupTime time.Time `json:"setupTime"`

	// SessionKey signs session tokens. It is regenerated on every setup, so a
	// reset invalidates any session minted before it.
	SessionKey []byte `json:"sessionKey,omitempty"`
}
