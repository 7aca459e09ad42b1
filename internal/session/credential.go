package session

import (
	"encoding/json"
	"fmt"
)

// UserKey is the storage key holding the credential record.
const UserKey = "user"

// Credential is the token and role pair identifying the operator.
type Credential struct {
	Token string `json:"token"`
	Role  Role   `json:"role"`
}

// Authenticated reports whether a token is present.
func (c Credential) Authenticated() bool {
	return c.Token != ""
}

func (c Credential) encode() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode credential: %w", err)
	}
	return string(b), nil
}

func decodeCredential(raw string) (Credential, error) {
	var wire struct {
		Token *string `json:"token"`
		Role  Role    `json:"role"`
	}
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return Credential{}, fmt.Errorf("decode credential: %w", err)
	}
	c := Credential{Role: wire.Role}
	if wire.Token != nil {
		c.Token = *wire.Token
	}
	return c, nil
}
