package types

import "time"

// GenerationRun records one generated client.
type GenerationRun struct {
	ID            string    `json:"id"`
	Target        string    `json:"target"`
	EndpointURL   string    `json:"endpoint_url"`
	AuthTokens    bool      `json:"auth_tokens"`
	EndpointCount int       `json:"endpoint_count"`
	Definition    string    `json:"definition,omitempty"`
	Source        string    `json:"source,omitempty"`
	Digest        string    `json:"digest"`
	CreatedAt     time.Time `json:"created_at"`
}

// Summary returns a copy without the definition and source bodies.
func (r GenerationRun) Summary() GenerationRun {
	r.Definition = ""
	r.Source = ""
	return r
}
