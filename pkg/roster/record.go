package roster

import "strings"

// Record is one employee row. Fields are trimmed at load time and never
// modified afterwards.
type Record struct {
	ID            string `json:"id"`
	SupervisorID  string `json:"supervisor_id,omitempty"`
	Name          string `json:"name"`
	Role          string `json:"role,omitempty"`
	LeftImageURL  string `json:"image_left,omitempty"`
	RightImageURL string `json:"image_right,omitempty"`
}

// IsRoot reports whether the record has no supervisor of its own.
func (r Record) IsRoot() bool {
	return r.SupervisorID == "" || r.SupervisorID == r.ID
}

func (r Record) trimmed() Record {
	return Record{
		ID:            strings.TrimSpace(r.ID),
		SupervisorID:  strings.TrimSpace(r.SupervisorID),
		Name:          strings.TrimSpace(r.Name),
		Role:          strings.TrimSpace(r.Role),
		LeftImageURL:  strings.TrimSpace(r.LeftImageURL),
		RightImageURL: strings.TrimSpace(r.RightImageURL),
	}
}
