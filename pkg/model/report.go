package model

import "time"

// Report is the result of a finalized consultation
type Report struct {
	SessionID  SessionID `json:"session_id"`
	CaseType   CaseType  `json:"case_type"`
	Subtype    Subtype   `json:"subtype,omitempty"`
	Text       string    `json:"report"`
	Entities   Entities  `json:"structured"`
	Turns      int       `json:"turns"`
	FinishedAt time.Time `json:"finished_at"`
}

// Clone returns a deep copy of the report
func (r *Report) Clone() *Report {
	c := *r
	c.Entities = make(Entities, len(r.Entities))
	for k, v := range r.Entities {
		c.Entities[k] = append([]string(nil), v...)
	}
	return &c
}

// AnalysisRequest is the input handed to an analysis generator at finalization
type AnalysisRequest struct {
	// Summary is CaseMemory.Summarize() of the final memory
	Summary  string
	CaseType CaseType
	Subtype  Subtype

	// Statement is the client's initial query
	Statement string
	Entities  Entities
}
