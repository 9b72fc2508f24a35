package model

import (
	"time"

	"github.com/google/uuid"
)

// DefaultMaxTurns is the turn ceiling used when the caller does not give one
const DefaultMaxTurns = 7

type SessionID string

// NewSessionID generates a new random (128-bit) SessionID
func NewSessionID() SessionID {
	return SessionID(uuid.New().String())
}

func (id SessionID) String() string { return string(id) }

type SessionState string

const (
	SessionStateQuestioning SessionState = "questioning"
	SessionStateFinalizing  SessionState = "finalizing"
	SessionStateDone        SessionState = "done"
)

// Session is one ongoing interview
type Session struct {
	ID             SessionID
	History        []string
	Memory         *CaseMemory
	AskedQuestions []string
	TurnsDone      int
	MaxTurns       int
	State          SessionState
	Confidence     float64
	Report         *Report

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Finished reports whether the interview is over
func (s *Session) Finished() bool {
	return s.State == SessionStateDone
}

// CaseType returns the case type fixed at creation
func (s *Session) CaseType() CaseType {
	v, _ := s.Memory.GetContext(ContextCaseType)
	return CaseType(v)
}

// Subtype returns the subtype detected at creation, if any
func (s *Session) Subtype() Subtype {
	v, _ := s.Memory.GetContext(ContextSubtype)
	return Subtype(v)
}

// HasAsked reports whether question was already issued in this session
func (s *Session) HasAsked(question string) bool {
	for _, q := range s.AskedQuestions {
		if q == question {
			return true
		}
	}
	return false
}

// Clone returns a deep copy that can be read without holding the session lock
func (s *Session) Clone() *Session {
	c := *s
	c.History = append([]string(nil), s.History...)
	c.AskedQuestions = append([]string(nil), s.AskedQuestions...)
	if s.Memory != nil {
		c.Memory = s.Memory.Clone()
	}
	if s.Report != nil {
		r := s.Report.Clone()
		c.Report = r
	}
	return &c
}
