package entity

import (
	"fmt"
	"time"
)

// CaptureState is a state of the capture state machine.
type CaptureState string

const (
	CaptureIdle         CaptureState = "idle"
	CaptureRecording    CaptureState = "recording"
	CaptureTranscribing CaptureState = "transcribing"
	CaptureStructuring  CaptureState = "structuring"
	CaptureDone         CaptureState = "done"
	CaptureError        CaptureState = "error"
)

// captureTransitions lists the allowed next states. Failure is handled by Fail.
var captureTransitions = map[CaptureState][]CaptureState{
	CaptureIdle:         {CaptureRecording, CaptureStructuring},
	CaptureRecording:    {CaptureTranscribing},
	CaptureTranscribing: {CaptureStructuring},
	CaptureStructuring:  {CaptureDone},
}

// InvalidTransitionError is returned for a transition the machine does not allow.
type InvalidTransitionError struct {
	From CaptureState
	To   CaptureState
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid capture transition: %s -> %s", e.From, e.To)
}

// CaptureSession tracks one voice or text capture through the pipeline.
type CaptureSession struct {
	ID         string       `json:"id"`
	UserID     string       `json:"userId"`
	State      CaptureState `json:"state"`
	Transcript string       `json:"transcript,omitempty"`
	Error      string       `json:"error,omitempty"`
	StartedAt  time.Time    `json:"startedAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`

	clock func() time.Time
}

// NewCaptureSession starts a session in the idle state.
func NewCaptureSession(id, userID string, clock func() time.Time) *CaptureSession {
	if clock == nil {
		clock = time.Now
	}
	now := clock()
	return &CaptureSession{
		ID:        id,
		UserID:    userID,
		State:     CaptureIdle,
		StartedAt: now,
		UpdatedAt: now,
		clock:     clock,
	}
}

// StartRecording moves idle -> recording once audio has been received.
func (s *CaptureSession) StartRecording() error {
	return s.transition(CaptureRecording)
}

// BeginTranscribing moves recording -> transcribing.
func (s *CaptureSession) BeginTranscribing() error {
	return s.transition(CaptureTranscribing)
}

// BeginStructuring moves idle (text input) or transcribing -> structuring.
func (s *CaptureSession) BeginStructuring(transcript string) error {
	if err := s.transition(CaptureStructuring); err != nil {
		return err
	}
	s.Transcript = transcript
	return nil
}

// Complete moves structuring -> done.
func (s *CaptureSession) Complete() error {
	return s.transition(CaptureDone)
}

// Fail moves any non-terminal state to error.
func (s *CaptureSession) Fail(cause error) error {
	if s.Terminal() {
		return &InvalidTransitionError{From: s.State, To: CaptureError}
	}
	s.State = CaptureError
	if cause != nil {
		s.Error = cause.Error()
	}
	s.UpdatedAt = s.clock()
	return nil
}

// Terminal reports whether the session has finished.
func (s *CaptureSession) Terminal() bool {
	return s.State == CaptureDone || s.State == CaptureError
}

func (s *CaptureSession) transition(to CaptureState) error {
	for _, allowed := range captureTransitions[s.State] {
		if allowed == to {
			s.State = to
			s.UpdatedAt = s.clock()
			return nil
		}
	}
	return &InvalidTransitionError{From: s.State, To: to}
}
