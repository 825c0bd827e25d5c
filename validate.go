package mosaic

import "fmt"

// SubmissionValidationError is the set of ways a SUBMISSION frame can
// fail validation, each carrying enough information to pick the right
// ResultCode without the caller re-inspecting the record.
type SubmissionValidationError struct {
	Reason   SubmissionValidationReason
	Cause    error
	TooLarge bool
}

// SubmissionValidationReason classifies a SubmissionValidationError.
type SubmissionValidationReason int

const (
	ReasonHandshakeNotComplete SubmissionValidationReason = iota
	ReasonWrongMessageType
	ReasonRecordInvalid
)

func (e *SubmissionValidationError) Error() string {
	switch e.Reason {
	case ReasonHandshakeNotComplete:
		return "submission received before handshake completed"
	case ReasonWrongMessageType:
		return "message is not a submission"
	default:
		return fmt.Sprintf("record invalid: %v", e.Cause)
	}
}

func (e *SubmissionValidationError) Unwrap() error { return e.Cause }

// ResultCode maps a validation failure onto the wire-level ResultCode
// the peer will see.
func (e *SubmissionValidationError) ResultCode() ResultCode {
	switch e.Reason {
	case ReasonHandshakeNotComplete, ReasonWrongMessageType:
		return ResultCodeInvalid
	case ReasonRecordInvalid:
		if e.TooLarge {
			return ResultCodeTooLarge
		}
		return ResultCodeInvalid
	default:
		return ResultCodeInvalid
	}
}

// ValidateSubmission checks that m is a well-formed SUBMISSION from an
// already-handshaked connection and returns the decoded Record.
func ValidateSubmission(m *Message, client *ClientData) (*Record, error) {
	if m.Type != MessageTypeSubmission {
		return nil, &SubmissionValidationError{Reason: ReasonWrongMessageType}
	}
	if !client.Handshaked() {
		return nil, &SubmissionValidationError{Reason: ReasonHandshakeNotComplete}
	}
	rec, err := RecordFromBytes(m.Body())
	if err != nil {
		return nil, &SubmissionValidationError{
			Reason:   ReasonRecordInvalid,
			Cause:    err,
			TooLarge: err == ErrRecordTooLong,
		}
	}
	return rec, nil
}
