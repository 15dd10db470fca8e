package catalog

import (
	"fmt"
	"strings"
)

// Status is the availability of one copy as reported by the catalogue
// endpoint. The zero value is StatusUnknown, which no parser produces.
type Status int

const (
	StatusUnknown Status = iota
	StatusAvailable
	StatusOnLoan
)

// Observed CurrentStatus codes. 11 is "available but somehow different",
// 16 is "on loan and overdue".
var statusCodes = map[int]Status{
	0:  StatusAvailable,
	11: StatusAvailable,
	10: StatusOnLoan,
	16: StatusOnLoan,
}

// NormalizeStatus maps a raw CurrentStatus code. Codes outside the known set
// fail with *UnrecognizedStatusError; they are never guessed.
func NormalizeStatus(code int, catalogNumber string) (Status, error) {
	status, ok := statusCodes[code]
	if !ok {
		return StatusUnknown, &UnrecognizedStatusError{Code: code, Context: catalogNumber}
	}
	return status, nil
}

func (s Status) String() string {
	switch s {
	case StatusAvailable:
		return "available"
	case StatusOnLoan:
		return "on_loan"
	default:
		return "unknown"
	}
}

// ParseStatus is the inverse of String for the two valid statuses.
func ParseStatus(value string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "available":
		return StatusAvailable, nil
	case "on_loan":
		return StatusOnLoan, nil
	default:
		return StatusUnknown, fmt.Errorf("invalid status %q", value)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if s != StatusAvailable && s != StatusOnLoan {
		return nil, fmt.Errorf("cannot marshal status %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// LoanStatus is the IsOnLoan flag of the stock endpoint. It is a separate
// encoding from Status with exactly two valid codes.
type LoanStatus int

const (
	LoanUnknown LoanStatus = iota
	LoanAvailable
	LoanOnLoan
)

// NormalizeLoanStatus maps a raw IsOnLoan code (0 or 64).
func NormalizeLoanStatus(code int, context string) (LoanStatus, error) {
	switch code {
	case 0:
		return LoanAvailable, nil
	case 64:
		return LoanOnLoan, nil
	default:
		return LoanUnknown, &UnrecognizedStatusError{Code: code, Context: context}
	}
}

// Status converts the flag into the common availability ordering.
func (l LoanStatus) Status() Status {
	switch l {
	case LoanAvailable:
		return StatusAvailable
	case LoanOnLoan:
		return StatusOnLoan
	default:
		return StatusUnknown
	}
}

func (l LoanStatus) String() string {
	return l.Status().String()
}
