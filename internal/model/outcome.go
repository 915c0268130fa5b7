package model

import "fmt"

// AcquisitionState tracks a name's progress through the pipeline.
type AcquisitionState string

const (
	StatePending    AcquisitionState = "pending"
	StateSearching  AcquisitionState = "searching"
	StateExtracting AcquisitionState = "extracting"
	StateMerging    AcquisitionState = "merging"
	StateAccepted   AcquisitionState = "accepted"
	StateRejected   AcquisitionState = "rejected"
)

// RejectionCode is the closed enumeration of terminal rejection reasons.
type RejectionCode string

const (
	RejectNoSearchResults   RejectionCode = "no-search-results"
	RejectExtractionEmpty   RejectionCode = "extraction-returned-nothing"
	RejectBelowThreshold    RejectionCode = "below-confidence-threshold"
	RejectUnexpectedError   RejectionCode = "unexpected-error"
)

// RejectionReason pairs a code with an optional detail string. Detail is
// only populated for unexpected-error rejections.
type RejectionReason struct {
	Code   RejectionCode `json:"code"`
	Detail string        `json:"detail,omitempty"`
}

func (r RejectionReason) String() string {
	if r.Detail == "" {
		return string(r.Code)
	}
	return fmt.Sprintf("%s(%s)", r.Code, r.Detail)
}

// Failure records a single name the batch could not acquire.
type Failure struct {
	Name   string          `json:"name"`
	Reason RejectionReason `json:"reason"`
}

// BatchResult is the outcome of an acquisition batch. Accepted and failed
// partition the input names; a caller can re-drive only the failed subset.
type BatchResult struct {
	Accepted []AlumniProfile `json:"accepted"`
	Failed   []Failure       `json:"failed"`
}
