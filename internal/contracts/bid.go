package contracts

import (
	"fmt"
	"time"
)

// BidStatus mirrors bids.status
type BidStatus string

const (
	BidPending   BidStatus = "pending"
	BidAccepted  BidStatus = "accepted"
	BidRejected  BidStatus = "rejected"
	BidWithdrawn BidStatus = "withdrawn"
)

// SelectionMethod records how the company picked a bid
type SelectionMethod string

const (
	SelectionManual SelectionMethod = "manual"
	SelectionAI     SelectionMethod = "ai"
)

// Bid is one contractor's offer on one project
type Bid struct {
	ID              int64            `json:"id"`
	ProjectID       int64            `json:"projectId"`
	ProjectTitle    string           `json:"projectTitle,omitempty"`
	ContractorID    int64            `json:"contractorId"`
	ContractorName  string           `json:"contractorName,omitempty"`
	Amount          float64          `json:"amount"`
	TimelineDays    *int             `json:"timelineDays,omitempty"`
	Description     string           `json:"description,omitempty"`
	Status          BidStatus        `json:"status"`
	SelectionMethod *SelectionMethod `json:"selectionMethod,omitempty"`
	DecidedAt       *time.Time       `json:"decidedAt,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
}

// NewBid is the input of bid submission
type NewBid struct {
	ProjectID    int64
	ContractorID int64
	Amount       float64
	TimelineDays *int
	Description  string
}

// DecisionAction is accept or reject
type DecisionAction string

const (
	DecisionAccept DecisionAction = "accept"
	DecisionReject DecisionAction = "reject"
)

// Status returns the bid status the action moves a pending bid to
func (a DecisionAction) Status() (BidStatus, error) {
	switch a {
	case DecisionAccept:
		return BidAccepted, nil
	case DecisionReject:
		return BidRejected, nil
	}
	return "", fmt.Errorf("unknown decision action %q", a)
}

// BidDecision is a company's accept/reject of a pending bid
type BidDecision struct {
	BidID  int64           `json:"bidId"`
	Action DecisionAction  `json:"action"`
	Method SelectionMethod `json:"method"`
}
