package payment

import (
	"github.com/volatiletech/null/v8"

	"github.com/clinigoal/backoffice/core"
)

// Payment statuses
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusRefunded  = "refunded"
)

// Approval statuses
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// Payment is a payment record discovered in one of the payment buckets.
// Payments are immutable: they are only ever appended or deduplicated away.
// JSON tags match the dashboard frontend's casing: these records are shared
// with the browser-side buckets.
type Payment struct {
	ID            string      `json:"id"`
	CourseID      string      `json:"courseId"`
	CourseTitle   string      `json:"courseTitle"`
	StudentName   string      `json:"studentName"`
	StudentEmail  string      `json:"studentEmail"`
	Amount        string      `json:"amount"` // currency-formatted, e.g. "₹4,999"
	Status        string      `json:"status"`
	PaymentMethod string      `json:"paymentMethod"`
	Timestamp     string      `json:"timestamp"` // ISO-8601
	TransactionID null.String `json:"transactionId"`
	Source        string      `json:"source,omitempty"`
}

// Email returns the student email, synthesizing one from the student name
// when the record was persisted without it.
func (p Payment) Email() string {
	if p.StudentEmail != "" {
		return p.StudentEmail
	}
	return core.SyntheticEmail(p.StudentName)
}

// Approval is an enrollment record pending (or past) an admin accept/reject decision.
type Approval struct {
	ID             string      `json:"id"`
	UserEmail      string      `json:"userEmail"`
	UserName       string      `json:"userName"`
	CourseID       string      `json:"courseId"`
	CourseTitle    string      `json:"courseTitle"`
	EnrollmentDate string      `json:"enrollmentDate"` // ISO-8601
	Status         string      `json:"status"`
	Progress       int         `json:"progress"` // 0-100, updated externally
	Completed      bool        `json:"completed"`
	PaymentStatus  string      `json:"paymentStatus"`
	Amount         string      `json:"amount"`
	TransactionID  null.String `json:"transactionId"`
	PaymentMethod  string      `json:"paymentMethod"`
	IsPaid         bool        `json:"isPaid"`
	Source         string      `json:"source,omitempty"`
}

// Email returns the user email, synthesizing one from the user name when absent.
func (a Approval) Email() string {
	if a.UserEmail != "" {
		return a.UserEmail
	}
	return core.SyntheticEmail(a.UserName)
}
