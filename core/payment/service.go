package payment

import (
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/clinigoal/backoffice/core"
)

// Buckets read by the sync engine. paymentBuckets is the fixed iteration
// order: the earliest-encountered record wins on dedup, so the order is a
// design commitment, not a convenience.
const (
	BucketUserPayments          = "userPayments"
	BucketAdminPayments         = "adminPayments"
	BucketClinigoalPayments     = "clinigoalPayments"
	BucketUserDashboardPayments = "userDashboardPayments"
	BucketPendingApprovals      = "pendingApprovals"
	BucketPaidCourses           = "paidCourses"

	// BucketAdminApprovals holds the admin-side working set of approvals.
	BucketAdminApprovals = "adminApprovals"

	sourcePaidCourses    = "paidCourses_storage"
	sourceEnrollmentSync = "paid_enrollment_sync"
)

var paymentBuckets = []string{
	BucketUserPayments,
	BucketAdminPayments,
	BucketClinigoalPayments,
	BucketUserDashboardPayments,
	BucketPendingApprovals,
	BucketPaidCourses,
}

var (
	ErrApprovalNotFound = errors.New("approval not found")

	nowFunc = time.Now // mockable
)

type Service struct {
	store   core.KeyValueStore
	mailSvc core.EmailService
	logger  core.Logger
}

func NewService(store core.KeyValueStore, mailSvc core.EmailService, logger core.Logger) *Service {
	return &Service{store: store, mailSvc: mailSvc, logger: logger}
}

// CollectPayments reads every known bucket and returns the deduplicated
// payments and directly-discovered approvals. A corrupt or unreadable bucket
// is logged and contributes zero records; absence of a bucket is treated the
// same as an empty one. CollectPayments never fails outright.
func (svc *Service) CollectPayments() ([]Payment, []Approval) {
	var payments []Payment
	var approvals []Approval
	seenPayments := make(map[string]bool)
	seenApprovals := make(map[string]bool)

	for _, bucket := range paymentBuckets {
		switch bucket {
		case BucketPendingApprovals:
			var recs []Approval
			if !svc.readBucket(bucket, &recs) {
				continue
			}
			for _, a := range recs {
				if a.ID != "" && seenApprovals[a.ID] {
					continue
				}
				if a.Source == "" {
					a.Source = bucket
				}
				seenApprovals[a.ID] = true
				approvals = append(approvals, a)
			}
		case BucketPaidCourses:
			var courseIDs []string
			if !svc.readBucket(bucket, &courseIDs) {
				continue
			}
			for _, cid := range courseIDs {
				if cid == "" {
					continue
				}
				stub := Payment{
					ID:       "paidCourse_" + cid,
					CourseID: cid,
					Status:   StatusCompleted,
					Source:   sourcePaidCourses,
				}
				if seenPayments[stub.ID] {
					continue
				}
				seenPayments[stub.ID] = true
				payments = append(payments, stub)
			}
		default:
			var recs []Payment
			if !svc.readBucket(bucket, &recs) {
				continue
			}
			for _, p := range recs {
				if p.ID != "" && seenPayments[p.ID] {
					continue
				}
				if p.Source == "" {
					p.Source = bucket
				}
				seenPayments[p.ID] = true
				payments = append(payments, p)
			}
		}
	}
	return payments, approvals
}

// SyncPaidEnrollments folds payments and directly-discovered approvals into
// the given working set. The merge is append-only: existing entries are never
// mutated or removed, so admin-made status changes are preserved. Returns the
// merged set and the number of newly added records.
func (svc *Service) SyncPaidEnrollments(existing []Approval) ([]Approval, int) {
	payments, approvals := svc.CollectPayments()

	merged := make([]Approval, len(existing))
	copy(merged, existing)

	byID := make(map[string]bool, len(existing))
	byKey := make(map[string]bool, len(existing))
	for _, a := range existing {
		byID[a.ID] = true
		byKey[enrollmentKey(a.Email(), a.CourseID)] = true
	}

	var newCount int
	for _, p := range payments {
		if p.CourseID == "" || p.StudentName == "" {
			continue
		}
		key := enrollmentKey(p.Email(), p.CourseID)
		if byKey[key] {
			continue
		}
		appr := svc.newApproval(p)
		byKey[key] = true
		byID[appr.ID] = true
		merged = append(merged, appr)
		newCount++
	}

	for _, a := range approvals {
		if byID[a.ID] {
			continue
		}
		byID[a.ID] = true
		byKey[enrollmentKey(a.Email(), a.CourseID)] = true
		merged = append(merged, a)
		newCount++
	}
	return merged, newCount
}

// LoadApprovals reads the admin working set.
func (svc *Service) LoadApprovals() ([]Approval, error) {
	var approvals []Approval
	if err := svc.store.Get(BucketAdminApprovals, &approvals); err != nil {
		if err == core.ErrKeyNotFound {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(err, "reading "+BucketAdminApprovals)
	}
	return approvals, nil
}

// SaveApprovals writes the admin working set back to its bucket.
func (svc *Service) SaveApprovals(approvals []Approval) error {
	return pkgerrors.Wrap(svc.store.Set(BucketAdminApprovals, approvals), "writing "+BucketAdminApprovals)
}

// SyncApprovals runs SyncPaidEnrollments against the persisted working set
// and stores the result.
func (svc *Service) SyncApprovals() ([]Approval, int, error) {
	existing, err := svc.LoadApprovals()
	if err != nil {
		return nil, 0, err
	}
	merged, newCount := svc.SyncPaidEnrollments(existing)
	if err := svc.SaveApprovals(merged); err != nil {
		return nil, 0, err
	}
	return merged, newCount, nil
}

// DecideApproval transitions an approval in the working set to the given
// status and notifies the student. Only "approved" and "rejected" are
// accepted decisions.
func (svc *Service) DecideApproval(id, status string) (Approval, error) {
	if status != ApprovalApproved && status != ApprovalRejected {
		err := fmt.Errorf("invalid approval status %q", status)
		return Approval{}, core.NewValidationError(err, core.FieldError{Field: "status", Error: err.Error()})
	}

	approvals, err := svc.LoadApprovals()
	if err != nil {
		return Approval{}, err
	}
	for i, a := range approvals {
		if a.ID != id {
			continue
		}
		approvals[i].Status = status
		if err := svc.SaveApprovals(approvals); err != nil {
			return Approval{}, err
		}
		svc.notifyDecision(approvals[i])
		return approvals[i], nil
	}
	return Approval{}, ErrApprovalNotFound
}

func (svc *Service) newApproval(p Payment) Approval {
	enrolledAt := p.Timestamp
	if enrolledAt == "" {
		enrolledAt = nowFunc().UTC().Format(time.RFC3339)
	}
	return Approval{
		ID:             "enr_" + uuid.New().String(),
		UserEmail:      p.Email(),
		UserName:       p.StudentName,
		CourseID:       p.CourseID,
		CourseTitle:    p.CourseTitle,
		EnrollmentDate: enrolledAt,
		Status:         ApprovalPending,
		Progress:       0,
		Completed:      false,
		PaymentStatus:  p.Status,
		Amount:         p.Amount,
		TransactionID:  p.TransactionID,
		PaymentMethod:  p.PaymentMethod,
		IsPaid:         true,
		Source:         sourceEnrollmentSync,
	}
}

func (svc *Service) notifyDecision(a Approval) {
	if svc.mailSvc == nil || a.Email() == "" {
		return
	}
	verb := "approved"
	if a.Status == ApprovalRejected {
		verb = "rejected"
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: a.UserName, Address: a.Email()}},
		Subject: fmt.Sprintf("Your enrollment has been %s", verb),
		BodyStr: fmt.Sprintf("Hi %s,\n\nYour enrollment for %q has been %s.", a.UserName, a.CourseTitle, verb),
	})
}

// readBucket reads a bucket into v. It returns false when the bucket is
// absent or unreadable; read failures are logged, never propagated.
func (svc *Service) readBucket(bucket string, v interface{}) bool {
	if err := svc.store.Get(bucket, v); err != nil {
		if err != core.ErrKeyNotFound {
			svc.logger.Warn(fmt.Sprintf("payment: skipping bucket %s: %v", bucket, err))
		}
		return false
	}
	return true
}

func enrollmentKey(email, courseID string) string {
	return email + "|" + courseID
}
