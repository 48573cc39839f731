package review

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/clinigoal/backoffice/core"
)

// Buckets read by the review sync, in fixed iteration order.
const (
	BucketClinigoalReviews     = "clinigoalReviews"
	BucketStudentReviews       = "studentReviews"
	BucketUserDashboardReviews = "userDashboardReviews"
	BucketUserReviews          = "userReviews"

	// BucketAdminReviews holds the admin-side moderation working set.
	BucketAdminReviews = "adminReviews"
)

var reviewBuckets = []string{
	BucketClinigoalReviews,
	BucketStudentReviews,
	BucketUserDashboardReviews,
	BucketUserReviews,
}

var (
	ErrNotFound = errors.New("review not found")

	nowFunc = time.Now // mockable
)

type Service struct {
	store  core.KeyValueStore
	logger core.Logger
}

func NewService(store core.KeyValueStore, logger core.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// SyncReviews merges reviews discovered in the review buckets into the given
// set. New reviews are placed ahead of existing ones; duplicates (by ID, or by
// the (courseId, userName, text) composite key for records without a reliable
// ID) are removed keeping the first occurrence. Returns the merged list and
// the number of newly discovered reviews.
func (svc *Service) SyncReviews(existing []Review) ([]Review, int) {
	seenIDs := make(map[string]bool, len(existing))
	seenKeys := make(map[string]bool, len(existing))
	for _, r := range existing {
		if r.ID != "" {
			seenIDs[r.ID] = true
		}
		seenKeys[r.compositeKey()] = true
	}

	var fresh []Review
	for _, bucket := range reviewBuckets {
		var recs []Review
		if err := svc.store.Get(bucket, &recs); err != nil {
			if err != core.ErrKeyNotFound {
				svc.logger.Warn(fmt.Sprintf("review: skipping bucket %s: %v", bucket, err))
			}
			continue
		}
		for _, r := range recs {
			if r.ID != "" && seenIDs[r.ID] {
				continue
			}
			if seenKeys[r.compositeKey()] {
				continue
			}
			normalize(&r)
			seenIDs[r.ID] = true
			seenKeys[r.compositeKey()] = true
			fresh = append(fresh, r)
		}
	}

	merged := append(fresh, existing...)

	// final identifier-based dedup pass over the concatenation, first wins
	out := merged[:0:0]
	final := make(map[string]bool, len(merged))
	for _, r := range merged {
		if r.ID != "" && final[r.ID] {
			continue
		}
		final[r.ID] = true
		out = append(out, r)
	}
	return out, len(fresh)
}

// normalize fills the fields older frontend builds persisted without.
func normalize(r *Review) {
	if r.ID == "" {
		r.ID = "rev_" + uuid.New().String()
	}
	if r.Status == "" {
		r.Status = StatusPending
	}
	if r.UserEmail == "" {
		r.UserEmail = core.SyntheticEmail(r.UserName)
	}
	if r.CreatedAt == "" {
		r.CreatedAt = nowFunc().UTC().Format(time.RFC3339)
	}
}

// LoadReviews reads the moderation working set.
func (svc *Service) LoadReviews() ([]Review, error) {
	var reviews []Review
	if err := svc.store.Get(BucketAdminReviews, &reviews); err != nil {
		if err == core.ErrKeyNotFound {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(err, "reading "+BucketAdminReviews)
	}
	return reviews, nil
}

// SaveReviews writes the moderation working set back to its bucket.
func (svc *Service) SaveReviews(reviews []Review) error {
	return pkgerrors.Wrap(svc.store.Set(BucketAdminReviews, reviews), "writing "+BucketAdminReviews)
}

// Sync runs SyncReviews against the persisted working set and stores the result.
func (svc *Service) Sync() ([]Review, int, error) {
	existing, err := svc.LoadReviews()
	if err != nil {
		return nil, 0, err
	}
	merged, newCount := svc.SyncReviews(existing)
	if err := svc.SaveReviews(merged); err != nil {
		return nil, 0, err
	}
	return merged, newCount, nil
}

// Moderate sets the moderation status of a review in the working set.
func (svc *Service) Moderate(id, status string) (Review, error) {
	if status != StatusApproved && status != StatusRejected && status != StatusPending {
		err := fmt.Errorf("invalid review status %q", status)
		return Review{}, core.NewValidationError(err, core.FieldError{Field: "status", Error: err.Error()})
	}
	return svc.update(id, func(r *Review) { r.Status = status })
}

// Verify flips the verified flag of a review in the working set.
func (svc *Service) Verify(id string, verified bool) (Review, error) {
	return svc.update(id, func(r *Review) { r.Verified = verified })
}

// Delete removes a review from the working set.
func (svc *Service) Delete(id string) error {
	reviews, err := svc.LoadReviews()
	if err != nil {
		return err
	}
	for i, r := range reviews {
		if r.ID == id {
			reviews = append(reviews[:i], reviews[i+1:]...)
			return svc.SaveReviews(reviews)
		}
	}
	return ErrNotFound
}

func (svc *Service) update(id string, mutate func(*Review)) (Review, error) {
	reviews, err := svc.LoadReviews()
	if err != nil {
		return Review{}, err
	}
	for i := range reviews {
		if reviews[i].ID != id {
			continue
		}
		mutate(&reviews[i])
		reviews[i].UpdatedAt = nowFunc().UTC().Format(time.RFC3339)
		if err := svc.SaveReviews(reviews); err != nil {
			return Review{}, err
		}
		return reviews[i], nil
	}
	return Review{}, ErrNotFound
}
