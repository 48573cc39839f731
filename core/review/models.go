package review

import "github.com/clinigoal/backoffice/core"

// Review statuses
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Review is a course review discovered in one of the review buckets or held
// in the admin moderation working set. JSON tags match the dashboard
// frontend's casing.
type Review struct {
	ID          string `json:"id"`
	UserName    string `json:"userName"`
	UserEmail   string `json:"userEmail"`
	CourseID    string `json:"courseId"`
	CourseTitle string `json:"courseTitle"`
	Rating      int    `json:"rating"` // 1-5
	Text        string `json:"text"`
	Status      string `json:"status"`
	Verified    bool   `json:"verified"`
	CreatedAt   string `json:"createdAt"` // ISO-8601
	UpdatedAt   string `json:"updatedAt"`
}

// Email returns the reviewer email, synthesizing one from the user name when absent.
func (r Review) Email() string {
	if r.UserEmail != "" {
		return r.UserEmail
	}
	return core.SyntheticEmail(r.UserName)
}

// compositeKey identifies a review lacking a reliable identifier. Dedup by
// this key is best-effort string equality; it is deliberately not
// strengthened (fuzzy matching would change which records survive a merge).
func (r Review) compositeKey() string {
	return r.CourseID + "|" + r.UserName + "|" + r.Text
}
