package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/clinigoal/backoffice/apps/api/echo"
	"github.com/clinigoal/backoffice/core"
	"github.com/clinigoal/backoffice/core/payment"
	"github.com/clinigoal/backoffice/core/quiz"
	"github.com/clinigoal/backoffice/core/review"
	"github.com/clinigoal/backoffice/core/user"
	"github.com/clinigoal/backoffice/services/email"
	"github.com/clinigoal/backoffice/storage/kvstore/dummy"
	"github.com/clinigoal/backoffice/tests"
)

var (
	conf  *core.Config
	app   Server
	store *dummystore.Store

	usrSvc  *user.Service
	paySvc  *payment.Service
	revSvc  *review.Service
	tracker *quiz.Tracker

	admin    user.User
	nonAdmin user.User

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
)

func TestMain(m *testing.M) {
	conf = testutil.NewConfig()
	logSvc := testutil.NewLogger()
	store = testutil.NewStore()

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	usrSvc = user.NewService(store, logSvc)
	paySvc = payment.NewService(store, mailSvc, logSvc)
	revSvc = review.NewService(store, logSvc)
	tracker = quiz.NewTracker(store, logSvc)

	// set up server
	app = NewServer(
		"",  /* addr */
		nil, /* shutdown */
		&Deps{
			Conf:       conf,
			Logger:     logSvc,
			UserSvc:    usrSvc,
			PaymentSvc: paySvc,
			ReviewSvc:  revSvc,
			Tracker:    tracker,
		},
	)

	// accounts used across the tests
	var err error
	admin = user.User{Name: "Admin", Email: "admin@test.cd", IsAdmin: true, IsActive: true}
	if err = admin.SetPassword("long enough"); err != nil {
		fmt.Printf("SetPassword(): %v", err)
		os.Exit(1)
	}
	if admin, err = usrSvc.UpdateOrCreate(admin); err != nil {
		fmt.Printf("UpdateOrCreate(): %v", err)
		os.Exit(1)
	}
	nonAdmin = user.User{Name: "Viewer", Email: "viewer@test.cd", IsActive: true}
	if err = nonAdmin.SetPassword("long enough"); err != nil {
		fmt.Printf("SetPassword(): %v", err)
		os.Exit(1)
	}
	if nonAdmin, err = usrSvc.UpdateOrCreate(nonAdmin); err != nil {
		fmt.Printf("UpdateOrCreate(): %v", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

// clearBuckets resets the data buckets between tests; account records are kept.
func clearBuckets(t *testing.T) {
	t.Helper()
	buckets := []string{
		payment.BucketUserPayments, payment.BucketAdminPayments, payment.BucketClinigoalPayments,
		payment.BucketUserDashboardPayments, payment.BucketPendingApprovals, payment.BucketPaidCourses,
		payment.BucketAdminApprovals,
		review.BucketClinigoalReviews, review.BucketStudentReviews, review.BucketUserDashboardReviews,
		review.BucketUserReviews, review.BucketAdminReviews,
		quiz.BucketWatchedVideos, quiz.BucketCompletedNotes, quiz.BucketCompletedQuizzes,
	}
	for _, bucket := range buckets {
		if err := store.Delete(bucket); err != nil {
			t.Fatalf("clearBuckets(%s): %v", bucket, err)
		}
	}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := GenerateToken(conf, GetUserClaims(conf, usr))
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj(): %v", err)
	}
	return data
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, tt.wantCode, rec.Code)
	assert.JSONEq(t, string(tt.wantData), rec.Body.String())
}
