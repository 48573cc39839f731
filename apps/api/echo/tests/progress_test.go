package tests

import (
	"net/http"
	"testing"

	"github.com/clinigoal/backoffice/core/quiz"
	"github.com/clinigoal/backoffice/tests"
)

func Test_progressApi_retrieve(t *testing.T) {
	clearBuckets(t)

	t.Run("no token", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/progress")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)}, rec)
	})

	t.Run("admin required", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/progress", getToken(t, nonAdmin))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden)}, rec)
	})

	t.Run("empty", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/progress", getToken(t, admin))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marshallObj(t, quiz.Progress{})}, rec)
	})

	t.Run("ok", func(t *testing.T) {
		testutil.Seed(t, store, quiz.BucketWatchedVideos, []string{"v1", "v2"})
		testutil.Seed(t, store, quiz.BucketCompletedQuizzes, []string{"quiz_1"})

		req, rec := newAuthRequest(http.MethodGet, "/v1/progress", getToken(t, admin))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: marshallObj(t, quiz.Progress{
				WatchedVideos:    []string{"v1", "v2"},
				CompletedQuizzes: []string{"quiz_1"},
			}),
		}, rec)
	})
}
