package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	. "github.com/clinigoal/backoffice/apps/api/echo"
	"github.com/clinigoal/backoffice/core/payment"
	"github.com/clinigoal/backoffice/tests"
)

func Test_paymentApi_auth(t *testing.T) {
	tests := []httpTest{
		{name: "payments: no token", method: http.MethodGet, path: "/v1/payments", wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{name: "payments: admin required", method: http.MethodGet, path: "/v1/payments", token: getToken(t, nonAdmin), wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden)},
		{name: "sync: no token", method: http.MethodPost, path: "/v1/payments/sync", wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{name: "approvals: no token", method: http.MethodGet, path: "/v1/approvals", wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{name: "approvals: admin required", method: http.MethodPut, path: "/v1/approvals/enr_1", token: getToken(t, nonAdmin), wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_paymentApi_list(t *testing.T) {
	clearBuckets(t)
	token := getToken(t, admin)

	payments := []payment.Payment{
		{ID: "pay_1", CourseID: "c1", CourseTitle: "Anatomy", StudentName: "John Doe", StudentEmail: "john@test.cd", Status: payment.StatusCompleted},
	}
	testutil.Seed(t, store, payment.BucketUserPayments, payments)
	// duplicate of pay_1 in a later bucket disappears from the listing
	testutil.Seed(t, store, payment.BucketAdminPayments, payments)

	req, rec := newAuthRequest(http.MethodGet, "/v1/payments", token)
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
	}
	var resp CollectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Payments) != 1 || resp.Payments[0].ID != "pay_1" {
		t.Errorf("payments = %+v", resp.Payments)
	}
	if resp.Payments[0].Source != payment.BucketUserPayments {
		t.Errorf("source = %q", resp.Payments[0].Source)
	}
	if len(resp.Approvals) != 0 {
		t.Errorf("approvals = %+v", resp.Approvals)
	}
}

func Test_paymentApi_syncAndDecide(t *testing.T) {
	clearBuckets(t)
	token := getToken(t, admin)

	testutil.Seed(t, store, payment.BucketUserPayments, []payment.Payment{
		{ID: "pay_1", CourseID: "c1", CourseTitle: "Anatomy", StudentName: "John Doe", StudentEmail: "john@test.cd", Status: payment.StatusCompleted},
	})

	// first sync discovers the enrollment
	req, rec := newAuthRequest(http.MethodPost, "/v1/payments/sync", token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
	}
	var resp SyncApprovalsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.NewCount != 1 || len(resp.Approvals) != 1 {
		t.Fatalf("sync = %d new, %d approvals", resp.NewCount, len(resp.Approvals))
	}
	appr := resp.Approvals[0]
	if appr.Status != payment.ApprovalPending || !appr.IsPaid {
		t.Errorf("approval = %+v", appr)
	}

	// the second sync is a no-op
	req, rec = newAuthRequest(http.MethodPost, "/v1/payments/sync", token)
	app.ServeHTTP(rec, req)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.NewCount != 0 || len(resp.Approvals) != 1 {
		t.Errorf("second sync = %d new, %d approvals", resp.NewCount, len(resp.Approvals))
	}

	// the working set is served as-is
	req, rec = newAuthRequest(http.MethodGet, "/v1/approvals", token)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marshallObj(t, resp.Approvals)}, rec)

	// decide
	decideTests := []httpTest{
		{
			name:     "invalid status",
			path:     fmt.Sprintf("/v1/approvals/%s", appr.ID),
			body:     []byte(`{"status": "lol"}`),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"status": "status must be one of [approved rejected]"}),
		},
		{
			name:     "not found",
			path:     "/v1/approvals/enr_404",
			body:     []byte(`{"status": "approved"}`),
			wantCode: http.StatusNotFound,
			wantData: marshallObj(t, httpErr{Error: "not found"}),
		},
	}
	for _, tt := range decideTests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPut, tt.path, token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("approved", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, fmt.Sprintf("/v1/approvals/%s", appr.ID), token, []byte(`{"status": "approved"}`))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var decided payment.Approval
		if err := json.Unmarshal(rec.Body.Bytes(), &decided); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if decided.Status != payment.ApprovalApproved {
			t.Errorf("status = %q", decided.Status)
		}

		// persisted
		approvals, err := paySvc.LoadApprovals()
		if err != nil {
			t.Fatalf("LoadApprovals(): %v", err)
		}
		if approvals[0].Status != payment.ApprovalApproved {
			t.Errorf("persisted status = %q", approvals[0].Status)
		}
	})
}
