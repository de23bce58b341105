package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(sessionURL, validationURL string) *Client {
	return &Client{
		StoreID:       "teststore",
		StorePassword: "testpass",
		SessionURL:    sessionURL,
		ValidationURL: validationURL,
		HTTPClient:    &http.Client{Timeout: 2 * time.Second},
	}
}

func TestCreateSessionSuccess(t *testing.T) {
	var gotForm map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotForm = map[string]string{
			"store_id":     r.PostFormValue("store_id"),
			"tran_id":      r.PostFormValue("tran_id"),
			"total_amount": r.PostFormValue("total_amount"),
			"value_a":      r.PostFormValue("value_a"),
			"value_b":      r.PostFormValue("value_b"),
			"ipn_url":      r.PostFormValue("ipn_url"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"SUCCESS","sessionkey":"abc123","GatewayPageURL":"https://pay.example.com/session/abc123"}`))
	}))
	defer server.Close()

	client := testClient(server.URL, server.URL)
	session, err := client.CreateSession(context.Background(), SessionRequest{
		TransactionID: "TXN-aaa-1",
		Amount:        "449.99",
		Currency:      "BDT",
		IPNURL:        "https://shop.example.com/api/payment/ipn",
		OrderID:       "64f000000000000000000001",
		UserID:        "64f000000000000000000002",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if session.GatewayPageURL != "https://pay.example.com/session/abc123" {
		t.Errorf("unexpected gateway url: %s", session.GatewayPageURL)
	}
	if gotForm["store_id"] != "teststore" {
		t.Errorf("expected store_id teststore, got %s", gotForm["store_id"])
	}
	if gotForm["tran_id"] != "TXN-aaa-1" {
		t.Errorf("expected tran_id forwarded, got %s", gotForm["tran_id"])
	}
	if gotForm["total_amount"] != "449.99" {
		t.Errorf("expected total_amount 449.99, got %s", gotForm["total_amount"])
	}
	if gotForm["value_a"] != "64f000000000000000000001" {
		t.Errorf("expected order id in value_a, got %s", gotForm["value_a"])
	}
	if gotForm["value_b"] != "64f000000000000000000002" {
		t.Errorf("expected user id in value_b, got %s", gotForm["value_b"])
	}
	if gotForm["ipn_url"] == "" {
		t.Error("expected ipn_url to be sent")
	}
}

func TestCreateSessionRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"FAILED","failedreason":"store credentials invalid"}`))
	}))
	defer server.Close()

	client := testClient(server.URL, server.URL)
	_, err := client.CreateSession(context.Background(), SessionRequest{TransactionID: "TXN-x"})

	var rejected *RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected RejectedError, got %v", err)
	}
	if rejected.Reason != "store credentials invalid" {
		t.Errorf("expected reason from gateway, got %q", rejected.Reason)
	}
}

func TestCreateSessionMissingRedirectURLIsRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"SUCCESS","GatewayPageURL":""}`))
	}))
	defer server.Close()

	client := testClient(server.URL, server.URL)
	_, err := client.CreateSession(context.Background(), SessionRequest{TransactionID: "TXN-x"})

	var rejected *RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected RejectedError for empty redirect url, got %v", err)
	}
}

func TestCreateSessionNon2xxIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := testClient(server.URL, server.URL)
	_, err := client.CreateSession(context.Background(), SessionRequest{TransactionID: "TXN-x"})

	var transport *TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestCreateSessionUndecodableBodyIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer server.Close()

	client := testClient(server.URL, server.URL)
	_, err := client.CreateSession(context.Background(), SessionRequest{TransactionID: "TXN-x"})

	var transport *TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestValidateTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("val_id"); got != "val-777" {
			t.Errorf("expected val_id val-777, got %s", got)
		}
		if got := r.URL.Query().Get("store_id"); got != "teststore" {
			t.Errorf("expected store_id teststore, got %s", got)
		}
		w.Write([]byte(`{"status":"VALID","tran_id":"TXN-aaa-1","val_id":"val-777","amount":"449.99","currency":"BDT","value_a":"64f000000000000000000001","value_b":"64f000000000000000000002"}`))
	}))
	defer server.Close()

	client := testClient(server.URL, server.URL)
	validation, err := client.ValidateTransaction(context.Background(), "val-777")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if validation.Status != StatusValid {
		t.Errorf("expected VALID, got %s", validation.Status)
	}
	if validation.OrderID != "64f000000000000000000001" {
		t.Errorf("expected order id echoed in value_a, got %s", validation.OrderID)
	}
	if validation.TranID != "TXN-aaa-1" {
		t.Errorf("expected tran id, got %s", validation.TranID)
	}
}

func TestValidateTransactionTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := testClient(server.URL, server.URL)
	_, err := client.ValidateTransaction(context.Background(), "val-777")

	var transport *TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestIsSettledStatus(t *testing.T) {
	if !IsSettledStatus(StatusValid) || !IsSettledStatus(StatusValidated) {
		t.Error("VALID and VALIDATED must count as settled")
	}
	for _, status := range []string{StatusFailed, StatusSuccess, "", "valid", "PENDING"} {
		if IsSettledStatus(status) {
			t.Errorf("expected %q not to count as settled", status)
		}
	}
}
