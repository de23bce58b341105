package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TransportError covers network failures, timeouts, non-2xx answers and
// undecodable bodies when talking to the gateway. Callers treat it as "the
// outcome is unknown": nothing may be mutated and the operation is retryable.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gateway %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RejectedError means the gateway answered but refused to open a session.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	if e.Reason == "" {
		return "gateway rejected the session request"
	}
	return "gateway rejected the session request: " + e.Reason
}

// Client speaks the gateway's form-encoded wire protocol. The zero value is
// not usable; construct it with NewClient, or fill the fields directly in
// tests to point at a local server.
type Client struct {
	StoreID       string
	StorePassword string
	SessionURL    string
	ValidationURL string
	HTTPClient    *http.Client
}

func NewClient(storeID, storePassword string, live bool, timeout time.Duration) *Client {
	sessionURL := sandboxSessionURL
	validationURL := sandboxValidationURL
	if live {
		sessionURL = liveSessionURL
		validationURL = liveValidationURL
	}

	return &Client{
		StoreID:       storeID,
		StorePassword: storePassword,
		SessionURL:    sessionURL,
		ValidationURL: validationURL,
		HTTPClient:    &http.Client{Timeout: timeout},
	}
}

// CreateSession asks the gateway to open a hosted payment session and returns
// the redirect URL the browser must navigate to. A *RejectedError carries the
// gateway's stated refusal; a *TransportError means the outcome is unknown.
func (c *Client) CreateSession(ctx context.Context, request SessionRequest) (SessionResponse, error) {
	payload := request.formValues(c.StoreID, c.StorePassword).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.SessionURL, strings.NewReader(payload))
	if err != nil {
		return SessionResponse{}, &TransportError{Op: "session init", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return SessionResponse{}, &TransportError{Op: "session init", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return SessionResponse{}, &TransportError{Op: "session init", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return SessionResponse{}, &TransportError{Op: "session init", Err: err}
	}

	var session SessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		return SessionResponse{}, &TransportError{Op: "session init", Err: err}
	}

	if session.Status != StatusSuccess || session.GatewayPageURL == "" {
		return SessionResponse{}, &RejectedError{Reason: session.FailedReason}
	}

	return session, nil
}

// ValidateTransaction exchanges a gateway-issued val_id for the authoritative
// transaction record. It only fails on transport problems; interpreting the
// returned status is the caller's job.
func (c *Client) ValidateTransaction(ctx context.Context, valID string) (ValidationResponse, error) {
	params := url.Values{}
	params.Set("val_id", valID)
	params.Set("store_id", c.StoreID)
	params.Set("store_passwd", c.StorePassword)
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ValidationURL+"?"+params.Encode(), nil)
	if err != nil {
		return ValidationResponse{}, &TransportError{Op: "validation", Err: err}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return ValidationResponse{}, &TransportError{Op: "validation", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ValidationResponse{}, &TransportError{Op: "validation", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ValidationResponse{}, &TransportError{Op: "validation", Err: err}
	}

	var validation ValidationResponse
	if err := json.Unmarshal(body, &validation); err != nil {
		return ValidationResponse{}, &TransportError{Op: "validation", Err: err}
	}

	return validation, nil
}
