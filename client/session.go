package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

type SessionState int

const (
	SessionIdle SessionState = iota
	SessionActive
	SessionEnded
)

func (s SessionState) String() string {
	switch s {
	case SessionIdle:
		return "idle"
	case SessionActive:
		return "active"
	case SessionEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// ErrInvalidTransition is returned when a tracker call does not match its
// current state, e.g. tracking before Start or ending twice.
type ErrInvalidTransition struct {
	From SessionState
	Op   string
}

func (e ErrInvalidTransition) Error() string {
	return fmt.Sprintf("cannot %s a session in state %s", e.Op, e.From)
}

// SessionTracker records one analytics session through explicit
// Idle -> Active -> Ended transitions. It is constructed per application
// session and passed to call sites; there is no package-level instance.
type SessionTracker struct {
	baseURL    string
	token      string
	httpClient *http.Client

	mu        sync.Mutex
	state     SessionState
	sessionID string
}

func NewSessionTracker(baseURL, token string) *SessionTracker {
	return &SessionTracker{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *SessionTracker) State() SessionState {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.state
}

func (t *SessionTracker) SessionID() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.sessionID
}

// Start opens a session on the server. Valid only from Idle.
func (t *SessionTracker) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != SessionIdle {
		return ErrInvalidTransition{From: t.state, Op: "start"}
	}

	var result struct {
		SessionID string `json:"session_id"`
	}

	if err := t.post(ctx, "/api/analytics/sessions", nil, &result); err != nil {
		return err
	}

	t.sessionID = result.SessionID
	t.state = SessionActive

	return nil
}

// Track records a named event with optional properties. Valid only while
// Active.
func (t *SessionTracker) Track(ctx context.Context, name string, properties map[string]interface{}) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != SessionActive {
		return ErrInvalidTransition{From: t.state, Op: "track on"}
	}

	payload := map[string]interface{}{
		"session_id": t.sessionID,
		"name":       name,
	}

	if properties != nil {
		props, err := json.Marshal(properties)

		if err != nil {
			return err
		}

		payload["properties"] = json.RawMessage(props)
	}

	return t.post(ctx, "/api/analytics/events", payload, nil)
}

// End closes the session. Valid only from Active; the tracker cannot be
// restarted afterwards.
func (t *SessionTracker) End(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != SessionActive {
		return ErrInvalidTransition{From: t.state, Op: "end"}
	}

	path := "/api/analytics/sessions/" + t.sessionID + "/end"

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, t.baseURL+path, nil)

	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+t.token)

	resp, err := t.httpClient.Do(req)

	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("end session failed with status %d", resp.StatusCode)
	}

	t.state = SessionEnded

	return nil
}

func (t *SessionTracker) post(ctx context.Context, path string, payload interface{}, result interface{}) error {
	var body bytes.Buffer

	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, &body)

	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.token)

	resp, err := t.httpClient.Do(req)

	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s failed with status %d", path, resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}
