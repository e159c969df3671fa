// Package client is the Go consumer of the summit API: a polling feed for
// the group chat and an explicit session tracker for analytics.
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

const DefaultPollInterval = 5 * time.Second

type Sender struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type ReactionGroup struct {
	Emoji            string   `json:"emoji"`
	Count            int      `json:"count"`
	Users            []string `json:"users"`
	ViewerHasReacted bool     `json:"viewer_has_reacted"`
}

type Message struct {
	ID        uint            `json:"id"`
	Content   string          `json:"content"`
	CreatedAt time.Time       `json:"created_at"`
	Sender    Sender          `json:"sender"`
	Reactions []ReactionGroup `json:"reactions"`
}

// FeedClient keeps a local snapshot of the group chat fresh by re-fetching
// the full message list on a fixed interval and replacing the snapshot
// wholesale. The server is the sole ordering authority; the client never
// reorders or merges.
type FeedClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	interval   time.Duration
	onUpdate   func([]Message)

	mu       sync.RWMutex
	messages []Message

	refresh chan struct{}
	cancel  context.CancelFunc
	done    chan struct{}
}

type FeedOption func(*FeedClient)

func WithPollInterval(interval time.Duration) FeedOption {
	return func(c *FeedClient) {
		c.interval = interval
	}
}

func WithHTTPClient(httpClient *http.Client) FeedOption {
	return func(c *FeedClient) {
		c.httpClient = httpClient
	}
}

// WithOnUpdate registers a callback fired after every snapshot replacement,
// successful poll or explicit refresh alike. Callers typically re-render
// and scroll to the newest message here.
func WithOnUpdate(onUpdate func([]Message)) FeedOption {
	return func(c *FeedClient) {
		c.onUpdate = onUpdate
	}
}

func NewFeedClient(baseURL, token string, opts ...FeedOption) *FeedClient {
	client := &FeedClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		interval:   DefaultPollInterval,
		refresh:    make(chan struct{}, 1),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Start fetches once immediately, then polls until the context is
// cancelled or Stop is called.
func (c *FeedClient) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})

	go func() {
		defer close(c.done)

		c.poll(ctx)

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.poll(ctx)
			case <-c.refresh:
				c.poll(ctx)
			}
		}
	}()
}

// Stop ends the polling loop and waits for it to exit.
func (c *FeedClient) Stop() {
	if c.cancel != nil {
		c.cancel()
		<-c.done
	}
}

// Messages returns the current snapshot.
func (c *FeedClient) Messages() []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot := make([]Message, len(c.messages))
	copy(snapshot, c.messages)

	return snapshot
}

// Send posts a message and triggers an immediate refetch so the sender sees
// their own message without waiting for the next tick. A missed trigger is
// fine: the next poll picks the message up anyway.
func (c *FeedClient) Send(ctx context.Context, content string) error {
	body, err := json.Marshal(map[string]string{"content": content})

	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/group-chat/messages", bytes.NewReader(body))

	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)

	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("send failed with status %d", resp.StatusCode)
	}

	select {
	case c.refresh <- struct{}{}:
	default:
	}

	return nil
}

func (c *FeedClient) poll(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/group-chat/messages", nil)

	if err != nil {
		return
	}

	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)

	if err != nil {
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return
	}

	var messages []Message

	if err := json.NewDecoder(resp.Body).Decode(&messages); err != nil {
		return
	}

	// Replace the snapshot wholesale; no delta reconciliation.
	c.mu.Lock()
	c.messages = messages
	c.mu.Unlock()

	if c.onUpdate != nil {
		c.onUpdate(messages)
	}
}
