package advisor

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	defaultMaxAttempts = 3
	requestTimeout     = 15 * time.Second
	retryBaseDelay     = 1 * time.Second
)

// Client talks to the recommendation service. Failed requests are retried
// with linear backoff up to the attempt cap; connection reuse is disabled
// so a hung socket never outlives its attempt.
type Client struct {
	URL string

	httpClient  *http.Client
	maxAttempts int
	baseDelay   time.Duration
	sleep       func(time.Duration)
}

// NewClient creates a recommendation service client
func NewClient(url string) *Client {
	return &Client{
		URL: url,
		httpClient: &http.Client{
			Timeout:   requestTimeout,
			Transport: &http.Transport{DisableKeepAlives: true},
		},
		maxAttempts: defaultMaxAttempts,
		baseDelay:   retryBaseDelay,
		sleep:       time.Sleep,
	}
}

// Chat sends the user's message with the recent conversation history and
// returns the decoded reply. After maxAttempts consecutive failures it
// returns nil: the service is unavailable and the caller decides what to
// tell the user. It never returns a transport error.
func (c *Client) Chat(history []Turn, message string) *Reply {
	if history == nil {
		history = []Turn{}
	}
	return c.fetch(chatRequest{
		ChatHistory: history,
		Message:     message,
		IsCards:     true,
		Preferences: map[string]interface{}{},
		OwnCardData: map[string]interface{}{},
	}, c.maxAttempts)
}

// Ping probes the service with a single attempt and no backoff.
func (c *Client) Ping() bool {
	return c.fetch(chatRequest{
		ChatHistory: []Turn{},
		Message:     "ping",
		IsCards:     false,
		Preferences: map[string]interface{}{},
		OwnCardData: map[string]interface{}{},
	}, 1) != nil
}

func (c *Client) fetch(payload chatRequest, maxAttempts int) *Reply {
	requestID := uuid.NewString()

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		reply, err := c.doRequest(payload, requestID)
		if err == nil {
			requestOutcomes.WithLabelValues("success").Inc()
			if log.IsLevelEnabled(log.DebugLevel) {
				log.Debugf("advisor reply (request_id=%s): %s", requestID, spew.Sdump(reply))
			}
			return reply
		}

		requestOutcomes.WithLabelValues("error").Inc()
		log.WithFields(log.Fields{
			"request_id": requestID,
			"attempt":    attempt,
		}).Warnf("advisor request failed: %v", err)

		if attempt < maxAttempts {
			c.sleep(time.Duration(attempt) * c.baseDelay)
		}
	}

	requestOutcomes.WithLabelValues("exhausted").Inc()
	log.WithField("request_id", requestID).Errorf("advisor unreachable after %d attempts", maxAttempts)
	return nil
}

func (c *Client) doRequest(payload chatRequest, requestID string) (*Reply, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "could not encode advisor request")
	}

	req, err := http.NewRequest(http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "could not build advisor request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "advisor request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, errors.Errorf("advisor returned status %d", resp.StatusCode)
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, errors.Wrap(err, "could not decode advisor response")
	}
	if decoded.Reply == nil {
		// A well-formed envelope always carries a reply object.
		return nil, errors.New("advisor response missing reply")
	}

	return decoded.Reply, nil
}
