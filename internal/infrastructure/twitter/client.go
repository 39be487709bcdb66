package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/oauth1"

	"EndoDigest/internal/domain"
	"EndoDigest/internal/ports"
)

const defaultAPIBase = "https://api.twitter.com/2"

// Credentials carries the four user-context OAuth1 secrets.
type Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	AccessSecret   string
}

// Client posts tweets through the v2 API with OAuth1 request signing.
// Thread parts are published as a reply chain, each part replying to the
// immediately preceding one.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ ports.Publisher = (*Client)(nil)

// NewClient builds a signing HTTP client from credentials.
func NewClient(creds Credentials) *Client {
	config := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)

	httpClient := config.Client(oauth1.NoContext, token)
	httpClient.Timeout = 10 * time.Second

	return &Client{baseURL: defaultAPIBase, httpClient: httpClient}
}

// Publish posts all parts in order and returns the external id of the first
// part. A mid-thread failure returns that id alongside the error, since the
// earlier parts are already live.
func (c *Client) Publish(ctx context.Context, post domain.Post) (string, error) {
	var first, prev string
	for i, part := range post.Parts {
		id, err := c.createTweet(ctx, part, prev)
		if err != nil {
			return first, fmt.Errorf("post part %d: %w", i+1, err)
		}
		if first == "" {
			first = id
		}
		prev = id
	}
	return first, nil
}

type tweetRequest struct {
	Text  string      `json:"text"`
	Reply *tweetReply `json:"reply,omitempty"`
}

type tweetReply struct {
	InReplyToTweetID string `json:"in_reply_to_tweet_id"`
}

func (c *Client) createTweet(ctx context.Context, text, inReplyTo string) (string, error) {
	payload := tweetRequest{Text: text}
	if inReplyTo != "" {
		payload.Reply = &tweetReply{InReplyToTweetID: inReplyTo}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal tweet: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tweets", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("twitter error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	var result struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if result.Data.ID == "" {
		return "", fmt.Errorf("twitter response carried no tweet id")
	}
	return result.Data.ID, nil
}
