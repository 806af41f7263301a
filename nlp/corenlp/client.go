package corenlp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/flarexio/docsift"
	"github.com/flarexio/docsift/nlp"
)

// Client talks to a CoreNLP-compatible annotation server, such as the one
// shipped with Stanza (stanza.server) or Stanford CoreNLP itself.
type Client struct {
	baseURL    string
	properties string
	client     *http.Client
	maxRetries int
}

func NewClient(cfg docsift.NLPConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("corenlp: url is required")
	}

	if _, err := url.Parse(cfg.URL); err != nil {
		return nil, err
	}

	props, err := json.Marshal(map[string]string{
		"annotators":   cfg.Annotators,
		"outputFormat": "json",
	})
	if err != nil {
		return nil, err
	}

	retries := 0
	if cfg.Retries != nil && *cfg.Retries > 0 {
		retries = *cfg.Retries
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		properties: string(props),
		client:     &http.Client{Timeout: cfg.Timeout.Duration()},
		maxRetries: retries,
	}, nil
}

type annotation struct {
	Sentences []struct {
		EntityMentions []struct {
			Text string `json:"text"`
			NER  string `json:"ner"`
		} `json:"entitymentions"`
	} `json:"sentences"`
}

func (c *Client) Entities(ctx context.Context, text string) ([]nlp.Entity, error) {
	if strings.TrimSpace(text) == "" {
		return []nlp.Entity{}, nil
	}

	payload, err := c.annotate(ctx, text)
	if err != nil {
		return nil, err
	}

	var doc annotation
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s", docsift.ErrInvalidNLPResponse, err.Error())
	}

	entities := make([]nlp.Entity, 0)
	for _, sentence := range doc.Sentences {
		for _, mention := range sentence.EntityMentions {
			entities = append(entities, nlp.Entity{
				Text: mention.Text,
				Type: mention.NER,
			})
		}
	}

	return entities, nil
}

func (c *Client) annotate(ctx context.Context, text string) ([]byte, error) {
	endpoint := c.baseURL + "/?properties=" + url.QueryEscape(c.properties)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay(attempt - 1)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(text))
		if err != nil {
			return nil, err
		}

		req.Header.Set("Content-Type", "text/plain; charset=utf-8")

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			lastErr = err
			continue
		}

		payload, err := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("corenlp: %s", resp.Status)
			continue
		}

		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("corenlp: %s: %s", resp.Status, strings.TrimSpace(string(payload)))
		}

		if err != nil {
			lastErr = err
			continue
		}

		return payload, nil
	}

	return nil, lastErr
}

func retryDelay(attempt int) time.Duration {
	d := 200 * time.Millisecond << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}

	return d
}
