// internal/words/remote.go
//
// HTTP client for a remote word service (words.dev-apis.com compatible).
//
// Endpoints:
//   - GET  {base}/word-of-the-day?random=1 → {"word": "crane"}
//   - POST {base}/validate-word {"word": "crane"} → {"word": "crane", "validWord": true}
//
// Network errors and 5xx responses are retried with exponential back-off;
// any other non-200 status fails immediately. A random word that is not
// Length letters of A-Z is reported as ErrRemoteWord.

package words

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
)

// DefaultRemoteURL is the public word-of-the-day API.
const DefaultRemoteURL = "https://words.dev-apis.com"

// ErrRemoteStatus wraps unexpected HTTP statuses from the word service.
var ErrRemoteStatus = errors.New("words: unexpected status")

// ErrRemoteWord is returned when the service hands back a word the game
// cannot use.
var ErrRemoteWord = errors.New("words: unusable remote word")

// RemoteOptions configures a Remote.
type RemoteOptions struct {
	BaseURL  string
	Length   int           // required word length; 0 accepts any
	Timeout  time.Duration // per request
	Attempts uint          // total tries per call, including the first
	Delay    time.Duration // initial back-off delay
}

// Remote implements Source and Validator against the word service.
type Remote struct {
	baseURL    string
	length     int
	httpClient *http.Client
	attempts   uint
	delay      time.Duration
}

// NewRemote builds a Remote; zero options take defaults.
func NewRemote(opts RemoteOptions) *Remote {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultRemoteURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Attempts == 0 {
		opts.Attempts = 3
	}
	if opts.Delay <= 0 {
		opts.Delay = 200 * time.Millisecond
	}
	return &Remote{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		length:     opts.Length,
		httpClient: &http.Client{Timeout: opts.Timeout},
		attempts:   opts.Attempts,
		delay:      opts.Delay,
	}
}

type wordRes struct {
	Word string `json:"word"`
}

type validateReq struct {
	Word string `json:"word"`
}

type validateRes struct {
	Word      string `json:"word"`
	ValidWord bool   `json:"validWord"`
}

// RandomWord fetches a random secret word, upper-cased.
func (c *Remote) RandomWord(ctx context.Context) (string, error) {
	var out wordRes
	err := c.do(ctx, "random-word", func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/word-of-the-day?random=1", nil)
	}, &out)
	if err != nil {
		return "", err
	}
	w := strings.ToUpper(strings.TrimSpace(out.Word))
	if !fits(w, c.length) {
		return "", fmt.Errorf("%w: %q", ErrRemoteWord, w)
	}
	return w, nil
}

// fits reports whether w is a non-empty A-Z word of the given length.
// A length of 0 accepts any length.
func fits(w string, length int) bool {
	if w == "" || !isAlpha(w) {
		return false
	}
	return length <= 0 || len(w) == length
}

// Validate asks the service whether word is a real word.
func (c *Remote) Validate(ctx context.Context, word string) (bool, error) {
	body, err := json.Marshal(validateReq{Word: strings.ToLower(strings.TrimSpace(word))})
	if err != nil {
		return false, err
	}
	var out validateRes
	err = c.do(ctx, "validate-word", func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/validate-word", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}, &out)
	if err != nil {
		return false, err
	}
	return out.ValidWord, nil
}

// do performs one logical call with retries and decodes a JSON body into out.
// newReq is called per attempt so request bodies are fresh.
func (c *Remote) do(ctx context.Context, op string, newReq func() (*http.Request, error), out any) error {
	err := retry.Do(
		func() error {
			req, err := newReq()
			if err != nil {
				return retry.Unrecoverable(err)
			}
			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode >= 500 {
				return fmt.Errorf("%w %d", ErrRemoteStatus, resp.StatusCode)
			}
			if resp.StatusCode != http.StatusOK {
				return retry.Unrecoverable(fmt.Errorf("%w %d", ErrRemoteStatus, resp.StatusCode))
			}
			data, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}
			if err := json.Unmarshal(data, out); err != nil {
				return retry.Unrecoverable(fmt.Errorf("words: decode %s: %w", op, err))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().Err(err).Uint("attempt", n+1).Str("op", op).Msg("word service retry")
		}),
	)
	if err != nil {
		return fmt.Errorf("words: %s: %w", op, err)
	}
	return nil
}
