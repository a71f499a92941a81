package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"

	"ctd/internal/models"
	"ctd/internal/providers"
	"ctd/internal/structures"
)

const maxResponseBodySize = 1 << 20 // 1 MB

type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ClientInterface interface {
	FetchCase(ctx context.Context, caseID string) (*models.CaseSnapshot, error)
	StartTimer(ctx context.Context, caseID string) (string, error)
	StopTimer(ctx context.Context, caseID string) (string, error)
	Finalize(ctx context.Context, caseID string) error
}

// Client talks to the case backend. Fetches are read-only and idempotent;
// start/stop are not idempotent at the transport level and are never
// retried here — duplicate-submission gating is the caller's job.
type Client struct {
	baseURL string
	http    *http.Client
	logger  providers.Logger
}

func NewClient(conf *structures.Config, logger providers.Logger) ClientInterface {
	return &Client{
		baseURL: strings.TrimRight(conf.Backend.BaseURL, "/"),
		http:    &http.Client{Timeout: conf.Backend.Timeout},
		logger:  logger,
	}
}

func (c *Client) caseURL(caseID, suffix string) string {
	return c.baseURL + "/cases/" + url.PathEscape(caseID) + suffix
}

func (c *Client) FetchCase(ctx context.Context, caseID string) (*models.CaseSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.caseURL(caseID, ""), nil)
	if err != nil {
		return nil, &TransportError{Op: "fetch", Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "fetch", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &NotFoundError{CaseID: caseID}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{Op: "fetch", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var snapshot models.CaseSnapshot
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBodySize)).Decode(&snapshot); err != nil {
		return nil, &TransportError{Op: "fetch", Err: err}
	}
	if snapshot.CaseID == "" {
		snapshot.CaseID = caseID
	}
	return &snapshot, nil
}

func (c *Client) StartTimer(ctx context.Context, caseID string) (string, error) {
	return c.timeAction(ctx, caseID, "start")
}

func (c *Client) StopTimer(ctx context.Context, caseID string) (string, error) {
	return c.timeAction(ctx, caseID, "stop")
}

func (c *Client) timeAction(ctx context.Context, caseID, action string) (string, error) {
	result, err := c.post(ctx, action, c.caseURL(caseID, "/time/"+action))
	if err != nil {
		return "", err
	}
	if !result.Success {
		c.logger.Debugf(providers.TypeBackend, "Backend rejected %s for case %s: %s", action, caseID, result.Message)
		return "", &BusinessRejection{Message: result.Message}
	}
	return result.Message, nil
}

func (c *Client) Finalize(ctx context.Context, caseID string) error {
	result, err := c.post(ctx, "finalize", c.caseURL(caseID, "/finalize"))
	if err != nil {
		return err
	}
	if !result.Success {
		return &BusinessRejection{Message: result.Message}
	}
	return nil
}

// post decodes the backend's {success, message} envelope. A response body
// that does not parse as the envelope counts as a transport failure.
func (c *Client) post(ctx context.Context, op, rawURL string) (*ActionResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, nil)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	var result ActionResult
	if err := json.Unmarshal(body, &result); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &TransportError{Op: op, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
		}
		return nil, &TransportError{Op: op, Err: err}
	}
	return &result, nil
}

// IsBusinessRejection reports whether err is a backend success:false reply.
func IsBusinessRejection(err error) bool {
	var rejection *BusinessRejection
	return errors.As(err, &rejection)
}
