package searchclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/meetupaws/property_search/listings/internal/model"
)

const (
	DefaultBaseURL = "http://localhost:8000"
	searchPath     = "/api/search"
)

type searchRequest struct {
	Query string `json:"query"`
}

type searchResponse struct {
	Properties []model.Listing `json:"properties"`
}

type errorResponse struct {
	Detail interface{} `json:"detail"`
}

type ctxKey struct{}

// WithSearchID tags ctx so the client logs carry the id of the submission they belong to.
func WithSearchID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// Client talks to the natural-language property search service.
// No timeout is set on the default HTTP client; callers bound requests through ctx if they need to.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	Logger     logrus.FieldLogger
}

// NewClient initialises a Client for the service at baseURL.
func NewClient(baseURL string, logger logrus.FieldLogger) *Client {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Client{
		HTTPClient: http.DefaultClient,
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		Logger:     logger,
	}
}

// Search posts query to the search endpoint and returns the listings it answers with.
// Failures are *TransportError, *ServiceError or *MalformedResponseError.
func (c *Client) Search(ctx context.Context, query string) ([]model.Listing, error) {
	log := c.Logger.WithField("query", query)
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		log = log.WithField("search_id", id)
	}

	body, err := json.Marshal(searchRequest{Query: query})
	if err != nil {
		return nil, &TransportError{Err: errors.Wrap(err, "could not encode search request")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+searchPath, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Err: errors.Wrap(err, "could not create http request")}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	log.Debug("sending search request")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.WithError(err).Error("search request failed")
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	log = log.WithField("status", resp.StatusCode)
	log.Debug("search response received")

	raw, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := ""
		if readErr == nil {
			detail = parseDetail(raw)
		}
		log.WithField("detail", detail).Error("search service returned an error")
		return nil, &ServiceError{StatusCode: resp.StatusCode, Detail: detail}
	}

	if readErr != nil {
		log.WithError(readErr).Error("could not read search response")
		return nil, &TransportError{Err: errors.Wrap(readErr, "could not read search response")}
	}

	listings, err := decodeListings(raw)
	if err != nil {
		log.WithError(err).Error("malformed search response")
		return nil, &MalformedResponseError{Err: err}
	}

	log.WithField("count", len(listings)).Debug("search response decoded")
	return listings, nil
}

func decodeListings(raw []byte) ([]model.Listing, error) {
	if err := validateResponse(raw); err != nil {
		return nil, errors.Wrap(err, "invalid search response")
	}

	var payload searchResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, errors.Wrap(err, "could not decode search response")
	}

	if payload.Properties == nil {
		return []model.Listing{}, nil
	}
	return payload.Properties, nil
}

// parseDetail returns the string detail of an error body, or "" when there is none.
func parseDetail(raw []byte) string {
	var body errorResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	detail, _ := body.Detail.(string)
	return detail
}
