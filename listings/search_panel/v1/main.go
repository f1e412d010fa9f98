package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/sirupsen/logrus"
	"github.com/xeipuuv/gojsonschema"

	"github.com/meetupaws/property_search/internal"
	"github.com/meetupaws/property_search/listings/internal/model"
	"github.com/meetupaws/property_search/listings/internal/panel"
	"github.com/meetupaws/property_search/listings/internal/searchclient"
)

type Handler func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

type Enqueuer interface {
	SendMsg(ctx context.Context, msg interface{}, msgType string, queue string) error
}

var requestSchema = gojsonschema.NewStringLoader(`{
	"type": "object",
	"required": ["query"],
	"properties": {
		"query": {"type": "string"}
	}
}`)

type Request struct {
	Query string `json:"query"`
}

// Adapter serves the search panel. GET renders the idle panel, POST searches for the
// submitted query and renders the settled panel. Search failures are rendered, not returned.
func Adapter(searcher panel.Searcher, enqueuer Enqueuer, eventsQueue string, logger logrus.FieldLogger) Handler {
	return func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		jsonMode := strings.HasPrefix(internal.HeaderValue(req.Headers, "Content-Type"), internal.ContentTypeJSON)

		switch req.HTTPMethod {
		case http.MethodGet, "":
			return respond(panel.New(searcher).State(), jsonMode), nil
		case http.MethodPost:
		default:
			return internal.Error(http.StatusMethodNotAllowed, errors.New("method_not_allowed")), nil
		}

		// Read the query
		body := req.Body
		if req.IsBase64Encoded {
			decoded, err := base64.StdEncoding.DecodeString(body)
			if err != nil {
				return internal.Error(http.StatusBadRequest, err), nil
			}
			body = string(decoded)
		}

		var query string
		if jsonMode {
			result, err := gojsonschema.Validate(requestSchema, gojsonschema.NewStringLoader(body))
			if err != nil {
				return internal.Error(http.StatusBadRequest, err), nil
			}
			if !result.Valid() {
				return internal.SchemaErrors(http.StatusBadRequest, result.Errors()), nil
			}
			request := Request{}
			if err := json.Unmarshal([]byte(body), &request); err != nil {
				return internal.Error(http.StatusBadRequest, err), nil
			}
			query = request.Query
		} else {
			form, err := url.ParseQuery(body)
			if err != nil {
				return internal.Error(http.StatusBadRequest, err), nil
			}
			query = form.Get("query")
		}

		// Search
		var outcome panel.Outcome
		p := panel.New(
			searcher,
			panel.WithLogger(logger),
			panel.WithSettleHook(func(_ panel.State, o panel.Outcome) {
				outcome = o
			}),
		)
		p.SetQuery(query)
		<-p.Submit(ctx)

		// Publish
		if eventsQueue != "" {
			msg := settledMessage(query, outcome)
			if err := enqueuer.SendMsg(ctx, msg, model.QueueMsgTypeSearchSettled, eventsQueue); err != nil {
				logger.WithError(err).WithField("search_id", outcome.SearchID).Error("could not publish settled search")
			}
		}

		// Respond
		return respond(p.State(), jsonMode), nil
	}
}

func respond(state panel.State, jsonMode bool) events.APIGatewayProxyResponse {
	if jsonMode {
		return internal.RespondJSON(http.StatusOK, state)
	}

	var buf bytes.Buffer
	if err := panel.Render(&buf, state); err != nil {
		return internal.Error(http.StatusInternalServerError, err)
	}
	return internal.RespondHTML(http.StatusOK, buf.String())
}

func settledMessage(query string, outcome panel.Outcome) model.QueueMsgSearchSettled {
	msg := model.QueueMsgSearchSettled{
		SearchID:   outcome.SearchID,
		Query:      query,
		ListingIDs: make([]string, 0, len(outcome.Listings)),
		Listings:   make([]model.ListingSummary, 0, len(outcome.Listings)),
	}
	if outcome.Failed {
		msg.Error = outcome.Message
		return msg
	}
	for _, l := range outcome.Listings {
		msg.ListingIDs = append(msg.ListingIDs, l.ID)
		msg.Listings = append(msg.Listings, model.ListingSummary{
			ID:       l.ID,
			Name:     l.Name,
			Price:    l.Price,
			Location: l.Location,
		})
	}
	return msg
}

func main() {
	logger := internal.NewLogger(internal.Getenv("LOG_LEVEL", "info"))
	searchURL := internal.Getenv("SEARCH_SERVICE_URL", searchclient.DefaultBaseURL)
	eventsQueue := internal.Getenv("SEARCH_EVENTS_QUEUE", "")

	var enqueuer Enqueuer
	if eventsQueue != "" {
		enqueuer = internal.NewEnqueuer(sqs.New(session.New()))
	}

	handler := Adapter(searchclient.NewClient(searchURL, logger), enqueuer, eventsQueue, logger)

	if addr := internal.Getenv("LOCAL_ADDR", ""); addr != "" {
		logger.WithField("addr", addr).Info("serving search panel locally")
		if err := internal.LocalGateway(internal.ProxyHandler(handler)).Run(addr); err != nil {
			logger.WithError(err).Fatal("local gateway stopped")
		}
		return
	}
	lambda.Start(handler)
}
