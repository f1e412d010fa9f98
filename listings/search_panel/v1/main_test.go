package main

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/meetupaws/property_search/internal"
	"github.com/meetupaws/property_search/listings/internal/model"
	"github.com/meetupaws/property_search/listings/internal/searchclient"
)

type SearcherMock struct {
	mock.Mock
}

func (m *SearcherMock) Search(ctx context.Context, query string) ([]model.Listing, error) {
	args := m.Called(query)
	return args.Get(0).([]model.Listing), args.Error(1)
}

type EnqueuerMock struct {
	mock.Mock
}

func (m *EnqueuerMock) SendMsg(ctx context.Context, msg interface{}, msgType string, queue string) error {
	ret := m.Called(msg, msgType, queue)
	return ret.Error(0)
}

func settledWith(query string, ids []string, errMsg string) interface{} {
	return mock.MatchedBy(func(msg model.QueueMsgSearchSettled) bool {
		return msg.SearchID != "" &&
			msg.Query == query &&
			cmp.Equal(ids, msg.ListingIDs) &&
			msg.Error == errMsg
	})
}

func TestAdapter(t *testing.T) {

	type mocks struct {
		searcher *SearcherMock
		enqueuer *EnqueuerMock
	}

	type args struct {
		eventsQueue string
	}

	listing := model.Listing{ID: "1", Name: "A", Price: 50000, Features: []string{"balcony"}, PetFriendly: true}

	tests := []struct {
		name         string
		req          events.APIGatewayProxyRequest
		args         args
		mocks        mocks
		mocker       func(m mocks, a args)
		want         events.APIGatewayProxyResponse
		wantContains []string
	}{
		{
			name: "Render the idle panel on GET",
			req: events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodGet,
			},
			mocks:  mocks{searcher: &SearcherMock{}, enqueuer: &EnqueuerMock{}},
			mocker: func(m mocks, a args) {},
			want: events.APIGatewayProxyResponse{
				StatusCode: http.StatusOK,
				Headers:    map[string]string{"Content-Type": internal.ContentTypeHTML},
			},
			wantContains: []string{">Search</button>", "No properties found"},
		},
		{
			name: "Render the listings found for a form submission and publish the settled search",
			req: events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodPost,
				Headers:    map[string]string{"Content-Type": "application/x-www-form-urlencoded"},
				Body:       "query=pet+friendly",
			},
			args:  args{eventsQueue: "search-events"},
			mocks: mocks{searcher: &SearcherMock{}, enqueuer: &EnqueuerMock{}},
			mocker: func(m mocks, a args) {
				m.searcher.On("Search", "pet friendly").Return([]model.Listing{listing}, nil).Once()
				m.enqueuer.On(
					"SendMsg",
					settledWith("pet friendly", []string{"1"}, ""),
					model.QueueMsgTypeSearchSettled,
					a.eventsQueue,
				).Return(nil).Once()
			},
			want: events.APIGatewayProxyResponse{
				StatusCode: http.StatusOK,
				Headers:    map[string]string{"Content-Type": internal.ContentTypeHTML},
			},
			wantContains: []string{`value="pet friendly"`, `data-key="1"`, "¥50,000", "Pet friendly"},
		},
		{
			name: "Render the service detail when the search fails",
			req: events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodPost,
				Body:       "query=%3F%3F",
			},
			args:  args{eventsQueue: "search-events"},
			mocks: mocks{searcher: &SearcherMock{}, enqueuer: &EnqueuerMock{}},
			mocker: func(m mocks, a args) {
				m.searcher.On("Search", "??").
					Return([]model.Listing(nil), &searchclient.ServiceError{StatusCode: 400, Detail: "bad query"}).
					Once()
				m.enqueuer.On(
					"SendMsg",
					settledWith("??", []string{}, "bad query"),
					model.QueueMsgTypeSearchSettled,
					a.eventsQueue,
				).Return(errors.New("queue unavailable")).Once()
			},
			want: events.APIGatewayProxyResponse{
				StatusCode: http.StatusOK,
				Headers:    map[string]string{"Content-Type": internal.ContentTypeHTML},
			},
			wantContains: []string{`<p class="search-error">bad query</p>`, "No properties found"},
		},
		{
			name: "Return the settled state as JSON for a JSON request",
			req: events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodPost,
				Headers:    map[string]string{"content-type": "application/json"},
				Body:       `{"query": "pets"}`,
			},
			mocks: mocks{searcher: &SearcherMock{}, enqueuer: &EnqueuerMock{}},
			mocker: func(m mocks, a args) {
				m.searcher.On("Search", "pets").Return([]model.Listing{listing}, nil).Once()
			},
			want: events.APIGatewayProxyResponse{
				StatusCode: http.StatusOK,
				Headers:    map[string]string{"Content-Type": internal.ContentTypeJSON},
				Body: internal.TrimLines(`{
					"query": "pets",
					"properties": [
						{
							"id": "1",
							"name": "A",
							"description": "",
							"price": 50000,
							"location": "",
							"features": ["balcony"],
							"available": false,
							"pet_friendly": true,
							"distance_to_station": 0,
							"freelancer_friendly": false
						}
					],
					"is_loading": false,
					"error": ""
				}`),
			},
		},
		{
			name: "Get a 400 status because the JSON request misses the query",
			req: events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodPost,
				Headers:    map[string]string{"Content-Type": "application/json"},
				Body:       `{"q": "pets"}`,
			},
			mocks:  mocks{searcher: &SearcherMock{}, enqueuer: &EnqueuerMock{}},
			mocker: func(m mocks, a args) {},
			want: events.APIGatewayProxyResponse{
				StatusCode: http.StatusBadRequest,
				Headers:    map[string]string{"Content-Type": internal.ContentTypeJSON},
				Body:       `{"errors":["(root): query is required"]}`,
			},
		},
		{
			name: "Decode a base64 encoded form body",
			req: events.APIGatewayProxyRequest{
				HTTPMethod:      http.MethodPost,
				Body:            "cXVlcnk9cGV0cw==",
				IsBase64Encoded: true,
			},
			mocks: mocks{searcher: &SearcherMock{}, enqueuer: &EnqueuerMock{}},
			mocker: func(m mocks, a args) {
				m.searcher.On("Search", "pets").Return([]model.Listing{listing}, nil).Once()
			},
			want: events.APIGatewayProxyResponse{
				StatusCode: http.StatusOK,
				Headers:    map[string]string{"Content-Type": internal.ContentTypeHTML},
			},
			wantContains: []string{`value="pets"`, `data-key="1"`},
		},
		{
			name: "Get a 400 status because the base64 body is corrupt",
			req: events.APIGatewayProxyRequest{
				HTTPMethod:      http.MethodPost,
				Body:            "%%%%",
				IsBase64Encoded: true,
			},
			mocks:  mocks{searcher: &SearcherMock{}, enqueuer: &EnqueuerMock{}},
			mocker: func(m mocks, a args) {},
			want: events.APIGatewayProxyResponse{
				StatusCode: http.StatusBadRequest,
				Headers:    map[string]string{"Content-Type": internal.ContentTypeJSON},
				Body:       `{"errors":["illegal base64 data at input byte 0"]}`,
			},
		},
		{
			name: "Get a 405 status for other methods",
			req: events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodDelete,
			},
			mocks:  mocks{searcher: &SearcherMock{}, enqueuer: &EnqueuerMock{}},
			mocker: func(m mocks, a args) {},
			want: events.APIGatewayProxyResponse{
				StatusCode: http.StatusMethodNotAllowed,
				Headers:    map[string]string{"Content-Type": internal.ContentTypeJSON},
				Body:       `{"errors":["method_not_allowed"]}`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			tt.mocker(tt.mocks, tt.args)
			logger, _ := test.NewNullLogger()

			// Act
			handler := Adapter(tt.mocks.searcher, tt.mocks.enqueuer, tt.args.eventsQueue, logger)
			got, err := handler(context.Background(), tt.req)

			// Assert
			require.NoError(t, err)
			for _, s := range tt.wantContains {
				require.Contains(t, got.Body, s)
			}
			if tt.wantContains != nil {
				got.Body = ""
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Differences: (-want,+got)\n%s", diff)
			}
			tt.mocks.searcher.AssertExpectations(t)
			tt.mocks.enqueuer.AssertExpectations(t)
		})
	}

}
