package internal

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
)

// ProxyHandler is the shape of every API Gateway function in this repository.
type ProxyHandler func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// LocalGateway serves a ProxyHandler over plain HTTP so a function can run outside Lambda.
// Every path except /health is forwarded to the handler.
func LocalGateway(handler ProxyHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.NoRoute(func(c *gin.Context) {
		req, err := toProxyRequest(c)
		if err != nil {
			writeProxyResponse(c, Error(http.StatusBadRequest, err))
			return
		}

		resp, err := handler(c.Request.Context(), req)
		if err != nil {
			writeProxyResponse(c, Error(http.StatusBadGateway, err))
			return
		}
		writeProxyResponse(c, resp)
	})

	return router
}

func toProxyRequest(c *gin.Context) (events.APIGatewayProxyRequest, error) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return events.APIGatewayProxyRequest{}, err
	}

	headers := make(map[string]string, len(c.Request.Header))
	for k, v := range c.Request.Header {
		headers[k] = strings.Join(v, ",")
	}

	query := map[string]string{}
	for k, v := range c.Request.URL.Query() {
		if len(v) > 0 {
			query[k] = v[0]
		}
	}

	return events.APIGatewayProxyRequest{
		HTTPMethod:            c.Request.Method,
		Path:                  c.Request.URL.Path,
		Headers:               headers,
		QueryStringParameters: query,
		Body:                  string(body),
	}, nil
}

func writeProxyResponse(c *gin.Context, resp events.APIGatewayProxyResponse) {
	contentType := ContentTypeJSON
	for k, v := range resp.Headers {
		if strings.EqualFold(k, "Content-Type") {
			contentType = v
			continue
		}
		c.Header(k, v)
	}
	c.Data(resp.StatusCode, contentType, []byte(resp.Body))
}
