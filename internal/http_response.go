package internal

import (
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/xeipuuv/gojsonschema"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeHTML = "text/html; charset=utf-8"
)

// Respond builds a JSON API Gateway response.
func Respond(statusCode int, body string) events.APIGatewayProxyResponse {
	return RespondWithType(statusCode, ContentTypeJSON, body)
}

// RespondHTML builds an HTML API Gateway response.
func RespondHTML(statusCode int, body string) events.APIGatewayProxyResponse {
	return RespondWithType(statusCode, ContentTypeHTML, body)
}

func RespondWithType(statusCode int, contentType string, body string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers: map[string]string{
			"Content-Type": contentType,
		},
		Body: body,
	}
}

// RespondJSON marshals v and responds with it, falling back to a 500 when v cannot be encoded.
func RespondJSON(statusCode int, v interface{}) events.APIGatewayProxyResponse {
	body, err := json.Marshal(v)
	if err != nil {
		return Error(500, err)
	}
	return Respond(statusCode, string(body))
}

func Error(statusCode int, err error) events.APIGatewayProxyResponse {
	return errorList(statusCode, []string{err.Error()})
}

func SchemaErrors(statusCode int, schemaErrors []gojsonschema.ResultError) events.APIGatewayProxyResponse {
	errs := make([]string, 0, len(schemaErrors))
	for _, e := range schemaErrors {
		errs = append(errs, fmt.Sprintf("%v", e))
	}
	return errorList(statusCode, errs)
}

func errorList(statusCode int, errs []string) events.APIGatewayProxyResponse {
	responseBytes, _ := json.Marshal(map[string]interface{}{
		"errors": errs,
	})
	return Respond(statusCode, string(responseBytes))
}
