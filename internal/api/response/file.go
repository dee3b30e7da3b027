package response

import (
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

// File creates a download response carrying content as an attachment
func File(name, contentType string, content []byte) events.APIGatewayProxyResponse {
	headers := DefaultHeaders()
	headers["Content-Type"] = contentType
	headers["Content-Disposition"] = fmt.Sprintf("attachment; filename=%s", name)

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Body:       string(content),
		Headers:    headers,
	}
}
