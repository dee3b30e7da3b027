package handlers

import (
	"encoding/base64"
	"encoding/json"
	"mime"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/hirosato/pcc3-assistant/backend/internal/api/middleware"
	"github.com/hirosato/pcc3-assistant/backend/internal/domain/errors"
)

// requestBody returns the raw body, decoding it when API Gateway delivered
// it base64 encoded
func requestBody(request events.APIGatewayProxyRequest) ([]byte, error) {
	if !request.IsBase64Encoded {
		return []byte(request.Body), nil
	}
	body, err := base64.StdEncoding.DecodeString(request.Body)
	if err != nil {
		return nil, errors.NewInvalidInputError("request body is not valid base64", err)
	}
	return body, nil
}

func isForm(request events.APIGatewayProxyRequest) bool {
	mediaType, _, err := mime.ParseMediaType(middleware.Header(request, "Content-Type"))
	return err == nil && mediaType == "application/x-www-form-urlencoded"
}

// decodeBody fills v from a JSON body, or from a url-encoded form through
// fromForm
func decodeBody(request events.APIGatewayProxyRequest, v interface{}, fromForm func(url.Values)) error {
	body, err := requestBody(request)
	if err != nil {
		return err
	}

	if isForm(request) {
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return errors.NewInvalidInputError("request body is not a valid form", err)
		}
		fromForm(values)
		return nil
	}

	if strings.TrimSpace(string(body)) == "" {
		return errors.NewInvalidInputError("request body is required", nil)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.NewInvalidInputError("request body is not valid JSON", err)
	}
	return nil
}
