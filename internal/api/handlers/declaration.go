package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/hirosato/pcc3-assistant/backend/internal/api/response"
	"github.com/hirosato/pcc3-assistant/backend/internal/common/utils"
	"github.com/hirosato/pcc3-assistant/backend/internal/domain/declaration"
)

// DeclarationHandler handles PCC-3 declaration endpoints
type DeclarationHandler struct {
	service *declaration.Service
}

// NewDeclarationHandler creates a new declaration handler
func NewDeclarationHandler(service *declaration.Service) *DeclarationHandler {
	return &DeclarationHandler{
		service: service,
	}
}

// CreateDeclarationResponse is returned after a successful submission
type CreateDeclarationResponse struct {
	ID          string `json:"id"`
	TaxDue      int64  `json:"taxDue"`
	XML         string `json:"xml"`
	DownloadURL string `json:"downloadUrl"`
}

// DeclarationResponse describes a stored declaration
type DeclarationResponse struct {
	ID          string    `json:"id"`
	TaxDue      int64     `json:"taxDue"`
	XML         string    `json:"xml"`
	CreatedAt   time.Time `json:"createdAt"`
	DownloadURL string    `json:"downloadUrl"`
}

func downloadURL(id string) string {
	return fmt.Sprintf("/declarations/%s/download", id)
}

// Create handles POST /declarations
func (h *DeclarationHandler) Create(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	requestID := request.RequestContext.RequestID

	var record declaration.TaxpayerRecord
	if err := decodeBody(request, &record, func(values url.Values) {
		record = declaration.RecordFromForm(values)
	}); err != nil {
		return response.FromError(err, requestID), nil
	}

	d, err := h.service.GenerateDeclaration(ctx, record)
	if err != nil {
		return response.FromError(err, requestID), nil
	}

	logger.Info("Declaration created", "declarationId", d.ID, "taxDue", d.TaxDue)
	return response.Created(CreateDeclarationResponse{
		ID:          d.ID,
		TaxDue:      d.TaxDue,
		XML:         d.XMLContent,
		DownloadURL: downloadURL(d.ID),
	}, requestID), nil
}

// Get handles GET /declarations/{id}
func (h *DeclarationHandler) Get(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	requestID := request.RequestContext.RequestID
	id := request.PathParameters["id"]
	if utils.ValidateUUID(id) != nil {
		return response.NotFound("declaration not found", requestID), nil
	}

	d, err := h.service.GetDeclaration(ctx, id)
	if err != nil {
		return response.FromError(err, requestID), nil
	}

	return response.OK(DeclarationResponse{
		ID:          d.ID,
		TaxDue:      d.TaxDue,
		XML:         d.XMLContent,
		CreatedAt:   d.CreatedAt,
		DownloadURL: downloadURL(d.ID),
	}, requestID), nil
}

// Download handles GET /declarations/{id}/download
func (h *DeclarationHandler) Download(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	requestID := request.RequestContext.RequestID
	id := request.PathParameters["id"]
	if utils.ValidateUUID(id) != nil {
		return response.NotFound("declaration not found", requestID), nil
	}

	file, err := h.service.DownloadDeclaration(ctx, id)
	if err != nil {
		return response.FromError(err, requestID), nil
	}

	logger.Info("Declaration downloaded", "declarationId", id)
	return response.File(file.Name, file.ContentType, file.Content), nil
}
