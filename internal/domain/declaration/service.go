package declaration

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hirosato/pcc3-assistant/backend/internal/domain/audit"
	"github.com/hirosato/pcc3-assistant/backend/internal/domain/errors"
)

// XMLContentType is the media type of downloaded declarations
const XMLContentType = "application/xml"

// Service provides PCC-3 declaration business logic
type Service struct {
	builder *Builder
	repo    Repository
	audit   audit.Recorder
	logger  *slog.Logger
	newID   func() string
	now     func() time.Time
}

// NewService creates a new declaration service
func NewService(repo Repository, recorder audit.Recorder, logger *slog.Logger) *Service {
	return &Service{
		builder: NewBuilder(),
		repo:    repo,
		audit:   recorder,
		logger:  logger,
		newID:   func() string { return uuid.New().String() },
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// GenerateDeclaration builds the document for a record, records an audit entry
// and stores the declaration under a freshly generated ID
func (s *Service) GenerateDeclaration(ctx context.Context, record TaxpayerRecord) (*Declaration, error) {
	result, err := s.builder.Build(record)
	if err != nil {
		s.logger.Warn("PCC-3 build rejected", "error", err)
		return nil, err
	}
	s.logger.Info("Tax due computed", "taxDue", result.TaxDue)

	declaration := &Declaration{
		ID:         s.newID(),
		XMLContent: result.XML,
		TaxDue:     result.TaxDue,
		CreatedAt:  s.now(),
	}

	s.audit.Record(ctx, declaration.ID,
		fmt.Sprintf("Generowanie PCC-3 dla %s", record.Name),
		fmt.Sprintf("Podatek należny: %d PLN", result.TaxDue),
	)

	if err := s.repo.CreateDeclaration(ctx, declaration); err != nil {
		s.logger.Error("Failed to store PCC-3 declaration", "declarationId", declaration.ID, "error", err)
		return nil, err
	}
	s.logger.Info("PCC-3 declaration stored", "declarationId", declaration.ID)

	return declaration, nil
}

// GetDeclaration retrieves a stored declaration by ID
func (s *Service) GetDeclaration(ctx context.Context, declarationID string) (*Declaration, error) {
	if strings.TrimSpace(declarationID) == "" {
		return nil, errors.NewNotFoundError("declaration not found")
	}
	declaration, err := s.repo.GetDeclaration(ctx, declarationID)
	if err != nil {
		return nil, err
	}
	return declaration, nil
}

// DownloadDeclaration returns the stored XML as a downloadable file
func (s *Service) DownloadDeclaration(ctx context.Context, declarationID string) (*File, error) {
	declaration, err := s.GetDeclaration(ctx, declarationID)
	if err != nil {
		s.logger.Warn("PCC-3 declaration not available", "declarationId", declarationID, "error", err)
		return nil, err
	}
	if declaration.XMLContent == "" {
		s.logger.Warn("PCC-3 declaration has no XML content", "declarationId", declarationID)
		return nil, errors.NewNotFoundError("declaration content is incomplete")
	}

	return &File{
		Name:        FileName(declaration.ID),
		ContentType: XMLContentType,
		Content:     []byte(declaration.XMLContent),
	}, nil
}

// FileName is the download name of a declaration
func FileName(declarationID string) string {
	return fmt.Sprintf("PCC3_%s.xml", declarationID)
}
