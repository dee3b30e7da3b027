package declaration

import "context"

// Repository defines the interface for declaration persistence
type Repository interface {
	// Store a newly generated declaration
	CreateDeclaration(ctx context.Context, declaration *Declaration) error

	// Get a declaration by its generated ID
	GetDeclaration(ctx context.Context, declarationID string) (*Declaration, error)
}
