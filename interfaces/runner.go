package interfaces

import (
	"context"

	"github.com/google/uuid"

	"github.com/dros-labs/minsub/models"
)

// Runner executes an assembled request on a local backend. The request
// building core never depends on this; it is the development-side stand-in
// for the remote pipelines service.
type Runner interface {
	Run(ctx context.Context, job uuid.UUID, req *models.Request) error
	Teardown(ctx context.Context, job uuid.UUID) error
}
