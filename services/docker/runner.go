package docker

import (
	"context"
	"fmt"

	"github.com/containerd/errdefs"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/moby/moby/client"

	"github.com/dros-labs/minsub/interfaces"
	"github.com/dros-labs/minsub/models"
)

// Runner executes an assembled request against a local Docker daemon. Each
// action runs as its own container; a named volume stands in for the
// pipeline VM's data disk. Intended for trying out a request before it is
// handed to the real service.
type Runner struct {
	client *client.Client
	logger *zap.Logger
}

var _ interfaces.Runner = (*Runner)(nil)

// NewRunner connects to the Docker daemon using environment variables
// (e.g. DOCKER_HOST) and API version negotiation.
func NewRunner(logger *zap.Logger) (*Runner, error) {
	c, err := client.New(
		client.FromEnv,
	)
	if err != nil {
		return nil, err
	}

	return &Runner{
		client: c,
		logger: logger,
	}, nil
}

// Run executes the request's actions in order, stopping at the first
// failure. The data disk volume survives the run so results can be
// inspected; Teardown removes it.
func (r *Runner) Run(ctx context.Context, job uuid.UUID, req *models.Request) error {
	run := uuid.New()

	r.logger.Info("running pipeline locally",
		zap.String("job", job.String()),
		zap.String("run", run.String()),
		zap.Int("actions", len(req.Pipeline.Actions)))

	if err := r.ensureDataVolume(ctx, job, run); err != nil {
		return err
	}

	for _, action := range req.Pipeline.Actions {
		if err := r.runAction(ctx, job, run, req.Pipeline.Environment, action); err != nil {
			return fmt.Errorf("action %q: %w", action.Name, err)
		}
	}

	r.logger.Info("pipeline finished", zap.String("job", job.String()))
	return nil
}

// ensureDataVolume creates the job's data disk volume if it does not
// already exist. Re-running a job reuses the volume.
func (r *Runner) ensureDataVolume(ctx context.Context, job, run uuid.UUID) error {
	name := VolumeName(job.String())

	_, err := r.client.VolumeInspect(ctx, name, client.VolumeInspectOptions{})
	if err == nil {
		return nil
	}
	if !errdefs.IsNotFound(err) {
		return fmt.Errorf("inspect volume %q: %w", name, err)
	}

	_, err = r.client.VolumeCreate(ctx, client.VolumeCreateOptions{
		Name: name,
		Labels: map[string]string{
			"minsub.job":  job.String(),
			"minsub.run":  run.String(),
			"minsub.disk": models.DataDiskName,
		},
	})
	if err != nil {
		// If it was created concurrently, Docker returns a conflict;
		// rather than pattern match error strings, re-check inspect.
		if _, ie := r.client.VolumeInspect(ctx, name, client.VolumeInspectOptions{}); ie == nil {
			return nil
		}
		return fmt.Errorf("create volume %q: %w", name, err)
	}

	return nil
}
