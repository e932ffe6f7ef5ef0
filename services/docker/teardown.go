package docker

import (
	"context"
	"fmt"

	"github.com/containerd/errdefs"
	"github.com/google/uuid"

	"github.com/moby/moby/client"
)

// Teardown removes every container and volume a local run of the job left
// behind. Safe to call repeatedly.
func (r *Runner) Teardown(ctx context.Context, job uuid.UUID) error {
	if err := r.teardownContainers(ctx, job); err != nil {
		return err
	}
	return r.teardownVolumes(ctx, job)
}

func (r *Runner) teardownContainers(ctx context.Context, job uuid.UUID) error {
	f := make(client.Filters).
		Add("label", "minsub.job="+job.String())

	containers, err := r.client.ContainerList(ctx, client.ContainerListOptions{
		All:     true,
		Filters: f,
	})
	if err != nil {
		return fmt.Errorf("list job containers (job=%s): %w", job.String(), err)
	}

	for _, c := range containers.Items {
		// Stop (best-effort) then remove.
		_, _ = r.client.ContainerStop(ctx, c.ID, client.ContainerStopOptions{})
		_, err = r.client.ContainerRemove(ctx, c.ID, client.ContainerRemoveOptions{
			Force:         true,
			RemoveVolumes: false,
		})
		if err != nil && !errdefs.IsNotFound(err) {
			return fmt.Errorf("remove container %q: %w", c.ID, err)
		}
	}

	return nil
}

func (r *Runner) teardownVolumes(ctx context.Context, job uuid.UUID) error {
	f := make(client.Filters).
		Add("label", "minsub.job="+job.String())

	vols, err := r.client.VolumeList(ctx, client.VolumeListOptions{
		Filters: f,
	})
	if err != nil {
		return fmt.Errorf("list job volumes (job=%s): %w", job.String(), err)
	}

	for _, v := range vols.Items {
		if v.Name == "" {
			continue
		}

		if _, err := r.client.VolumeRemove(ctx, v.Name, client.VolumeRemoveOptions{}); err != nil {
			// Idempotent: if it vanished, ignore.
			if errdefs.IsNotFound(err) {
				continue
			}
			return fmt.Errorf("remove volume %q: %w", v.Name, err)
		}
	}

	return nil
}
