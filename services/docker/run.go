package docker

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/moby/moby/api/types/container"
	"github.com/moby/moby/api/types/mount"
	"github.com/moby/moby/api/types/strslice"
	"github.com/moby/moby/client"

	"github.com/dros-labs/minsub/models"
)

// runAction materializes one action as a container, streams its logs and
// waits for it to exit. The action's timeout bounds the whole exchange.
func (r *Runner) runAction(ctx context.Context, job, run uuid.UUID, pipelineEnv map[string]string, action models.Action) error {
	if d, err := time.ParseDuration(action.Timeout); err == nil && d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	containerName := ContainerName(job.String(), action.Name)
	env := mergedEnv(pipelineEnv, action.Environment)

	r.logger.Info("starting action",
		zap.String("action", action.Name),
		zap.String("image", action.ImageURI),
		zap.String("container", containerName))

	// Remove a leftover container from a previous run of this job.
	if _, err := r.client.ContainerInspect(ctx, containerName, client.ContainerInspectOptions{}); err == nil {
		_, _ = r.client.ContainerStop(ctx, containerName, client.ContainerStopOptions{})
		if _, err := r.client.ContainerRemove(ctx, containerName, client.ContainerRemoveOptions{
			Force:         true,
			RemoveVolumes: false,
		}); err != nil {
			return fmt.Errorf("remove existing container %q: %w", containerName, err)
		}
	}

	mounts := make([]mount.Mount, 0, len(action.Mounts))
	for _, m := range action.Mounts {
		mounts = append(mounts, mount.Mount{
			Type:     mount.TypeVolume,
			Source:   VolumeName(job.String()),
			Target:   m.Path,
			ReadOnly: m.ReadOnly,
		})
	}

	cCfg := &container.Config{
		Image: action.ImageURI,
		Cmd:   strslice.StrSlice(action.Commands),
		Env:   env,
		Labels: map[string]string{
			"minsub.job":    job.String(),
			"minsub.run":    run.String(),
			"minsub.action": action.Name,
		},
	}
	if action.Entrypoint != "" {
		cCfg.Entrypoint = strslice.StrSlice{action.Entrypoint}
	}

	hCfg := &container.HostConfig{
		Mounts: mounts,
		RestartPolicy: container.RestartPolicy{
			Name: container.RestartPolicyDisabled,
		},
	}

	containerID := ""

	created, err := r.client.ContainerCreate(ctx, client.ContainerCreateOptions{
		Config:     cCfg,
		HostConfig: hCfg,
		Name:       containerName,
		Image:      action.ImageURI,
	})
	if err != nil {
		// Race-safe: if something else created it, inspect and proceed.
		inspected, ie := r.client.ContainerInspect(ctx, containerName, client.ContainerInspectOptions{})
		if ie != nil {
			return fmt.Errorf("create container %q: %w", containerName, err)
		}
		containerID = inspected.Container.ID
	} else {
		containerID = created.ID
	}

	if _, err := r.client.ContainerStart(ctx, containerID, client.ContainerStartOptions{}); err != nil {
		return fmt.Errorf("start container %q: %w", containerName, err)
	}

	// Stream logs while it runs.
	rc, err := r.client.ContainerLogs(ctx, containerID, client.ContainerLogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     true,
		Timestamps: false,
		Since:      "0",
	})
	if err != nil {
		return fmt.Errorf("logs container %q: %w", containerName, err)
	}
	defer rc.Close()

	logDone := make(chan error, 1)
	go func() {
		logDone <- DemuxDockerLogs(os.Stdout, os.Stderr, rc)
	}()

	waitBodyC := r.client.ContainerWait(ctx, containerID, client.ContainerWaitOptions{})
	var statusCode int64

	select {
	case err := <-waitBodyC.Error:
		if err != nil {
			return fmt.Errorf("wait container %q: %w", containerName, err)
		}
	case res := <-waitBodyC.Result:
		statusCode = res.StatusCode
	}

	// The log stream usually ends when the container exits; anything other
	// than a clean EOF is worth surfacing.
	if err := <-logDone; err != nil {
		return fmt.Errorf("stream logs for %q: %w", containerName, err)
	}

	if _, err := r.client.ContainerRemove(ctx, containerID, client.ContainerRemoveOptions{
		Force:         true,
		RemoveVolumes: false,
	}); err != nil {
		return fmt.Errorf("remove container %q: %w", containerName, err)
	}

	if statusCode != 0 {
		return fmt.Errorf("container %q exited with status %d", containerName, statusCode)
	}

	r.logger.Info("action finished", zap.String("action", action.Name))
	return nil
}

// mergedEnv flattens the pipeline-level environment and the action's own
// into docker's KEY=value form, the action winning on conflicts. Sorted
// for deterministic container configs.
func mergedEnv(pipelineEnv, actionEnv map[string]string) []string {
	merged := make(map[string]string, len(pipelineEnv)+len(actionEnv))
	for k, v := range pipelineEnv {
		merged[k] = v
	}
	for k, v := range actionEnv {
		merged[k] = v
	}

	env := make([]string, 0, len(merged))
	for k, v := range merged {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(env)
	return env
}
