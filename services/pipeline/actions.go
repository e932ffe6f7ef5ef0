package pipeline

import (
	"fmt"
	"strings"

	"github.com/dros-labs/minsub/models"
)

// Every generated bash step aborts on first error, on use of an unset
// variable, and propagates failure through pipe segments.
const bashScript = "set -o errexit\nset -o nounset\nset -o pipefail\n\n%s\n"

// newAction returns an action with the shared defaults: the data disk
// mounted read-write, a bash entrypoint and a one day timeout.
func newAction(name, image string) models.Action {
	return models.Action{
		Name:        name,
		ImageURI:    image,
		Environment: map[string]string{},
		Flags:       []string{},
		Mounts: []models.Mount{
			{
				Disk:     models.DataDiskName,
				Path:     models.DataDiskMount,
				ReadOnly: false,
			},
		},
		Timeout:    models.OneDay,
		Entrypoint: "/bin/bash",
	}
}

func bashCommands(lines []string) []string {
	return []string{"-c", fmt.Sprintf(bashScript, strings.Join(lines, "\n"))}
}

// Localize builds the stage-in action: it copies every input from remote
// storage onto the data disk. Single files use a direct copy, recursive
// inputs a tree sync. Declared-but-unset parameters are skipped.
func Localize(job *models.JobParams) models.Action {
	a := newAction("localize", models.CloudSDKImage)

	var copyCommands []string
	for _, in := range job.Inputs {
		if in.Value == "" {
			continue
		}
		dst := models.MountedPath(in.DockerPath)
		copyCommands = append(copyCommands, fmt.Sprintf("gsutil -mq cp %q %q", in.Value, dst))
	}
	for _, in := range job.RecursiveInputs {
		if in.Value == "" {
			continue
		}
		dst := models.MountedPath(in.DockerPath)
		copyCommands = append(copyCommands, fmt.Sprintf("gsutil -mq rsync -r %q %q", in.Value, dst))
	}

	a.Commands = bashCommands(copyCommands)
	return a
}

// Delocalize builds the stage-out action, mirroring Localize in the other
// direction: every output is copied from the data disk back to its remote
// URI.
func Delocalize(job *models.JobParams) models.Action {
	a := newAction("delocalize", models.CloudSDKImage)

	var copyCommands []string
	for _, out := range job.Outputs {
		if out.Value == "" {
			continue
		}
		src := models.MountedPath(out.DockerPath)
		copyCommands = append(copyCommands, fmt.Sprintf("gsutil -mq cp %q %q", src, out.Value))
	}
	for _, out := range job.RecursiveOutputs {
		if out.Value == "" {
			continue
		}
		src := models.MountedPath(out.DockerPath)
		copyCommands = append(copyCommands, fmt.Sprintf("gsutil -mq rsync -r %q %q", src, out.Value))
	}

	a.Commands = bashCommands(copyCommands)
	return a
}

// User builds one user-supplied step: an opaque image and command run
// between stage-in and stage-out. An empty timeout keeps the one day
// default.
func User(name, image string, command []string, timeout string) models.Action {
	a := newAction(name, image)
	a.Commands = command
	if timeout != "" {
		a.Timeout = timeout
	}
	return a
}
