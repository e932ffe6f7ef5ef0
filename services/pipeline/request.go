package pipeline

import "github.com/dros-labs/minsub/models"

// CreateRequest combines the machine resources, the job's parameters and
// the ordered action list into the final request document. An empty
// timeout defaults to seven days.
//
// File parameters contribute their mounted path as their environment
// value, env parameters their literal value. Name uniqueness is re-checked
// while merging; NewJobParams should make a collision here unreachable.
func CreateRequest(resources models.ResourcesConfig, job *models.JobParams, actions []models.Action, timeout string) (*models.Request, error) {
	if err := resources.ValidateBasic(); err != nil {
		return nil, err
	}
	if timeout == "" {
		timeout = models.SevenDays
	}

	envs := make(map[string]string)
	var duplicates []string
	setEnv := func(name, value string) {
		if _, ok := envs[name]; ok {
			duplicates = append(duplicates, name)
			return
		}
		envs[name] = value
	}
	for _, e := range job.Envs {
		setEnv(e.Name, e.Value)
	}
	for _, f := range job.FileParams() {
		if f.DockerPath == "" {
			// Declared but unset; exported empty so nounset scripts
			// still see it.
			setEnv(f.Name, "")
			continue
		}
		setEnv(f.Name, models.MountedPath(f.DockerPath))
	}
	if len(duplicates) > 0 {
		return nil, &models.CollisionError{Duplicates: duplicates}
	}

	return &models.Request{
		Pipeline: models.Pipeline{
			Actions:     actions,
			Resources:   createResources(resources),
			Environment: envs,
			Timeout:     timeout,
		},
		Labels: map[string]string{
			"minsub": "v1",
		},
	}, nil
}

func createResources(r models.ResourcesConfig) models.Resources {
	return models.Resources{
		ProjectID: r.Project,
		Regions:   []string{r.Region},
		VirtualMachine: models.VirtualMachine{
			MachineType: r.MachineType,
			Preemptible: false,
			Disks: []models.Disk{
				{
					Name:   models.DataDiskName,
					SizeGB: r.DiskSize,
				},
			},
			ServiceAccount: models.ServiceAccount{
				Scopes: r.Scopes,
				Email:  r.ServiceAccount,
			},
		},
	}
}
