package models

// ResourcesConfig describes the machine the pipeline will run on.
//
// Project and Region are required. The remaining fields default to a
// 2-vCPU standard machine with a 200 GB data disk and the cloud-platform
// scope; ServiceAccount may stay empty, in which case the pipelines
// service falls back to the compute service account.
type ResourcesConfig struct {
	Project        string
	Region         string
	MachineType    string
	DiskSize       int
	ServiceAccount string
	Scopes         []string
}

// NewResourcesConfig returns a config with the defaults applied. Optional
// fields can be overridden on the returned value before ValidateBasic.
func NewResourcesConfig(project, region string) ResourcesConfig {
	return ResourcesConfig{
		Project:     project,
		Region:      region,
		MachineType: DefaultMachineType,
		DiskSize:    DefaultDiskSize,
		Scopes:      []string{DefaultScope},
	}
}

// ValidateBasic checks the required fields and the defaults that must not
// be emptied out.
func (r ResourcesConfig) ValidateBasic() error {
	if r.Project == "" {
		return &ConfigError{Field: "project", Reason: "cannot be empty"}
	}
	if r.Region == "" {
		return &ConfigError{Field: "region", Reason: "cannot be empty"}
	}
	if r.MachineType == "" {
		return &ConfigError{Field: "machine_type", Reason: "cannot be empty"}
	}
	if r.DiskSize <= 0 {
		return &ConfigError{Field: "disk_size", Reason: "must be positive"}
	}
	if len(r.Scopes) == 0 {
		return &ConfigError{Field: "scopes", Reason: "cannot be empty"}
	}
	return nil
}
