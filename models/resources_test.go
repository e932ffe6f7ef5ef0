package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResourcesConfigDefaults(t *testing.T) {
	r := NewResourcesConfig("my-project", "us-west1")

	assert.Equal(t, "n1-standard-2", r.MachineType)
	assert.Equal(t, 200, r.DiskSize)
	assert.Equal(t, []string{"https://www.googleapis.com/auth/cloud-platform"}, r.Scopes)
	assert.Empty(t, r.ServiceAccount)
	require.NoError(t, r.ValidateBasic())
}

func TestResourcesConfigValidateBasic(t *testing.T) {
	tcs := []struct {
		name   string
		mutate func(*ResourcesConfig)
		field  string
	}{
		{
			name:   "missing project",
			mutate: func(r *ResourcesConfig) { r.Project = "" },
			field:  "project",
		},
		{
			name:   "missing region",
			mutate: func(r *ResourcesConfig) { r.Region = "" },
			field:  "region",
		},
		{
			name:   "empty machine type",
			mutate: func(r *ResourcesConfig) { r.MachineType = "" },
			field:  "machine_type",
		},
		{
			name:   "zero disk",
			mutate: func(r *ResourcesConfig) { r.DiskSize = 0 },
			field:  "disk_size",
		},
		{
			name:   "no scopes",
			mutate: func(r *ResourcesConfig) { r.Scopes = nil },
			field:  "scopes",
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			r := NewResourcesConfig("p", "r")
			tc.mutate(&r)

			var cfgErr *ConfigError
			require.ErrorAs(t, r.ValidateBasic(), &cfgErr)
			assert.Equal(t, tc.field, cfgErr.Field)
		})
	}
}
