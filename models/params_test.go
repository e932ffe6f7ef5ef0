package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateParamName(t *testing.T) {
	tcs := []struct {
		name       string
		param      string
		expectPass bool
	}{
		{name: "simple", param: "A", expectPass: true},
		{name: "underscore prefix", param: "_hidden", expectPass: true},
		{name: "mixed", param: "INPUT_0", expectPass: true},
		{name: "lower with digits", param: "f1_out2", expectPass: true},
		{name: "empty", param: "", expectPass: false},
		{name: "leading digit", param: "1ABC", expectPass: false},
		{name: "dash", param: "MY-VAR", expectPass: false},
		{name: "dot", param: "a.b", expectPass: false},
		{name: "space", param: "A B", expectPass: false},
		{name: "unicode", param: "vär", expectPass: false},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateParamName(tc.param, "Environment variable")
			if tc.expectPass {
				assert.NoError(t, err)
			} else {
				var nameErr *NameError
				require.ErrorAs(t, err, &nameErr)
				assert.Equal(t, tc.param, nameErr.Name)
			}
		})
	}
}

func TestNewEnvParamRejectsBadName(t *testing.T) {
	_, err := NewEnvParam("not valid", "x")

	var nameErr *NameError
	require.ErrorAs(t, err, &nameErr)
	assert.Equal(t, "Environment variable", nameErr.ParamType)
}

func TestNewFileParamRejectsBadName(t *testing.T) {
	_, err := NewFileParam(RoleOutput, "out-1", "gs://b/f", "gs/b/f", nil, false)

	var nameErr *NameError
	require.ErrorAs(t, err, &nameErr)
	assert.Equal(t, "Output parameter", nameErr.ParamType)
}

func TestUriPartsURI(t *testing.T) {
	u := UriParts{Path: "gs://bucket/folder/", Basename: "file.txt"}
	assert.Equal(t, "gs://bucket/folder/file.txt", u.URI())

	dir := UriParts{Path: "gs://bucket/folder/", Recursive: true}
	assert.Equal(t, "gs://bucket/folder/", dir.URI())
}

func mustEnv(t *testing.T, name, value string) EnvParam {
	t.Helper()
	e, err := NewEnvParam(name, value)
	require.NoError(t, err)
	return e
}

func mustFile(t *testing.T, role ParamRole, name string, recursive bool) FileParam {
	t.Helper()
	f, err := NewFileParam(role, name, "gs://b/x", "gs/b/x", nil, recursive)
	require.NoError(t, err)
	return f
}

func TestNewJobParamsCollisionAcrossClasses(t *testing.T) {
	_, err := NewJobParams(
		[]EnvParam{mustEnv(t, "DATA", "1")},
		[]FileParam{mustFile(t, RoleInput, "DATA", false)},
		[]FileParam{mustFile(t, RoleInput, "TREE", true)},
		[]FileParam{mustFile(t, RoleOutput, "TREE", false)},
		nil,
	)

	var collisionErr *CollisionError
	require.ErrorAs(t, err, &collisionErr)
	// Every duplicate is reported, not just the first.
	assert.ElementsMatch(t, []string{"DATA", "TREE"}, collisionErr.Duplicates)
}

func TestNewJobParamsDisjointNamesPass(t *testing.T) {
	j, err := NewJobParams(
		[]EnvParam{mustEnv(t, "A", "1")},
		[]FileParam{mustFile(t, RoleInput, "F1", false)},
		[]FileParam{mustFile(t, RoleInput, "F2", true)},
		[]FileParam{mustFile(t, RoleOutput, "FO1", false)},
		[]FileParam{mustFile(t, RoleOutput, "FO2", true)},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "F1", "F2", "FO1", "FO2"}, j.Names())
	assert.Len(t, j.FileParams(), 4)
}

func TestConfigErrorType(t *testing.T) {
	err := ResourcesConfig{}.ValidateBasic()

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "project", cfgErr.Field)
}
