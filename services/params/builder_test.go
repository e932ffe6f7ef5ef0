package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dros-labs/minsub/models"
)

func TestSplitPair(t *testing.T) {
	tcs := []struct {
		name        string
		input       string
		nullableIdx int
		left        string
		right       string
	}{
		{name: "env pair", input: "A=b", nullableIdx: 1, left: "A", right: "b"},
		{name: "env bare key", input: "A", nullableIdx: 1, left: "A", right: ""},
		{name: "env empty value", input: "A=", nullableIdx: 1, left: "A", right: ""},
		{name: "value with equals", input: "A=b=c", nullableIdx: 1, left: "A", right: "b=c"},
		{name: "file pair", input: "F=gs://b/f", nullableIdx: 0, left: "F", right: "gs://b/f"},
		{name: "file bare uri", input: "gs://b/f", nullableIdx: 0, left: "", right: "gs://b/f"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			left, right := SplitPair(tc.input, "=", tc.nullableIdx)
			assert.Equal(t, tc.left, left)
			assert.Equal(t, tc.right, right)
		})
	}
}

func TestParsePairArgs(t *testing.T) {
	envs, err := ParsePairArgs([]string{"A=hello", "B", "A=hello", "C=x=y"})
	require.NoError(t, err)

	assert.Equal(t, []models.EnvParam{
		{Name: "A", Value: "hello"},
		{Name: "B", Value: ""},
		{Name: "C", Value: "x=y"},
	}, envs)
}

func TestParsePairArgsBadName(t *testing.T) {
	_, err := ParsePairArgs([]string{"not a name=x"})

	var nameErr *models.NameError
	require.ErrorAs(t, err, &nameErr)
}

func TestAutoNaming(t *testing.T) {
	job, err := ArgsToJobParams(
		nil,
		[]string{"gs://b/one.txt", "gs://b/two.txt", "gs://b/three.txt"},
		nil,
		[]string{"gs://b/out.txt"},
		nil,
	)
	require.NoError(t, err)

	var names []string
	for _, in := range job.Inputs {
		names = append(names, in.Name)
	}
	assert.Equal(t, []string{"INPUT_0", "INPUT_1", "INPUT_2"}, names)
	assert.Equal(t, "OUTPUT_0", job.Outputs[0].Name)
}

// The auto-index is per builder instance; a second build starts over.
func TestAutoNamingIndependentBuilds(t *testing.T) {
	for range 2 {
		job, err := ArgsToJobParams(nil, []string{"gs://b/f.txt"}, nil, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "INPUT_0", job.Inputs[0].Name)
	}
}

// Auto-generated names share the namespace with explicit ones.
func TestAutoNameCollision(t *testing.T) {
	_, err := ArgsToJobParams(
		[]string{"INPUT_0=oops"},
		[]string{"gs://b/f.txt"},
		nil, nil, nil,
	)

	var collisionErr *models.CollisionError
	require.ErrorAs(t, err, &collisionErr)
	assert.Equal(t, []string{"INPUT_0"}, collisionErr.Duplicates)
}

func TestNamePreservedRoundTrip(t *testing.T) {
	job, err := ArgsToJobParams(
		[]string{"MY_VAR=1"},
		[]string{"_f1=gs://b/f.txt"},
		nil,
		[]string{"OUT9=gs://b/o.txt"},
		nil,
	)
	require.NoError(t, err)

	assert.Equal(t, "MY_VAR", job.Envs[0].Name)
	assert.Equal(t, "_f1", job.Inputs[0].Name)
	assert.Equal(t, "OUT9", job.Outputs[0].Name)
}

func TestDeclaredUnsetParam(t *testing.T) {
	job, err := ArgsToJobParams(nil, []string{"TEMPLATE_IN="}, nil, nil, nil)
	require.NoError(t, err)

	in := job.Inputs[0]
	assert.Equal(t, "TEMPLATE_IN", in.Name)
	assert.Empty(t, in.Value)
	assert.Empty(t, in.DockerPath)
	assert.Nil(t, in.URI)
}

func TestFileParamFields(t *testing.T) {
	job, err := ArgsToJobParams(
		nil,
		[]string{"F1=gs://mybucket/myfile.txt"},
		[]string{"F2=gs://mybucket/myfilecollection/here/"},
		nil, nil,
	)
	require.NoError(t, err)

	f1 := job.Inputs[0]
	assert.Equal(t, "gs://mybucket/myfile.txt", f1.Value)
	assert.Equal(t, "gs/mybucket/myfile.txt", f1.DockerPath)
	require.NotNil(t, f1.URI)
	assert.Equal(t, "gs://mybucket/", f1.URI.Path)
	assert.Equal(t, "myfile.txt", f1.URI.Basename)
	assert.False(t, f1.Recursive)
	assert.Equal(t, models.RoleInput, f1.Role)

	f2 := job.RecursiveInputs[0]
	assert.Equal(t, "gs/mybucket/myfilecollection/here/", f2.DockerPath)
	assert.True(t, f2.Recursive)
	assert.Empty(t, f2.URI.Basename)
}

func TestDuplicateFlagValuesCollapse(t *testing.T) {
	job, err := ArgsToJobParams(
		nil,
		[]string{"F1=gs://b/f.txt", "F1=gs://b/f.txt"},
		nil, nil, nil,
	)
	require.NoError(t, err)
	assert.Len(t, job.Inputs, 1)
}

func TestCollisionReportsAllDuplicates(t *testing.T) {
	_, err := ArgsToJobParams(
		[]string{"X=1", "Y=2"},
		[]string{"X=gs://b/a.txt"},
		nil,
		[]string{"Y=gs://b/b.txt"},
		nil,
	)

	var collisionErr *models.CollisionError
	require.ErrorAs(t, err, &collisionErr)
	assert.ElementsMatch(t, []string{"X", "Y"}, collisionErr.Duplicates)
}

func TestUriErrorPropagates(t *testing.T) {
	_, err := ArgsToJobParams(nil, []string{"F1=s3://bucket/f.txt"}, nil, nil, nil)

	var uriErr *models.UriError
	require.ErrorAs(t, err, &uriErr)
}
