package params

import (
	"fmt"
	"strings"

	"github.com/dros-labs/minsub/models"
)

// Prefixes for auto-generated parameter names.
const (
	autoPrefixInput  = "INPUT_"
	autoPrefixOutput = "OUTPUT_"
)

// FileParamBuilder produces file parameters for one class (input or
// output) of one job build. The auto-index for unnamed parameters is owned
// by the builder instance, so two independent builds never interfere.
type FileParamBuilder struct {
	role       models.ParamRole
	autoPrefix string
	autoIndex  int
}

func NewInputParamBuilder() *FileParamBuilder {
	return &FileParamBuilder{role: models.RoleInput, autoPrefix: autoPrefixInput}
}

func NewOutputParamBuilder() *FileParamBuilder {
	return &FileParamBuilder{role: models.RoleOutput, autoPrefix: autoPrefixOutput}
}

// VariableName returns name unchanged, or the next auto-generated name
// (INPUT_0, INPUT_1, ...) if none was specified.
func (b *FileParamBuilder) VariableName(name string) string {
	if name == "" {
		name = fmt.Sprintf("%s%d", b.autoPrefix, b.autoIndex)
		b.autoIndex++
	}
	return name
}

// MakeParam builds a file parameter from a flag value. An empty rawURI
// yields a declared-but-unset parameter carrying only the name.
func (b *FileParamBuilder) MakeParam(name, rawURI string, recursive bool) (models.FileParam, error) {
	if rawURI == "" {
		return models.NewFileParam(b.role, name, "", "", nil, recursive)
	}
	dockerPath, uriParts, err := ParseURI(rawURI, recursive)
	if err != nil {
		return models.FileParam{}, err
	}
	return models.NewFileParam(b.role, name, rawURI, dockerPath, &uriParts, recursive)
}

// SplitPair splits a string on the first occurrence of sep. If sep is
// absent, the side indicated by nullableIdx (0 for left, otherwise right)
// is returned empty:
//
//	SplitPair("A=b", "=", 1)  -> "A", "b"
//	SplitPair("A", "=", 1)    -> "A", ""
//	SplitPair("uri", "=", 0)  -> "", "uri"
func SplitPair(s, sep string, nullableIdx int) (left, right string) {
	parts := strings.SplitN(s, sep, 2)
	if len(parts) == 1 {
		if nullableIdx == 0 {
			return "", parts[0]
		}
		return parts[0], ""
	}
	return parts[0], parts[1]
}

// ParsePairArgs parses a list of 'key' or 'key=value' flag values into env
// parameters. Exact duplicates collapse to one entry; encounter order is
// preserved.
func ParsePairArgs(args []string) ([]models.EnvParam, error) {
	seen := make(map[models.EnvParam]struct{}, len(args))
	envs := make([]models.EnvParam, 0, len(args))
	for _, arg := range args {
		name, value := SplitPair(arg, "=", 1)
		env, err := models.NewEnvParam(name, value)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[env]; ok {
			continue
		}
		seen[env] = struct{}{}
		envs = append(envs, env)
	}
	return envs, nil
}

type fileParamKey struct {
	name      string
	value     string
	recursive bool
}

// parseFileArgs parses one file class's flag values. Unlike env vars the
// name side of the pair is optional, so a bare value is a value.
func parseFileArgs(b *FileParamBuilder, args []string, recursive bool, seen map[fileParamKey]struct{}) ([]models.FileParam, error) {
	out := make([]models.FileParam, 0, len(args))
	for _, arg := range args {
		name, value := SplitPair(arg, "=", 0)
		name = b.VariableName(name)
		param, err := b.MakeParam(name, value, recursive)
		if err != nil {
			return nil, err
		}
		key := fileParamKey{name: param.Name, value: param.Value, recursive: param.Recursive}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, param)
	}
	return out, nil
}

// ArgsToJobParams parses env, input and output flag values into one job
// parameter set.
//
// Env arguments are name=value pairs (value optional). Input and output
// file arguments can be name=uri pairs or bare URIs; a missing name is
// auto-generated. The five classes share one namespace, checked by
// NewJobParams.
func ArgsToJobParams(envs, inputs, rInputs, outputs, rOutputs []string) (*models.JobParams, error) {
	inputBuilder := NewInputParamBuilder()
	outputBuilder := NewOutputParamBuilder()

	envData, err := ParsePairArgs(envs)
	if err != nil {
		return nil, err
	}

	seenInputs := make(map[fileParamKey]struct{})
	inputData, err := parseFileArgs(inputBuilder, inputs, false, seenInputs)
	if err != nil {
		return nil, err
	}
	rInputData, err := parseFileArgs(inputBuilder, rInputs, true, seenInputs)
	if err != nil {
		return nil, err
	}

	seenOutputs := make(map[fileParamKey]struct{})
	outputData, err := parseFileArgs(outputBuilder, outputs, false, seenOutputs)
	if err != nil {
		return nil, err
	}
	rOutputData, err := parseFileArgs(outputBuilder, rOutputs, true, seenOutputs)
	if err != nil {
		return nil, err
	}

	return models.NewJobParams(envData, inputData, rInputData, outputData, rOutputData)
}
