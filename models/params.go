package models

import "regexp"

// POSIX 3.235: a word consisting solely of underscores, digits, and
// alphabetics from the portable character set.
// http://pubs.opengroup.org/onlinepubs/9699919799/basedefs/V1_chap03.html#tag_03_235
var paramNameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ValidateParamName checks that name is safe to use as a shell environment
// variable. paramType is only used in the error message.
func ValidateParamName(name, paramType string) error {
	if !paramNameRe.MatchString(name) {
		return &NameError{ParamType: paramType, Name: name}
	}
	return nil
}

// ParamRole distinguishes input file parameters (localized onto the VM's
// data disk before the user steps) from output file parameters
// (de-localized back to remote storage after).
type ParamRole string

const (
	RoleInput  ParamRole = "input"
	RoleOutput ParamRole = "output"
)

func (r ParamRole) paramType() string {
	if r == RoleOutput {
		return "Output parameter"
	}
	return "Input parameter"
}

// EnvParam is a name/value input parameter to a pipeline. The value may be
// empty.
type EnvParam struct {
	Name  string
	Value string
}

// NewEnvParam validates the name and returns the parameter.
func NewEnvParam(name, value string) (EnvParam, error) {
	if err := ValidateParamName(name, "Environment variable"); err != nil {
		return EnvParam{}, err
	}
	return EnvParam{Name: name, Value: value}, nil
}

// UriParts keeps the hierarchical prefix of a URI separate from its
// basename in cases where the split would otherwise be ambiguous.
//
// Path is the entire leading part of the URI (scheme, host and directory)
// and always ends in a forward slash. Basename is the last token following
// a forward slash; for a bare directory reference it is empty.
//
//	uri                          Path                    Basename
//	gs://bucket/folder/file.txt  "gs://bucket/folder/"   "file.txt"
//	/tmp/tempdir1/               "/tmp/tempdir1/"        ""
//	/tmp/ab.txt                  "/tmp/"                 "ab.txt"
type UriParts struct {
	Path      string
	Basename  string
	Recursive bool
}

// URI returns the canonical external form, Path + Basename.
func (u UriParts) URI() string {
	return u.Path + u.Basename
}

// FileParam is a file parameter to be automatically localized or
// de-localized between remote storage and the pipeline VM's data disk.
//
// Value is the original string given on the command line. DockerPath is the
// location relative to the data disk mount point; it doubles as the
// parameter's environment variable value (joined with the mount point).
// Both are empty for a declared-but-unset parameter.
type FileParam struct {
	Name       string
	Value      string
	DockerPath string
	URI        *UriParts
	Recursive  bool
	Role       ParamRole
}

// NewFileParam validates the name and returns the parameter.
func NewFileParam(role ParamRole, name, value, dockerPath string, uri *UriParts, recursive bool) (FileParam, error) {
	if err := ValidateParamName(name, role.paramType()); err != nil {
		return FileParam{}, err
	}
	return FileParam{
		Name:       name,
		Value:      value,
		DockerPath: dockerPath,
		URI:        uri,
		Recursive:  recursive,
		Role:       role,
	}, nil
}

// JobParams is the validated, collision-free aggregate of all env, input
// and output parameters for one job.
type JobParams struct {
	Envs             []EnvParam
	Inputs           []FileParam
	RecursiveInputs  []FileParam
	Outputs          []FileParam
	RecursiveOutputs []FileParam
}

// NewJobParams builds the aggregate, failing with a CollisionError if any
// name is shared between two parameters regardless of class.
func NewJobParams(envs []EnvParam, inputs, rInputs, outputs, rOutputs []FileParam) (*JobParams, error) {
	j := &JobParams{
		Envs:             envs,
		Inputs:           inputs,
		RecursiveInputs:  rInputs,
		Outputs:          outputs,
		RecursiveOutputs: rOutputs,
	}

	known := make(map[string]struct{})
	var duplicates []string
	for _, name := range j.Names() {
		if _, ok := known[name]; ok {
			duplicates = append(duplicates, name)
			continue
		}
		known[name] = struct{}{}
	}
	if len(duplicates) > 0 {
		return nil, &CollisionError{Duplicates: duplicates}
	}

	return j, nil
}

// FileParams returns every file parameter across the four file classes, in
// stage order: inputs, recursive inputs, outputs, recursive outputs.
func (j *JobParams) FileParams() []FileParam {
	out := make([]FileParam, 0,
		len(j.Inputs)+len(j.RecursiveInputs)+len(j.Outputs)+len(j.RecursiveOutputs))
	out = append(out, j.Inputs...)
	out = append(out, j.RecursiveInputs...)
	out = append(out, j.Outputs...)
	out = append(out, j.RecursiveOutputs...)
	return out
}

// Names returns every parameter name in declaration order, env vars first.
func (j *JobParams) Names() []string {
	names := make([]string, 0, len(j.Envs))
	for _, e := range j.Envs {
		names = append(names, e.Name)
	}
	for _, f := range j.FileParams() {
		names = append(names, f.Name)
	}
	return names
}
