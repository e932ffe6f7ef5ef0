package models

// Wire types for the pipelines request document. Field names and json tags
// follow the service's API; the encoded document must match it exactly.

type Request struct {
	Pipeline Pipeline          `json:"pipeline"`
	Labels   map[string]string `json:"labels"`
}

type Pipeline struct {
	Actions     []Action          `json:"actions"`
	Resources   Resources         `json:"resources"`
	Environment map[string]string `json:"environment"`
	Timeout     string            `json:"timeout"`
}

// Action is one containerized pipeline step.
type Action struct {
	Name        string            `json:"name"`
	ImageURI    string            `json:"imageUri"`
	Commands    []string          `json:"commands"`
	Environment map[string]string `json:"environment"`
	Flags       []string          `json:"flags"`
	Mounts      []Mount           `json:"mounts"`
	Timeout     string            `json:"timeout"`
	Entrypoint  string            `json:"entrypoint,omitempty"`
}

// Mount attaches a named disk inside an action's container.
type Mount struct {
	Disk     string `json:"disk"`
	Path     string `json:"path"`
	ReadOnly bool   `json:"readOnly"`
}

type Resources struct {
	ProjectID      string         `json:"projectId"`
	Regions        []string       `json:"regions"`
	VirtualMachine VirtualMachine `json:"virtualMachine"`
}

type VirtualMachine struct {
	MachineType    string         `json:"machineType"`
	Preemptible    bool           `json:"preemptible"`
	Disks          []Disk         `json:"disks"`
	ServiceAccount ServiceAccount `json:"serviceAccount"`
}

type Disk struct {
	Name   string `json:"name"`
	SizeGB int    `json:"sizeGb"`
}

type ServiceAccount struct {
	Scopes []string `json:"scopes"`
	Email  string   `json:"email,omitempty"`
}
