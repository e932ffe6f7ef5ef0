package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dros-labs/minsub/models"
	"github.com/dros-labs/minsub/services/docker"
	"github.com/dros-labs/minsub/services/params"
	"github.com/dros-labs/minsub/services/pipeline"
)

var (
	// Parameter flags, repeatable.
	envFlags             []string
	inputFlags           []string
	inputRecursiveFlags  []string
	outputFlags          []string
	outputRecursiveFlags []string
	envFile              string

	// Resource flags.
	project        string
	region         string
	machineType    string
	diskSize       int
	serviceAccount string
	scopes         []string

	// User step flags.
	actionName string
	image      string
	command    string
	timeout    string

	pretty   bool
	local    bool
	teardown string
	verbose  bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "minsub",
	Short: "Build pipeline requests from job parameters",
	Long: `minsub turns env, input and output parameters plus a command into a
pipelines API request document.

Input and output values are gs:// URIs; single-level filename wildcards
are allowed. Each file parameter is exported to the job's containers as
an environment variable pointing at its location on the data disk.

By default the request document is printed to stdout. With --local the
actions are instead executed in order against the local Docker daemon,
with a named volume standing in for the data disk.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: run,
}

func init() {
	f := rootCmd.Flags()

	f.StringArrayVarP(&envFlags, "env", "e", nil, "environment variable, KEY or KEY=VALUE (repeatable)")
	f.StringArrayVarP(&inputFlags, "input", "i", nil, "input file, [NAME=]gs://... (repeatable)")
	f.StringArrayVar(&inputRecursiveFlags, "input-recursive", nil, "input directory tree, [NAME=]gs://.../ (repeatable)")
	f.StringArrayVarP(&outputFlags, "output", "o", nil, "output file, [NAME=]gs://... (repeatable)")
	f.StringArrayVar(&outputRecursiveFlags, "output-recursive", nil, "output directory tree, [NAME=]gs://.../ (repeatable)")
	f.StringVar(&envFile, "env-file", "", "dotenv file whose entries are added as --env parameters")

	f.StringVar(&project, "project", "", "cloud project id")
	f.StringVar(&region, "region", "", "compute region the job runs in")
	f.StringVar(&machineType, "machine-type", models.DefaultMachineType, "machine type for the pipeline VM")
	f.IntVar(&diskSize, "disk-size", models.DefaultDiskSize, "data disk size in GB")
	f.StringVar(&serviceAccount, "service-account", "", "service account email (default: compute service account)")
	f.StringSliceVar(&scopes, "scopes", []string{models.DefaultScope}, "service account scopes")

	f.StringVar(&actionName, "name", "user-command", "name of the user action")
	f.StringVar(&image, "image", models.DebianImage, "image the user command runs in")
	f.StringVar(&command, "command", "", "bash command to run between stage-in and stage-out")
	f.StringVar(&timeout, "timeout", models.SevenDays, "overall pipeline timeout, e.g. 86400s")

	f.BoolVar(&pretty, "pretty", false, "indent the printed request document")
	f.BoolVar(&local, "local", false, "run the actions against the local Docker daemon instead of printing")
	f.StringVar(&teardown, "teardown", "", "remove local containers and volumes for the given job id, then exit")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if teardown != "" {
		return teardownLocal(ctx, teardown)
	}

	envArgs := envFlags
	if envFile != "" {
		fileEnvs, err := envFileArgs(envFile)
		if err != nil {
			return err
		}
		envArgs = append(envArgs, fileEnvs...)
	}

	job, err := params.ArgsToJobParams(
		envArgs, inputFlags, inputRecursiveFlags, outputFlags, outputRecursiveFlags)
	if err != nil {
		return err
	}

	resources := models.NewResourcesConfig(project, region)
	resources.MachineType = machineType
	resources.DiskSize = diskSize
	resources.ServiceAccount = serviceAccount
	resources.Scopes = scopes

	actions := []models.Action{pipeline.Localize(job)}
	if command != "" {
		actions = append(actions,
			pipeline.User(actionName, image, []string{"-c", command}, ""))
	}
	actions = append(actions, pipeline.Delocalize(job))

	request, err := pipeline.CreateRequest(resources, job, actions, timeout)
	if err != nil {
		return err
	}

	if local {
		return runLocal(ctx, request)
	}

	var out []byte
	if pretty {
		out, err = json.MarshalIndent(request, "", "    ")
	} else {
		out, err = json.Marshal(request)
	}
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// envFileArgs loads a dotenv file and returns its entries as KEY=VALUE
// flag values, sorted for a stable parameter order.
func envFileArgs(path string) ([]string, error) {
	pairs, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read env file %q: %w", path, err)
	}

	args := make([]string, 0, len(pairs))
	for k, v := range pairs {
		args = append(args, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(args)
	return args, nil
}

func runLocal(ctx context.Context, request *models.Request) error {
	job := uuid.New()
	logger.Info("assigned local job id", zap.String("job", job.String()))

	runner, err := docker.NewRunner(logger)
	if err != nil {
		return fmt.Errorf("connect to docker: %w", err)
	}
	return runner.Run(ctx, job, request)
}

func teardownLocal(ctx context.Context, jobID string) error {
	job, err := uuid.Parse(jobID)
	if err != nil {
		return fmt.Errorf("parse job id %q: %w", jobID, err)
	}

	runner, err := docker.NewRunner(logger)
	if err != nil {
		return fmt.Errorf("connect to docker: %w", err)
	}
	return runner.Teardown(ctx, job)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
