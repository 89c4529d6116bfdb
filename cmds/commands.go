// Package cmds implements the command line interface of the injector.
package cmds

import (
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mcoot/TribesLauncher/config"
	"github.com/mcoot/TribesLauncher/injector"
	"github.com/mcoot/TribesLauncher/logflags"
)

const version = "1.0.0"

// Process exit codes, one per injection outcome.
const (
	ExitOK = iota
	ExitFailure
	ExitMissingArguments
	ExitNotRunning
	ExitLibraryMissing
	ExitInsufficientPrivilege
	ExitInjectionFailed
	ExitUnknown
)

var (
	// log is whether to log injector steps.
	log bool
	// logOutput is a comma separated list of layers to log.
	logOutput string
	// configPath is the config file to read; empty uses the default path.
	configPath string

	process       string
	library       string
	wait          time.Duration
	verifyLibrary bool
)

const injectLongDesc = `Makes a running process load a shared library.

The first process whose executable name matches --process exactly is opened,
the absolute path of --library is written into its memory and a remote thread
running the system loader is started with that path as argument.

By default the command returns as soon as the remote thread exists; it does not
know whether the library loaded. Pass --wait to wait for the loader and report
its result. The library file is not checked unless --verify-library is set.`

// New returns an initialized command tree.
func New() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           "tribes-injector",
		Short:         "Injects a shared library into a running process.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logflags.Setup(log, logOutput, cmd.ErrOrStderr())
		},
	}
	rootCommand.PersistentFlags().BoolVarP(&log, "log", "", false, "Enable logging of injection steps.")
	rootCommand.PersistentFlags().StringVarP(&logOutput, "log-output", "", "", "Comma separated list of layers that should log (injector, cli).")
	rootCommand.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file to read (default is the per-user config.yml).")

	injectCommand := &cobra.Command{
		Use:   "inject",
		Short: "Inject a library into a running process.",
		Long:  injectLongDesc,
		Args:  cobra.NoArgs,
		RunE:  injectCmd,
	}
	injectFlags(injectCommand.Flags())
	rootCommand.AddCommand(injectCommand)

	rootCommand.AddCommand(&cobra.Command{
		Use:   "running NAME",
		Short: "Report whether a process with the given executable name is running.",
		Args:  cobra.ExactArgs(1),
		RunE:  runningCmd,
	})

	rootCommand.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Prints version.",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tribes-injector version %s\n", version)
		},
	})

	return rootCommand
}

func injectFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&process, "process", "p", "", "Executable name of the target process, e.g. app.exe.")
	fs.StringVarP(&library, "library", "l", "", "Path of the library to load.")
	fs.DurationVarP(&wait, "wait", "w", 0, "Wait up to this long (e.g. 5s) for the remote loader.")
	fs.BoolVarP(&verifyLibrary, "verify-library", "", false, "Check that the library file exists and matches this architecture.")
}

// loadConfig reads the config file and lets explicitly set flags override it.
func loadConfig(fs *pflag.FlagSet) (*config.Config, error) {
	path, optional := configPath, false
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		path, optional = p, true
	}
	conf, err := config.Load(path, optional)
	if err != nil {
		return nil, err
	}
	if fs.Changed("process") {
		conf.Process = process
	}
	if fs.Changed("library") {
		conf.Library = library
	}
	if fs.Changed("wait") {
		conf.Wait = wait
	}
	if fs.Changed("verify-library") {
		conf.VerifyLibrary = verifyLibrary
	}
	return conf, conf.Validate()
}

func injectCmd(cmd *cobra.Command, args []string) error {
	conf, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	if logflags.CLI() {
		logflags.CLILogger().Debugf("injecting %s into %s (wait %v, verify %v)", conf.Library, conf.Process, conf.Wait, conf.VerifyLibrary)
	}

	inj := injector.New(injector.Options{
		Wait:          conf.Wait,
		VerifyLibrary: conf.VerifyLibrary,
	})
	if err := inj.Inject(conf.Process, conf.Library); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "injection succeeded")
	return nil
}

func runningCmd(cmd *cobra.Command, args []string) error {
	name := args[0]
	inj := injector.New(injector.Options{})
	if !inj.IsProcessRunning(name) {
		pid, err := inj.Resolve(name)
		if err != nil {
			return err
		}
		// Listed but could not be opened.
		return &injector.Error{Kind: injector.KindAccess, Op: "open " + name, Pid: pid}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is running\n", name)
	return nil
}

// Execute runs the command tree with args and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	root := New()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.Execute()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return ExitCode(err)
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, config.ErrMissingArguments) {
		return ExitMissingArguments
	}
	var ie *injector.Error
	if !errors.As(err, &ie) {
		return ExitFailure
	}
	switch ie.Kind {
	case injector.KindLookup:
		return ExitNotRunning
	case injector.KindLibrary:
		return ExitLibraryMissing
	case injector.KindAccess, injector.KindArchitecture:
		return ExitInsufficientPrivilege
	case injector.KindPath, injector.KindRemoteMemory, injector.KindRemoteExec,
		injector.KindTimeout, injector.KindRemoteLoad:
		return ExitInjectionFailed
	}
	return ExitUnknown
}
