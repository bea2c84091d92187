package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"slices"
	"strconv"
)

// Environment passed to extensions, on top of the current one. Extensions
// reading the TRK_* settings see the same configuration as trk.
const (
	EnvConfigFile = "TRK_CONFIG_FILE"
	EnvVerbose    = "TRK_VERBOSE"
)

// IsCommand reports whether name is a built-in command.
func IsCommand(name string) bool {
	return slices.Contains(commandNames(), name) || name == "help" || name == "flags" || name == "commands"
}

// RunExtension attempts to find and execute an external trk-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
func RunExtension(subcommand string, args []string) (bool, int) {
	name := "trk-" + subcommand
	lp, err := exec.LookPath(name)
	if err != nil {
		slog.Debug("no extension", "name", name, "error", err)
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(),
		EnvConfigFile+"="+*configFile,
		EnvVerbose+"="+strconv.FormatBool(*verbose),
	)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return true, exitErr.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing extension %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}
