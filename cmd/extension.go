package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"syscall"

	"github.com/rs/zerolog/log"
)

// Environment variables passed to extensions.
const (
	EnvPositionsFile = "TRK_POSITIONS_FILE"
	EnvCurrency      = "TRK_CURRENCY"
	EnvVerbose       = "TRK_VERBOSE"
)

// ExtensionPrefix prefixes the name of external trk-<subcommand> binaries.
const ExtensionPrefix = "trk-"

// extensionEnv returns the global flags as environment variables.
func extensionEnv() []string {
	env := []string{
		EnvPositionsFile + "=" + *positionsFile,
		EnvCurrency + "=" + *currency,
		EnvVerbose + "=" + strconv.FormatBool(*Verbose),
	}
	if key := APIKey(); key != "" {
		env = append(env, EnvAPIKey+"="+key)
	}
	return env
}

// RunExtension attempts to find and execute an external trk-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found or executed.
func RunExtension(subcommand string, args []string) (bool, int) {
	externalCmdName := ExtensionPrefix + subcommand

	// Look for the external command in PATH
	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		log.Debug().Err(err).Str("extension", externalCmdName).Msg("external command not found in PATH")
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	// Pass global flags as environment variables
	cmd.Env = append(os.Environ(), extensionEnv()...)

	if err := cmd.Run(); err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			if status, ok := exitError.Sys().(syscall.WaitStatus); ok {
				return true, status.ExitStatus()
			}
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", externalCmdName, err)
		return true, 1 // Indicate that an attempt was made, but it failed
	}

	return true, 0
}
