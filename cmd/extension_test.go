package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// writeExtension installs a shell script extension in a directory on PATH.
func writeExtension(t *testing.T, name, script string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script extensions need a unix shell")
	}
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "trk-"+name), []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestRunExtension(t *testing.T) {
	writeExtension(t, "hello", `echo "args=$*"
echo "verbose=$TRK_VERBOSE"
echo "currency=$TRK_DISPLAY_CURRENCY"
`)
	t.Setenv("TRK_DISPLAY_CURRENCY", "CHF")
	out := captureStdout(t)

	found, code := RunExtension("hello", []string{"a", "b"})
	if !found || code != 0 {
		t.Fatalf("RunExtension() = %v, %d, want true, 0", found, code)
	}
	for _, want := range []string{"args=a b", "verbose=false", "currency=CHF"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("extension output does not contain %q:\n%s", want, out)
		}
	}
}

func TestRunExtension_ExitCode(t *testing.T) {
	writeExtension(t, "fail", "exit 3\n")
	captureStdout(t)
	if found, code := RunExtension("fail", nil); !found || code != 3 {
		t.Errorf("RunExtension() = %v, %d, want true, 3", found, code)
	}
}

func TestRunExtension_Missing(t *testing.T) {
	if found, _ := RunExtension("surely-not-installed", nil); found {
		t.Error("RunExtension() found a missing extension")
	}
}

func TestIsCommand(t *testing.T) {
	for _, name := range []string{"buy", "holding", "serve", "help"} {
		if !IsCommand(name) {
			t.Errorf("IsCommand(%q) = false", name)
		}
	}
	if IsCommand("hello") {
		t.Error("IsCommand(hello) = true")
	}
}

// captureStdout redirects the command outputs for the duration of the test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var b bytes.Buffer
	old := stdout
	stdout = &b
	t.Cleanup(func() { stdout = old })
	return &b
}
