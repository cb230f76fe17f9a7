// Command transplant captures a directory tree into a self-describing
// byte stream, or reconstructs one from such a stream: `-s -p <dir>`
// writes the stream to stdout, `-d -p <dir>` reads it from stdin.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/bgrewell/usage"
	"github.com/theckman/yacspin"
	"golang.org/x/term"

	"github.com/lianatorpey/transplant/pkg/codec"
	"github.com/lianatorpey/transplant/pkg/logging"
	"github.com/lianatorpey/transplant/pkg/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	u := usage.NewUsage(
		usage.WithApplicationVersion(version.Version()),
		usage.WithApplicationBranch(version.Branch()),
		usage.WithApplicationBuildDate(version.Date()),
		usage.WithApplicationCommitHash(version.Revision()),
		usage.WithApplicationName("transplant"),
		usage.WithApplicationDescription("transplant serializes a directory tree to a self-describing byte stream on stdout, or reconstructs a tree from such a stream read on stdin."),
	)

	help := u.AddBooleanOption("h", "help", false, "Show this help message", "", nil)
	serialize := u.AddBooleanOption("s", "serialize", false, "Serialize the directory at -p to stdout", "", nil)
	deserialize := u.AddBooleanOption("d", "deserialize", false, "Deserialize stdin into the directory at -p", "", nil)
	clobber := u.AddBooleanOption("c", "clobber", false, "Allow deserialize to overwrite existing files and directories", "", nil)
	quiet := u.AddBooleanOption("q", "quiet", false, "Suppress the progress spinner", "", nil)
	verbose := u.AddBooleanOption("v", "verbose", false, "Enable verbose (debug) logging to stderr", "", nil)
	trace := u.AddBooleanOption("vv", "trace", false, "Enable trace logging to stderr", "", nil)
	path := u.AddStringOption("p", "path", ".", "The directory to serialize from or deserialize into", "", nil)

	parsed := u.Parse()
	if !parsed {
		u.PrintError(fmt.Errorf("failed to parse arguments"))
		return 1
	}

	if *help {
		u.PrintUsage()
		return 0
	}

	if *serialize == *deserialize {
		u.PrintError(fmt.Errorf("exactly one of -s or -d must be given"))
		return 1
	}
	if *clobber && !*deserialize {
		u.PrintError(fmt.Errorf("-c/--clobber only applies to -d/--deserialize"))
		return 1
	}

	// Debug/trace logging is opt-in: without -v/-vv the codec runs with a
	// discarding Logger so a mid-tree failure still surfaces exactly once,
	// via the fmt.Fprintf below, rather than also through Logger.Error.
	var logger *logging.Logger
	switch {
	case *trace:
		logger = logging.FromLevelName("trace")
	case *verbose:
		logger = logging.FromLevelName("debug")
	default:
		logger = logging.DefaultLogger()
	}

	if *serialize {
		return runSerialize(logger, *path, *quiet)
	}
	return runDeserialize(logger, *path, *clobber, *quiet)
}

func runSerialize(logger *logging.Logger, path string, quiet bool) int {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "refusing to write a binary stream to a terminal; redirect stdout to a file or pipe")
		return 1
	}

	spin := newSpinner(quiet, "transplanting")

	opts := []codec.Option{
		codec.WithBasePath(path),
		codec.WithLogger(logger),
		codec.WithProgress(spinnerProgress(spin)),
	}

	if err := codec.Serialize(os.Stdout, opts...); err != nil {
		spin.stopFail()
		fmt.Fprintf(os.Stderr, "serialize: %v\n", err)
		return 1
	}
	spin.stop("serialized " + path)
	return 0
}

func runDeserialize(logger *logging.Logger, path string, clobber, quiet bool) int {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "refusing to read a binary stream from a terminal; redirect stdin from a file or pipe")
		return 1
	}

	spin := newSpinner(quiet, "transplanting")

	opts := []codec.Option{
		codec.WithBasePath(path),
		codec.WithClobber(clobber),
		codec.WithLogger(logger),
		codec.WithProgress(spinnerProgress(spin)),
	}

	if err := codec.Deserialize(os.Stdin, opts...); err != nil {
		spin.stopFail()
		fmt.Fprintf(os.Stderr, "deserialize: %v\n", err)
		return 1
	}
	spin.stop("deserialized into " + path)
	return 0
}

// spinner wraps a yacspin.Spinner, reduced to the handful of calls the
// CLI needs, and is a safe no-op when disabled (quiet mode, or stderr
// isn't a terminal).
type spinner struct {
	s *yacspin.Spinner
}

func newSpinner(quiet bool, message string) *spinner {
	if quiet || !term.IsTerminal(int(os.Stderr.Fd())) {
		return &spinner{}
	}

	cfg := yacspin.Config{
		Frequency:         100 * time.Millisecond,
		CharSet:           yacspin.CharSets[9],
		Message:           message,
		StopCharacter:     "✓",
		StopFailCharacter: "✗",
	}
	s, err := yacspin.New(cfg)
	if err != nil {
		return &spinner{}
	}
	s.Start()
	return &spinner{s: s}
}

func (p *spinner) update(count int) {
	if p.s == nil {
		return
	}
	p.s.Message(fmt.Sprintf("transplanting (%d entries)", count))
}

func (p *spinner) stop(message string) {
	if p.s == nil {
		return
	}
	p.s.StopMessage(message)
	p.s.Stop()
}

func (p *spinner) stopFail() {
	if p.s == nil {
		return
	}
	p.s.StopFailMessage("failed")
	p.s.StopFail()
}

func spinnerProgress(spin *spinner) codec.ProgressCallback {
	count := 0
	return func(codec.ProgressEvent) {
		count++
		spin.update(count)
	}
}
