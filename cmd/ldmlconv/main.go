// Command ldmlconv rewrites an LDML writing-system file through the mapper:
// the document is read into a model and written back merged against itself,
// normalizing the sections the mapper understands while everything else is
// preserved. Legacy x- language tags stay in their on-disk form.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/AndrewChristensenFCBH/libpalaso/internal/atomicfile"
	"github.com/AndrewChristensenFCBH/libpalaso/ldml"
	"github.com/AndrewChristensenFCBH/libpalaso/writingsystems"
)

func main() {
	os.Exit(run())
}

func run() int {
	return runWithArgs(os.Args[1:], os.Stdout, os.Stderr)
}

func runWithArgs(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ldmlconv", flag.ContinueOnError)
	fs.SetOutput(stderr)
	outPath := fs.String("o", "", "write output to file instead of stdout")
	var usageErr error
	fs.Usage = func() {
		usageErr = errors.Join(
			usageErr,
			writef(stderr, "Usage: %s [-o output.ldml] <file.ldml>\n\n", fs.Name()),
			writeln(stderr, "Rewrites an LDML writing-system file, normalizing understood sections."),
			writeln(stderr),
			writeln(stderr, "Options:"),
		)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	remaining := fs.Args()
	if len(remaining) != 1 {
		if err := writeln(stderr, "error: exactly one LDML file argument is required"); err != nil {
			return 1
		}
		fs.Usage()
		if usageErr != nil {
			return 1
		}
		return 2
	}
	inPath := remaining[0]

	data, err := os.ReadFile(inPath)
	if err != nil {
		if writeErr := writef(stderr, "error reading %s: %v\n", inPath, err); writeErr != nil {
			return 1
		}
		return 1
	}

	// One mapper for both directions, so a legacy identity block detected on
	// read is reproduced on write.
	mapper := ldml.NewDataMapper()
	var ws writingsystems.Definition
	if err := mapper.Read(bytes.NewReader(data), &ws); err != nil {
		if writeErr := writef(stderr, "error: %v\n", err); writeErr != nil {
			return 1
		}
		return 1
	}

	var out bytes.Buffer
	if err := mapper.Write(&out, &ws, bytes.NewReader(data)); err != nil {
		if writeErr := writef(stderr, "error: %v\n", err); writeErr != nil {
			return 1
		}
		return 1
	}

	if *outPath == "" {
		if _, err := stdout.Write(out.Bytes()); err != nil {
			return 1
		}
		return 0
	}
	err = atomicfile.Replace(*outPath, func(w io.Writer) error {
		_, err := w.Write(out.Bytes())
		return err
	})
	if err != nil {
		if writeErr := writef(stderr, "error writing %s: %v\n", *outPath, err); writeErr != nil {
			return 1
		}
		return 1
	}
	return 0
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	_, err := fmt.Fprintln(w, args...)
	return err
}
