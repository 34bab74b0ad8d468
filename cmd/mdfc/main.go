// Command mdfc compiles MDFS chart sources into MDF JSON.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"nitro-mdfs/internal/mdfs"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "compile":
		err = runCompile(os.Args[2:])
	case "simulate":
		err = runSimulate(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s compile <input.mdfs> [-o <output>] [-manifest-base <dir>]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "       %s simulate <input>\n", os.Args[0])
}

func runCompile(args []string) error {
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	output := fs.String("o", "", "output path (default: <input-without-.mdfs>.mdf.json)")
	manifestBase := fs.String("manifest-base", "", "directory @sound_manifest resolves against (default: input's parent directory)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		usage()
		os.Exit(1)
	}
	input := fs.Arg(0)

	baseDir := *manifestBase
	if baseDir == "" {
		baseDir = filepath.Dir(input)
	}

	src, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("Error: compile failed: %s\n\nCaused by:\n    %s", input,
			(&mdfs.CompileError{Code: "E2001", Message: "failed to read input .mdfs: " + err.Error()}).Error())
	}

	chart, cErr := mdfs.CompileStringWithOptions(string(src), mdfs.CompileOptions{BaseDir: baseDir})
	if cErr != nil {
		return fmt.Errorf("Error: compile failed: %s\n\nCaused by:\n    %s", input, cErr.Error())
	}

	data, jsonErr := chart.MarshalIndent()
	if jsonErr != nil {
		return fmt.Errorf("Error: compile failed: %s\n\nCaused by:\n    %s", input, jsonErr.Error())
	}

	outPath := *output
	if outPath == "" {
		outPath = deriveOutputPath(input)
	}

	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("Error: failed to write: %s\n\nCaused by:\n    %s", outPath, err.Error())
	}

	return nil
}

func runSimulate(args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		usage()
		os.Exit(1)
	}
	input := fs.Arg(0)

	var chart *mdfs.MdfChart
	if strings.HasSuffix(input, ".mdfs") {
		c, cErr := mdfs.CompileFile(input)
		if cErr != nil {
			return fmt.Errorf("Error: compile failed: %s\n\nCaused by:\n    %s", input, cErr.Error())
		}
		chart = c
	} else {
		data, err := os.ReadFile(input)
		if err != nil {
			return fmt.Errorf("Error: failed to read: %s\n\nCaused by:\n    %s", input, err.Error())
		}
		c, err := mdfs.UnmarshalChart(data)
		if err != nil {
			return fmt.Errorf("Error: failed to parse json: %s\n\nCaused by:\n    %s", input, err.Error())
		}
		chart = c
	}

	return mdfs.RunSimulation(os.Stdout, chart)
}

// deriveOutputPath replaces the input's .mdfs extension with .mdf.json,
// or appends it if the input has no such extension.
func deriveOutputPath(input string) string {
	trimmed := strings.TrimSuffix(input, ".mdfs")
	return trimmed + ".mdf.json"
}
