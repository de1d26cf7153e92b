// Copyright 2026 Google LLC. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// The exchangetree binary builds, verifies, discloses and converts salted
// Merkle tree documents, and can serve those operations over HTTP.
//
// Usage:
//
//	exchangetree [klog flags] <command> [flags] [args]
//
// Every command accepts --config, a file of further flags.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/google/exchangetree/cmd"
	"k8s.io/klog/v2"
)

// env holds the process streams a command reads from and writes to.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

type command struct {
	usage string
	run   func(ctx context.Context, e *env, args []string) error
}

var commands = map[string]command{
	"build":    {usage: "build [--input fields.yaml] [--version 3.0] [--alg SHA256] [--exchange type]", run: runBuild},
	"verify":   {usage: "verify [--parallelism n] [file...]", run: runVerify},
	"disclose": {usage: "disclose (--keep key,... | --hide index,...) [--input doc.json]", run: runDisclose},
	"convert":  {usage: "convert --version v [--input doc.json]", run: runConvert},
	"serve":    {usage: "serve [--http_endpoint :8080] [--store memory|redis|none]", run: runServe},
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: exchangetree [flags] <command> [command flags]\n\nCommands:\n")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\n", commands[name].usage)
	}
}

func run(ctx context.Context, e *env, args []string) error {
	if len(args) == 0 {
		usage(e.stderr)
		return fmt.Errorf("no command given")
	}
	c, ok := commands[args[0]]
	if !ok {
		usage(e.stderr)
		return fmt.Errorf("unknown command %q", args[0])
	}
	return c.run(ctx, e, args[1:])
}

// newFlagSet returns a FlagSet for the named command, with the --config
// flag already defined.
func newFlagSet(e *env, name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	config := fs.String("config", "", "File of further flags for this command")
	return fs, config
}

// parseFlags parses args, then the --config file if one was named.
func parseFlags(fs *flag.FlagSet, config *string, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *config == "" {
		return nil
	}
	return cmd.ParseFlagFile(fs, *config, args)
}

func readInput(e *env, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(e.stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(e *env, path string, b []byte) error {
	if path == "" || path == "-" {
		_, err := fmt.Fprintf(e.stdout, "%s\n", b)
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// splitList splits a comma separated flag value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func main() {
	klog.InitFlags(nil)
	flag.Usage = func() { usage(os.Stderr) }
	flag.Parse()
	defer klog.Flush()

	e := &env{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	if err := run(context.Background(), e, flag.Args()); err != nil {
		klog.Exitf("exchangetree: %v", err)
	}
}
