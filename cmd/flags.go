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

// Package cmd contains helpers shared by the exchangetree binaries.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/mattn/go-shellwords"
)

// ParseFlagFile parses a set of flags for fs from a file at the provided
// path, then re-parses args so that flags provided on the command line take
// precedence over flags provided in the file. Environment variables in the
// file are expanded after the file is split into words, so a value holding
// spaces stays a single flag value whether or not the reference is quoted.
// Quoting does not suppress expansion.
func ParseFlagFile(fs *flag.FlagSet, path string, args []string) error {
	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return parseFlags(fs, string(file), args)
}

func parseFlags(fs *flag.FlagSet, contents string, args []string) error {
	fileArgs, err := shellwords.NewParser().Parse(contents)
	if err != nil {
		return err
	}
	for i, arg := range fileArgs {
		fileArgs[i] = os.ExpandEnv(arg)
	}
	if err := fs.Parse(fileArgs); err != nil {
		return err
	}
	if rest := fs.Args(); len(rest) > 0 {
		return fmt.Errorf("flag file: unexpected arguments %q", rest)
	}
	return fs.Parse(args)
}
