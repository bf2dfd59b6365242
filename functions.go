//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/timburks/dred/commander"
	"github.com/timburks/dred/config"
	"github.com/timburks/dred/editor"
	"github.com/timburks/dred/instance"
)

const version = "0.1.0"

// A function is run by "dred -f NAME ARGS..." instead of starting the editor.
type function struct {
	summary string
	flags   func() *pflag.FlagSet
	run     func(env *environment, flags *pflag.FlagSet) error
}

type environment struct {
	cfg    *config.Config
	logger *zap.Logger
	out    io.Writer
}

var functions = map[string]function{
	"version": {
		summary: "print the version",
		run: func(env *environment, flags *pflag.FlagSet) error {
			_, err := fmt.Fprintf(env.out, "dred %s\n", version)
			return err
		},
	},
	"commands": {
		summary: "list command names",
		flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("commands", pflag.ContinueOnError)
			fs.String("prefix", "", "only list commands starting with this")
			return fs
		},
		run: listCommands,
	},
	"eval": {
		summary: "evaluate a lisp script without a screen",
		run:     evalScript,
	},
	"send": {
		summary: "hand files to the running editor",
		flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("send", pflag.ContinueOnError)
			fs.Bool("activate", false, "also bring the editor to the front")
			return fs
		},
		run: sendFiles,
	},
}

func functionNames() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func runFunction(cfg *config.Config, logger *zap.Logger, name string, args []string, out io.Writer) error {
	f, ok := functions[name]
	if !ok {
		return fmt.Errorf("unknown function %q (have %s)", name, strings.Join(functionNames(), ", "))
	}
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	if f.flags != nil {
		flags = f.flags()
	}
	flags.SetOutput(io.Discard)
	if err := flags.Parse(args); err != nil {
		return err
	}
	return f.run(&environment{cfg: cfg, logger: logger, out: out}, flags)
}

func headless(env *environment) (*commander.Commander, *editor.Editor, error) {
	e := editor.NewEditor(env.logger)
	c, err := commander.NewCommander(e, env.logger)
	return c, e, err
}

func listCommands(env *environment, flags *pflag.FlagSet) error {
	prefix, err := flags.GetString("prefix")
	if err != nil {
		return err
	}
	c, _, err := headless(env)
	if err != nil {
		return err
	}
	registry := c.Registry()
	for _, index := range registry.CommandsStartingWith(prefix) {
		fmt.Fprintln(env.out, registry.Command(index).Name)
	}
	return nil
}

func evalScript(env *environment, flags *pflag.FlagSet) error {
	if flags.NArg() != 1 {
		return errors.New("usage: dred -f eval FILE")
	}
	c, _, err := headless(env)
	if err != nil {
		return err
	}
	result, err := c.EvalFile(flags.Arg(0))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(env.out, result)
	return err
}

func sendFiles(env *environment, flags *pflag.FlagSet) error {
	activate, err := flags.GetBool("activate")
	if err != nil {
		return err
	}
	coordinator := instance.New(coordinatorOptions(env.cfg, env.logger))
	return coordinator.Send(flags.Args(), activate)
}
