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
	"os"

	"go.uber.org/zap"

	"github.com/timburks/dred/commander"
	"github.com/timburks/dred/config"
	"github.com/timburks/dred/editor"
	"github.com/timburks/dred/instance"
	"github.com/timburks/dred/logging"
	"github.com/timburks/dred/pipe"
	"github.com/timburks/dred/screen"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	cfg := config.LoadOrDefault()
	logger := newLogger(cfg)
	defer logger.Sync()

	args, err := instance.ParseArgs(argv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if args.Function != "" {
		if err := runFunction(cfg, logger, args.Function, args.FunctionArgs, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "dred -f %s: %v\n", args.Function, err)
			return 1
		}
		return 0
	}

	// Either hand the files to the running editor or become it.
	coordinator := instance.New(coordinatorOptions(cfg, logger))
	state, err := coordinator.TryBecomeLeaderOrForward(args)
	if state == instance.ForwardedToLeader {
		return 0
	}
	if err != nil {
		logger.Warn("starting without single-instance coordination", zap.Error(err))
	}
	defer coordinator.Close()

	// The editor manages the open documents.
	e := editor.NewEditor(logger)

	// The commander converts user inputs into commands for the editor.
	c, err := commander.NewCommander(e, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer c.Uninit()

	for _, filename := range args.Files {
		if err := e.Open(filename); err != nil {
			e.SetMessage(err.Error())
		}
	}
	runInitScript(c, cfg.InitScript, logger)

	// Create a screen to manage display.
	s, err := screen.NewScreen()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer s.Close()

	// Requests from other launches wait in the inbox until the loop drains it.
	inbox := editor.NewInbox(s.Notify)
	coordinator.Serve(inbox)

	// Run the main event loop.
	for c.IsRunning() {
		inbox.Drain(e)
		s.Render(e, c)
		event := s.GetNextEvent()
		switch event.Type {
		case screen.EventKey:
			if err := c.ProcessKey(event.Accelerator); err != nil {
				logger.Debug("key", zap.Stringer("accelerator", event.Accelerator), zap.Error(err))
			}
		case screen.EventError:
			logger.Error("terminal", zap.Error(event.Err))
			return 1
		}
	}
	return 0
}

func newLogger(cfg *config.Config) *zap.Logger {
	logger, err := logging.New(logging.Config{
		Level:       cfg.LogLevel,
		Development: cfg.LogDev,
		OutputPaths: []string{cfg.LogFile},
	})
	if err != nil {
		return logging.Nop()
	}
	return logger
}

func coordinatorOptions(cfg *config.Config, logger *zap.Logger) instance.Options {
	return instance.Options{
		Transport:      pipe.Default(cfg.PipeDir),
		PipeName:       cfg.PipeName(),
		LockPath:       cfg.LockPath(),
		ConnectTimeout: cfg.ConnectTimeout,
		Logger:         logger,
	}
}

// runInitScript evaluates the user's startup script when there is one.
func runInitScript(c *commander.Commander, path string, logger *zap.Logger) {
	if path == "" {
		return
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return
	}
	if _, err := c.EvalFile(path); err != nil {
		logger.Warn("init script failed", zap.String("path", path), zap.Error(err))
	}
}
