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
package commander

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/steelseries/golisp"
	"go.uber.org/zap"
)

// golisp primitives are global, so evaluation is serialized and the
// primitives act on whichever commander is evaluating.
var (
	lispMu sync.Mutex
	active *Commander
)

func init() {
	golisp.MakePrimitiveFunction("exec-command", "1", execImpl)
	golisp.MakePrimitiveFunction("bind-key", "2", bindImpl)
	golisp.MakePrimitiveFunction("unbind-key", "1", unbindImpl)
	golisp.MakePrimitiveFunction("open-file", "1", openImpl)
	golisp.MakePrimitiveFunction("show-message", "1", messageImpl)
	golisp.MakePrimitiveFunction("command-names", "1", commandsImpl)
}

func stringArg(name string, d *golisp.Data) (string, error) {
	if !golisp.StringP(d) {
		return "", fmt.Errorf("%s requires string arguments", name)
	}
	return golisp.StringValue(d), nil
}

func activeCommander() (*Commander, error) {
	if active == nil {
		return nil, errors.New("no commander is evaluating")
	}
	return active, nil
}

func execImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	c, err := activeCommander()
	if err != nil {
		return nil, err
	}
	line, err := stringArg("exec-command", golisp.Car(args))
	if err != nil {
		return nil, err
	}
	if err := c.ExecuteCommand(line); err != nil {
		return nil, err
	}
	return golisp.StringWithValue(c.editor.GetMessage()), nil
}

func bindImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	c, err := activeCommander()
	if err != nil {
		return nil, err
	}
	keys, err := stringArg("bind-key", golisp.Car(args))
	if err != nil {
		return nil, err
	}
	command, err := stringArg("bind-key", golisp.Cadr(args))
	if err != nil {
		return nil, err
	}
	if err := c.Bind(keys, command); err != nil {
		return nil, err
	}
	return golisp.StringWithValue(keys), nil
}

func unbindImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	c, err := activeCommander()
	if err != nil {
		return nil, err
	}
	keys, err := stringArg("unbind-key", golisp.Car(args))
	if err != nil {
		return nil, err
	}
	if err := c.Unbind(keys); err != nil {
		return nil, err
	}
	return golisp.StringWithValue(keys), nil
}

func openImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	c, err := activeCommander()
	if err != nil {
		return nil, err
	}
	path, err := stringArg("open-file", golisp.Car(args))
	if err != nil {
		return nil, err
	}
	if err := c.editor.Open(path); err != nil {
		return nil, err
	}
	return golisp.StringWithValue(path), nil
}

func messageImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	c, err := activeCommander()
	if err != nil {
		return nil, err
	}
	text, err := stringArg("show-message", golisp.Car(args))
	if err != nil {
		return nil, err
	}
	c.editor.SetMessage(text)
	return golisp.StringWithValue(text), nil
}

// (command-names "prefix") returns the matching command names, space separated.
func commandsImpl(args *golisp.Data, env *golisp.SymbolTableFrame) (*golisp.Data, error) {
	c, err := activeCommander()
	if err != nil {
		return nil, err
	}
	prefix, err := stringArg("command-names", golisp.Car(args))
	if err != nil {
		return nil, err
	}
	var names []string
	for _, index := range c.registry.CommandsStartingWith(prefix) {
		names = append(names, c.registry.Command(index).Name)
	}
	return golisp.StringWithValue(strings.Join(names, " ")), nil
}

// ParseEval evaluates one lisp expression and returns its printed value.
func (c *Commander) ParseEval(command string) (string, error) {
	if c.lispDepth == 0 {
		lispMu.Lock()
		active = c
		defer func() {
			active = nil
			lispMu.Unlock()
		}()
	}
	c.lispDepth++
	defer func() { c.lispDepth-- }()

	value, err := golisp.ParseAndEval(command)
	if err != nil {
		c.logger.Debug("lisp error", zap.String("expr", command), zap.Error(err))
		return "", err
	}
	if golisp.StringP(value) {
		return golisp.StringValue(value), nil
	}
	return golisp.String(value), nil
}

// EvalFile evaluates every expression in a lisp script.
func (c *Commander) EvalFile(path string) (string, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return c.ParseEval("(begin " + string(source) + "\n)")
}
