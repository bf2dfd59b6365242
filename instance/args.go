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
package instance

import (
	"errors"
	"strings"
)

var ErrMissingFunction = errors.New("-f needs a function name")

// Args is the part of the command line the coordinator cares about.
type Args struct {
	NewInstance bool
	NoIPC       bool
	Files       []string
	// Function is set when the command line starts with -f; FunctionArgs
	// holds everything after the function name, unparsed.
	Function     string
	FunctionArgs []string
}

// ParseArgs reads argv without the program name. Single dash long options
// mix freely with file names; "--" ends option processing.
func ParseArgs(argv []string) (Args, error) {
	var args Args
	if len(argv) > 0 && argv[0] == "-f" {
		if len(argv) < 2 || argv[1] == "" {
			return args, ErrMissingFunction
		}
		args.Function = argv[1]
		args.FunctionArgs = argv[2:]
		return args, nil
	}
	i := 0
	for i < len(argv) {
		arg := argv[i]
		i++
		switch {
		case arg == "--":
			args.Files = append(args.Files, argv[i:]...)
			i = len(argv)
		case arg == "-newinstance":
			args.NewInstance = true
		case arg == "-noipc":
			args.NoIPC = true
		case strings.HasPrefix(arg, "-") && arg != "-":
			// Unknown switches are left to other layers.
		default:
			args.Files = append(args.Files, arg)
		}
	}
	return args, nil
}
