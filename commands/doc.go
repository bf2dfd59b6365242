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

// Package commands holds the table of named commands that the command bar,
// menus and shortcuts route to. The table is built once from a declarative
// list and never changes afterwards, so it may be read from any goroutine.
//
// A command line is a verb followed by free-form argument text:
//
//	open ~/notes.txt
//	!make test
//
// A line starting with "!" always routes to the system command at index 0,
// with the rest of the line as its argument.
package commands
