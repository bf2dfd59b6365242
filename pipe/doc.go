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

// Package pipe is a small bidirectional byte stream transport addressed by
// logical names. Each platform maps a logical name into its own namespace:
// a socket file under a directory on POSIX systems, and the \\.\pipe\
// namespace on Windows. An in-memory transport serves tests and embedding.
//
// On Windows only one process can create the first instance of a named pipe,
// so opening a server doubles as leader election (Transport.Exclusive). On
// POSIX systems a crashed server leaves its socket file behind, which callers
// remove with Transport.Cleanup once they know it is stale.
package pipe
