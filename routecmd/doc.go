// Copyright 2026 The Lean-Go Authors
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

// Package routecmd provides a cobra command group for route-table tooling.
//
// The command group is built around a [BuildFunc] that constructs the
// application's router; the subcommands operate on the result:
//
//   - routes list: print method, template, parameters, and handler for
//     every registered route
//   - routes cache: serialize the table to a JSON artifact that
//     [router.Router.LoadCacheFile] restores on the next boot
//   - routes clear: delete the cache artifact
//
// The cache subcommand fails when any route uses a closure handler or
// instance middleware; only controller and middleware references
// serialize.
package routecmd
