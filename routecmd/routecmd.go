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

package routecmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/adelekeogunsona/lean-go/router"
)

// BuildFunc constructs the application's router with all routes registered.
// It is called once per subcommand invocation so each command sees a fresh,
// unfinalized table.
type BuildFunc func() (*router.Router, error)

// New returns the "routes" command with its list, cache, and clear
// subcommands. Applications mount it on their root command:
//
//	root := &cobra.Command{Use: "api"}
//	root.AddCommand(routecmd.New(app.BuildRouter))
func New(build BuildFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "routes",
		Short:         "Inspect and cache the route table",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newListCmd(build), newCacheCmd(build), newClearCmd())
	return cmd
}

func newListCmd(build BuildFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every registered route in registration order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := build()
			if err != nil {
				return fmt.Errorf("build router: %w", err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "METHOD\tPATH\tPARAMS\tHANDLER")
			for _, info := range r.Routes() {
				params := "-"
				if len(info.Params) > 0 {
					params = strings.Join(info.Params, ", ")
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", info.Method, info.Template, params, info.Handler)
			}
			return tw.Flush()
		},
	}
}

func newCacheCmd(build BuildFunc) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Serialize the route table to a cache file",
		Long: "Serialize the route table so later boots can skip template " +
			"compilation. Every route must use registered controller and " +
			"middleware references; closures cannot be cached.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := build()
			if err != nil {
				return fmt.Errorf("build router: %w", err)
			}
			if err := r.WriteCacheFile(out); err != nil {
				return fmt.Errorf("write cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cached %d routes to %s\n", len(r.Routes()), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "routes.cache.json", "cache file path")
	return cmd
}

func newClearCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the route cache file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := os.Remove(out)
			if os.IsNotExist(err) {
				fmt.Fprintf(cmd.OutOrStdout(), "no cache at %s\n", out)
				return nil
			}
			if err != nil {
				return fmt.Errorf("remove cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "routes.cache.json", "cache file path")
	return cmd
}
