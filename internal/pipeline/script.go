// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
)

// WriteScript renders reports as a POSIX shell script. Stages that did not
// run are listed as comments with their reason.
func WriteScript(w io.Writer, reports []Report) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "#!/bin/sh")
	fmt.Fprintln(bw, "set -e")
	for _, rep := range reports {
		fmt.Fprintf(bw, "\n# package %s\n", rep.Package)
		for _, s := range rep.Steps {
			if s.Status != StatusDone {
				fmt.Fprintf(bw, "# %s %s: %s\n", s.Status, s.Stage, s.Reason)
				continue
			}
			fmt.Fprintf(bw, "# %s\n", s.Stage)
			for _, out := range s.Outputs {
				if len(s.Commands) == 0 {
					fmt.Fprintf(bw, "#   place %s\n", filepath.Base(out))
				}
			}
			for _, cmd := range s.Commands {
				line, err := cmd.Quoted()
				if err != nil {
					return fmt.Errorf("%s: stage %s: %w", rep.Package, s.Stage, err)
				}
				fmt.Fprintln(bw, line)
			}
		}
	}
	return bw.Flush()
}
