// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/drvkit/drvkit/cmd/drvkit"

func main() {
	cmd.Execute()
}
