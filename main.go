// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/jobrun/jobrun/cmd/jobrun"

func main() {
	cmd.Execute()
}
