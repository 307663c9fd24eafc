// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/resc/resc/cmd/resc"

func main() {
	cmd.Execute()
}
