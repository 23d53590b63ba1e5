// SPDX-License-Identifier: MPL-2.0

package main

import cmd "spikeforge/cmd/spikeforge"

func main() {
	cmd.Execute()
}
