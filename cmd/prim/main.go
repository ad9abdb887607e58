// Command prim manages primitive libraries from the command line.
package main

import "github.com/papapumpkin/prim/cmd"

func main() {
	cmd.Execute()
}
