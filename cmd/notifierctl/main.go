// Command notifierctl runs a notifier from the command line: a demo host for
// both delivery modes and a smoke test for the chat source.
package main

import "github.com/e7canasta/notifier-bridge/cmd/notifierctl/cmd"

const version = "v0.2.0"

func main() {
	cmd.Execute(version)
}
