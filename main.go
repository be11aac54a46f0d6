package main

import "github.com/they4kman/sweepengine/cmd"

func main() {
	cmd.Execute()
}
