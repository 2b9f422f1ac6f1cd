package main

import "github.com/nchapman/prefetch/cmd"

func main() {
	cmd.Execute()
}
