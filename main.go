package main

import "github.com/deploymenttheory/go-vcctl/cmd"

func main() {
	cmd.Execute()
}
