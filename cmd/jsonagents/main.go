package main

import "github.com/json-agents/jsonagents-go/cmd/jsonagents/cmd"

func main() {
	cmd.Execute()
}
