package main

import "anoa.com/yamdb/cmd/server/commands"

func main() {
	commands.Execute()
}
