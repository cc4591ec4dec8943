package main

import "github.com/jwren/berth/cmd/berth/commands"

func main() {
	commands.Execute()
}
