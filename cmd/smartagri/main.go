package main

import "github.com/LeonardoBeccarini/smartagri/cmd/smartagri/commands"

func main() {
	commands.Execute()
}
