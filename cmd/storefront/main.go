package main

import "github.com/Skotchmaster/bookstore/cmd/storefront/commands"

func main() {
	commands.Execute()
}
