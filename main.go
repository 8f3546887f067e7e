package main

import "github.com/tayloree/appliance-compare/cmd"

func main() {
	cmd.Execute()
}
