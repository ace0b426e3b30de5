package main

import "github.com/zkwordle/treeconv/cli"

func main() {
	cli.Execute()
}
