package main

import "github.com/mvp-joe/dendrite/internal/cli"

func main() {
	cli.Execute()
}
