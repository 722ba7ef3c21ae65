package main

import "github.com/AngelCh415/acos-forecaster/internal/cli"

func main() {
	cli.Execute()
}
