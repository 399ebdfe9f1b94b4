package main

import "github.com/alhockeyfans/report-sync/internal/cli"

func main() {
	cli.Execute()
}
