// Package main is the entry point for the vbmetrics CLI tool, which decodes
// DVW volleyball scouting files and computes team and player statistics.
package main

import "github.com/pable/go-volley-metrics/cmd"

func main() {
	cmd.Execute()
}
