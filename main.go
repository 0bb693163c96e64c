/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/Impulsible/eventease-planner/cmd"

func main() {
	cmd.Execute()
}
