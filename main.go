/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/azure/vm-dr-cost-estimator/cmd"

func main() {
	cmd.Execute()
}
