/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/jfmyers9/replay/cmd"

func main() {
	cmd.Execute()
}
