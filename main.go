package main

import "github.com/JA3G3R/clippyzard/cmd"

func main() {
	cmd.Execute()
}
