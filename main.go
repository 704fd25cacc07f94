package main

import "aniport/cmd"

func main() {
	cmd.Execute()
}
