package main

import "fburl/cmd"

func main() {
	cmd.Execute()
}
