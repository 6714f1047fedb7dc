package main

import "treasury/cmd"

func main() {
	cmd.Execute()
}
