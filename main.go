package main

import "vconv/cmd"

func main() {
	cmd.Execute()
}
