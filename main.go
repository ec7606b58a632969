package main

import "civiclink/cmd"

func main() {
	cmd.Execute()
}
