package main

import "github.com/ge0mant1s/soacframe-community/cmd"

func main() {
	cmd.Execute()
}
