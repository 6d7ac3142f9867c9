package main

import "github.com/sarchlab/nocsim/nocsim/cmd"

func main() {
	cmd.Execute()
}
