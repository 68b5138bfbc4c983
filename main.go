package main

import "github.com/bgraf/trackmap/cmd"

func main() {
	cmd.Execute()
}
