package main

import "github.com/kalmanmoshe/fencedit/cmd"

func main() {
	cmd.Execute()
}
