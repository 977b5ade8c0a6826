package main

import "github.com/oshokin/countdown/cmd/countdown-ctl/cmd"

func main() {
	cmd.Execute()
}
