package main

import "github.com/oshokin/countdown/cmd/countdown-server/cmd"

func main() {
	cmd.Execute()
}
