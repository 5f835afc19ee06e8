package main

import "slot-aggregator/cmd"

func main() {
	cmd.Execute()
}
