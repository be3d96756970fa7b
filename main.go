package main

import "github.com/frahmantamala/contract-portal/cmd"

func main() {
	cmd.Execute()
}
