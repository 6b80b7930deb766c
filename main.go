package main

import (
	"github.com/wrenhall/realmlog/cmd"
)

func main() {
	cmd.Execute()
}
