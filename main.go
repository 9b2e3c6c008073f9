package main

import "github.com/inovacc/gistvault/cmd"

func main() {
	cmd.Execute()
}
