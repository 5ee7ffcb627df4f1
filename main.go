/*
Copyright © 2022 Daniils Petrovs <thedanpetrov@gmail.com>

*/
package main

import "github.com/DaniruKun/colortrack/cmd"

func main() {
	cmd.Execute()
}
