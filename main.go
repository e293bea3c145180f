package main

import "github.com/ValentinKolb/satchel/cmd"

func main() {
	cmd.Execute()
}
