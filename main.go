package main

import "github.com/egresosapp/egresos-api/cmd"

func main() {
	cmd.Execute()
}
