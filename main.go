package main

import "usermgmt/cmd"

func main() {
	cmd.Execute()
}
