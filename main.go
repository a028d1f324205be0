package main

import "git_subtree_tool/cmd"

func main() {
	cmd.Initialize()
	cmd.Execute()
}
