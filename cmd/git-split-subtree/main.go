// Command git-split-subtree extracts subdirectories into a new repository with
// their history. Installed on PATH it is also available as `git split-subtree`.
package main

import "git_subtree_tool/cmd"

func main() {
	cmd.ExecuteSplit()
}
