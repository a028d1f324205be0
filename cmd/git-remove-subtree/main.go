// Command git-remove-subtree removes subdirectories from the whole history of a
// repository. Installed on PATH it is also available as `git remove-subtree`.
package main

import "git_subtree_tool/cmd"

func main() {
	cmd.ExecuteRemove()
}
