// Command foilcut plans how swimming pool liner is cut from stock rolls.
package main

import "github.com/piwi3910/FoilCut/cmd/foilcut/commands"

func main() {
	commands.Execute()
}
