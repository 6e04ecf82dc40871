// wlframe opens a window on a Wayland compositor and paints a square
// wherever the pointer is pressed or dragged.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		red := color.New(color.FgRed, color.Bold)
		red.Fprint(os.Stderr, "Error: ")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
