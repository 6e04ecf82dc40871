package main

import (
	"fmt"
	"os"
	"slices"
	"text/tabwriter"

	wl "deedles.dev/wlframe/client"
	"deedles.dev/wlframe/protocol"
	"github.com/spf13/cobra"
)

var globalsCmd = &cobra.Command{
	Use:   "globals",
	Short: "List the compositor's globals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		display, err := wl.Connect(wl.Config{ListOnly: true})
		if err != nil {
			return err
		}
		defer display.Close()

		err = display.Roundtrip()
		if err != nil {
			return fmt.Errorf("list globals: %w", err)
		}

		printGlobals(display.Registry().Globals())
		return nil
	},
}

func printGlobals(globals map[uint32]wl.Global) {
	names := make([]uint32, 0, len(globals))
	for name := range globals {
		names = append(names, name)
	}
	slices.Sort(names)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tINTERFACE\tVERSION\tBOUND")
	for _, name := range names {
		g := globals[name]
		bound := "-"
		if v := min(g.Version, protocol.Version(g.Interface)); v > 0 {
			bound = fmt.Sprint(v)
		}
		fmt.Fprintf(tw, "%v\t%v\t%v\t%v\n", g.Name, g.Interface, g.Version, bound)
	}
	tw.Flush()
}
