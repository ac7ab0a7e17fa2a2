// Command cellgraph-trace builds the diamond-dependency scenario, then
// performs one source write with a tracer attached, printing the exact
// order propagate and the dirty check visited each cell.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/Mox93/cellgraph"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:   "cellgraph-trace",
		Usage:  "Trace propagate/dirty-check visit order for one write",
		Action: trace,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

type visit struct {
	seq   int
	phase string
	label string
}

func trace(ctx context.Context, cmd *cli.Command) error {
	var visits []visit
	seq := 0

	g := cellgraph.NewGraph(cellgraph.WithTracer(func(phase, label string) {
		seq++
		visits = append(visits, visit{seq: seq, phase: phase, label: label})
	}))

	s := cellgraph.NewSource(g, 1, "s")
	a := cellgraph.NewDerived(g, func(g *cellgraph.Graph) int { return s.Get() + 1 }, "a")
	b := cellgraph.NewDerived(g, func(g *cellgraph.Graph) int { return s.Get() + 2 }, "b")
	c := cellgraph.NewDerived(g, func(g *cellgraph.Graph) int { return a.Get() + b.Get() }, "c")
	cellgraph.NewEffect(g, func(g *cellgraph.Graph) { _ = c.Get() }, "e")

	s.Set(10)

	tw := tablewriter.NewWriter(os.Stdout)
	tw.SetHeader([]string{"#", "phase", "cell"})
	for _, v := range visits {
		tw.Append([]string{fmt.Sprintf("%d", v.seq), v.phase, v.label})
	}
	tw.Render()
	return nil
}
