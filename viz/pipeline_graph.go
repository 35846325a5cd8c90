// ABOUTME: GraphViz rendering of the sales pipeline
// ABOUTME: Draws stage nodes in board order with their deals hanging off each stage
package viz

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/harperreed/crmboard/models"
	"github.com/harperreed/crmboard/pipeline"
)

var stageFill = map[string]string{
	"primary":   "lightblue",
	"secondary": "lavender",
	"success":   "palegreen",
	"warning":   "khaki",
	"info":      "lightcyan",
	"error":     "mistyrose",
}

// PipelineGraph returns the DOT source of the pipeline graph.
func PipelineGraph(ctx context.Context, board []pipeline.Column, contactNames map[int64]string) (string, error) {
	var buf bytes.Buffer
	if err := RenderPipeline(ctx, board, contactNames, graphviz.XDOT, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderPipeline draws the board in the given graphviz format (dot, svg, png).
func RenderPipeline(ctx context.Context, board []pipeline.Column, contactNames map[int64]string, format graphviz.Format, w io.Writer) error {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("failed to create graphviz: %w", err)
	}
	defer func() { _ = gv.Close() }()

	graph, err := gv.Graph()
	if err != nil {
		return fmt.Errorf("failed to create graph: %w", err)
	}
	defer func() { _ = graph.Close() }()

	graph.SetLabel("Sales Pipeline")
	graph.SetRankDir(cgraph.LRRank)

	stageNodes := make(map[models.Stage]*cgraph.Node, len(board))
	for i, col := range board {
		node, err := graph.CreateNodeByName(fmt.Sprintf("stage_%d", i))
		if err != nil {
			return fmt.Errorf("failed to create stage node: %w", err)
		}
		node.SetLabel(fmt.Sprintf("%s\n%d deals\n%s", col.Stage, col.Count, FormatMoney(col.TotalValue)))
		node.SetShape("box")
		node.SetStyle("filled")
		node.SetFillColor(fillFor(col.Stage))
		stageNodes[col.Stage] = node
	}

	// Open stages flow left to right, and negotiation forks into the two
	// closed outcomes.
	flow := [][2]models.Stage{
		{models.StageProspecting, models.StageQualification},
		{models.StageQualification, models.StageProposal},
		{models.StageProposal, models.StageNegotiation},
		{models.StageNegotiation, models.StageClosedWon},
		{models.StageNegotiation, models.StageClosedLost},
	}
	for _, step := range flow {
		from, ok1 := stageNodes[step[0]]
		to, ok2 := stageNodes[step[1]]
		if !ok1 || !ok2 {
			continue
		}
		edge, err := graph.CreateEdgeByName(fmt.Sprintf("%s_%s", step[0], step[1]), from, to)
		if err != nil {
			return fmt.Errorf("failed to create stage edge: %w", err)
		}
		edge.SetStyle("bold")
	}

	for _, col := range board {
		stageNode := stageNodes[col.Stage]
		for _, deal := range col.Deals {
			node, err := graph.CreateNodeByName(fmt.Sprintf("deal_%d", deal.ID))
			if err != nil {
				return fmt.Errorf("failed to create deal node: %w", err)
			}
			label := fmt.Sprintf("%s\n%s", deal.Title, FormatMoney(deal.Value))
			if name, ok := contactNames[deal.ContactID]; ok {
				label += "\n" + name
			}
			node.SetLabel(label)
			node.SetShape("note")

			edge, err := graph.CreateEdgeByName(fmt.Sprintf("in_%d", deal.ID), stageNode, node)
			if err != nil {
				return fmt.Errorf("failed to create deal edge: %w", err)
			}
			edge.SetStyle("dotted")
			edge.SetDir("none")
		}
	}

	if err := gv.Render(ctx, graph, format, w); err != nil {
		return fmt.Errorf("failed to render graph: %w", err)
	}
	return nil
}

func fillFor(stage models.Stage) string {
	if c, ok := stageFill[StageVariant(stage)]; ok {
		return c
	}
	return "white"
}
