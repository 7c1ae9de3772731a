// Package render implements the UI draw pipeline: a render sub-app extracts
// visible nodes from the main world, prepares batched vertex and uniform
// buffers, queues bind groups, sorts the transparent phase, and submits it
// through a render graph.
package render

import (
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"

	"pkg.lodestone.dev/lodestone/app"
	"pkg.lodestone.dev/lodestone/schedule"
	"pkg.lodestone.dev/lodestone/world"
)

// SubAppLabel names the render sub-app on the main app.
const SubAppLabel app.Label = "render"

// Render sub-app stages, in execution order.
const (
	StageExtract   schedule.StageLabel = "extract"
	StagePrepare   schedule.StageLabel = "prepare"
	StageQueue     schedule.StageLabel = "queue"
	StagePhaseSort schedule.StageLabel = "phase_sort"
	StageRender    schedule.StageLabel = "render"
)

// Render graph node and sub-graph names.
const (
	MainPassDriverNode = "main_pass_driver"
	UIPassDriverNode   = "ui_pass_driver"
	UIPassNode         = "ui_pass"
	DrawUIGraphName    = "draw_ui"
	ViewEntityInput    = "view_entity"
)

// Plugin installs the UI render pipeline: component registration and asset
// events on the main world, plus a render sub-app with the five pipeline
// stages and the draw graph.
type Plugin struct {
	// Device backs buffer writes and submissions. Nil selects NopDevice.
	Device Device
}

func (p Plugin) Build(a *app.App) error {
	device := p.Device
	if device == nil {
		device = NopDevice{}
	}

	world.InsertResource(a.World, NewUIComponents())
	if err := world.InitResource[Images](a.World); err != nil {
		return eris.Wrap(err, "failed to init image registry")
	}
	app.AddEvent[AssetEvent](a)

	sub := app.Empty()
	if err := buildRenderWorld(sub, device); err != nil {
		return err
	}

	a.AddSubApp(SubAppLabel, sub, renderRunner)
	log.Debug().Str("sub_app", string(SubAppLabel)).Msg("render pipeline installed")
	return nil
}

func buildRenderWorld(sub *app.App, device Device) error {
	w := sub.World
	world.InsertResource(w, RenderDevice{Device: device})
	world.InsertResource(w, ExtractedNodes{})
	world.InsertResource(w, AssetEvents{})
	world.InsertResource(w, assetEventCursor{})
	world.InsertResource(w, Meta{})
	world.InsertResource(w, Phase{})
	if err := world.InitResource[ImageBindGroups](w); err != nil {
		return eris.Wrap(err, "failed to init bind group cache")
	}
	world.InsertResource(w, *buildGraph())

	sub.AddStage(StageExtract, schedule.NewSystemStage())
	sub.AddStage(StagePrepare, schedule.NewSystemStage())
	sub.AddStage(StageQueue, schedule.NewSystemStage())
	sub.AddStage(StagePhaseSort, schedule.NewSystemStage())
	sub.AddStage(StageRender, schedule.NewSystemStage())

	var (
		extractedID = world.ResourceID[ExtractedNodes](w)
		eventsID    = world.ResourceID[AssetEvents](w)
		cursorID    = world.ResourceID[assetEventCursor](w)
		metaID      = world.ResourceID[Meta](w)
		phaseID     = world.ResourceID[Phase](w)
		groupsID    = world.ResourceID[ImageBindGroups](w)
		deviceID    = world.ResourceID[RenderDevice](w)
		mainID      = world.ResourceID[MainWorld](w)
	)

	sub.AddSystemToStage(StageExtract, schedule.NewSystem(ExtractNodes).
		Reads(mainID).Writes(extractedID))
	sub.AddSystemToStage(StageExtract, schedule.NewSystem(ExtractAssetEvents).
		Reads(mainID).Writes(eventsID, cursorID))
	sub.AddSystemToStage(StagePrepare, schedule.NewSystem(PrepareNodes).
		Reads(deviceID).Writes(metaID, extractedID))
	sub.AddSystemToStage(StageQueue, schedule.NewSystem(QueueNodes).
		Reads(eventsID, deviceID).Writes(metaID, phaseID, groupsID))
	sub.AddSystemToStage(StagePhaseSort, schedule.NewSystem(SortPhase).
		Writes(phaseID))
	sub.AddSystemToStage(StageRender, schedule.NewExclusiveSystem(RunGraph).
		WithName("run_render_graph"))
	return nil
}

// buildGraph assembles the top-level render graph: the main pass drives the
// draw_ui sub-graph, which holds the actual UI pass.
func buildGraph() *Graph {
	graph := NewGraph()
	graph.AddNode(MainPassDriverNode, NopNode{})

	drawUI := NewGraph()
	drawUI.SetInput([]SlotInfo{{Name: ViewEntityInput, Kind: SlotEntity}})
	drawUI.AddNode(UIPassNode, uiPassNode{})
	graph.AddSubGraph(DrawUIGraphName, drawUI)

	graph.AddNode(UIPassDriverNode, subGraphDriver{parent: graph, name: DrawUIGraphName})
	if err := graph.AddNodeEdge(MainPassDriverNode, UIPassDriverNode); err != nil {
		log.Fatal().Err(err).Msg("failed to wire render graph")
	}
	return graph
}

// renderRunner lends the main world to the render sub-app for one update.
// The handle is removed afterwards so nothing can hold it across frames.
func renderRunner(mainWorld *world.World, sub *app.App) error {
	world.InsertResource(sub.World, MainWorld{World: mainWorld})
	defer world.RemoveResource[MainWorld](sub.World)
	return sub.Update()
}
