package world

import (
	"strconv"

	"sandworld/internal/core"
)

// ParameterSnapshot exposes the active configuration for display.
func (w *World) ParameterSnapshot() core.ParameterSnapshot {
	groups := []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("chunk_size", "Chunk size", w.cfg.ChunkSize),
				intParam("pool_size", "Pool size", w.cfg.PoolSize),
				intParam("tps", "Ticks per second", w.cfg.TPS),
				floatParam("gravity", "Gravity", float64(w.cfg.Gravity)),
				floatParam("kill_plane_y", "Kill plane Y", float64(w.cfg.KillPlaneY)),
				intParam("despawn_count", "Despawn pixel count", w.cfg.DespawnCount),
			},
		},
		{
			Name: "Step",
			Params: []core.Parameter{
				intParam("movement_steps", "Movement steps", w.cfg.Sim.MovementSteps),
				intParam("dispersion_steps", "Dispersion steps", w.cfg.Sim.DispersionSteps),
				intParam("bitmap_ratio", "Bitmap ratio", w.cfg.Sim.BitmapRatio),
				intParam("seed", "Seed", int(w.cfg.Sim.Seed)),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

func intParam(key, label string, v int) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInt, Value: strconv.Itoa(v)}
}

func floatParam(key, label string, v float64) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeFloat, Value: strconv.FormatFloat(v, 'g', -1, 64)}
}
