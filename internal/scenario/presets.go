package scenario

import "craneguard/internal/config"

func tc(id, name string, x, y, mast, boom, slew, luff, slewSpeed float64) config.Crane {
	return config.Crane{
		ID:                  id,
		Name:                name,
		BaseX:               x,
		BaseY:               y,
		MastHeight:          mast,
		BoomLength:          boom,
		InitialSlewAngle:    slew,
		InitialLuffingAngle: luff,
		SlewSpeed:           slewSpeed,
	}
}

// BuiltIn returns the preset site layouts.
func BuiltIn() map[string]Scenario {
	list := []Scenario{
		{
			ID:          "normal_operation",
			Name:        "Normal operation",
			Description: "Three cranes with well separated working areas slewing slowly.",
			Cranes: []config.Crane{
				tc("TC-1", "Crane 1", 0, 0, 40, 60, 45, 15, 0.3),
				tc("TC-2", "Crane 2", 150, 0, 45, 55, 200, 10, -0.2),
				tc("TC-3", "Crane 3", 75, 130, 42, 50, 270, 12, 0),
			},
		},
		{
			ID:          "approaching",
			Name:        "Approaching booms",
			Description: "Two cranes with overlapping working areas slewing toward each other.",
			Cranes: []config.Crane{
				tc("TC-1", "Crane 1", 0, 0, 40, 60, 30, 10, 0.5),
				tc("TC-2", "Crane 2", 80, 0, 45, 55, 210, 10, -0.5),
			},
		},
		{
			ID:          "head_on_collision",
			Name:        "Head-on collision",
			Description: "Two stationary booms at the same height pointing at each other.",
			Cranes: []config.Crane{
				tc("TC-1", "Crane 1", 0, 0, 40, 60, 90, 5, 0),
				tc("TC-2", "Crane 2", 70, 0, 40, 60, 270, 5, 0),
			},
		},
		{
			ID:          "crossing_paths",
			Name:        "Crossing paths",
			Description: "Two diagonal cranes whose booms sweep across a shared area.",
			Cranes: []config.Crane{
				tc("TC-1", "Crane 1", 0, 0, 40, 55, 0, 10, 0.8),
				tc("TC-2", "Crane 2", 60, 60, 42, 50, 180, 10, -0.8),
			},
		},
		{
			ID:          "multi_crane_congestion",
			Name:        "Multi-crane congestion",
			Description: "Four cranes on a tight grid with every neighbour overlapping.",
			Cranes: []config.Crane{
				tc("TC-1", "Crane 1", 0, 0, 40, 55, 60, 12, 0.4),
				tc("TC-2", "Crane 2", 70, 0, 42, 50, 180, 10, -0.3),
				tc("TC-3", "Crane 3", 70, 60, 38, 52, 240, 15, 0.5),
				tc("TC-4", "Crane 4", 0, 60, 44, 48, 330, 8, -0.4),
			},
		},
	}
	out := make(map[string]Scenario, len(list))
	for _, s := range list {
		out[s.ID] = s
	}
	return out
}
