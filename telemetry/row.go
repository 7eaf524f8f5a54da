// Package telemetry is the per-tick CSV sink: one row per particle, a
// separator line after every tick, and file rotation once the running
// line count crosses a threshold (spec §6.2). Grounded on the teacher's
// telemetry/output.go OutputManager (gocsv.Marshal/MarshalWithoutHeaders
// header-tracking, os.Create-per-file shape), rewritten for this
// domain's single fixed row schema in place of the teacher's
// WindowStats/PerfStats/Bookmark trio.
package telemetry

import "github.com/pthm-cable/colonysim/components"

// Row is one particle's record for one tick, matching spec §6.2's exact
// CSV header: agent_id, tick_num, agent_type, pos_X, pos_Y, diameter,
// length, orientation_X, orientation_Y.
type Row struct {
	AgentID     uint64  `csv:"agent_id"`
	TickNum     int     `csv:"tick_num"`
	AgentType   string  `csv:"agent_type"`
	PosX        float32 `csv:"pos_X"`
	PosY        float32 `csv:"pos_Y"`
	Diameter    float32 `csv:"diameter"`
	Length      float32 `csv:"length"`
	OrientX     float32 `csv:"orientation_X"`
	OrientY     float32 `csv:"orientation_Y"`
}

// agentType returns the CSV agent_type string for a particle variant
// (spec §6.2: "cell" or "eps").
func agentType(v components.Variant) string {
	if v == components.VariantEPS {
		return "eps"
	}
	return "cell"
}
