package lights

import (
	"fmt"
	"strings"

	"github.com/FallenShard/crisp-go/pkg/core"
)

// sampleDiskOrigin starts a ray travelling along direction from a disk of the world radius
// placed behind the scene, so parallel rays cover the whole bounding sphere
func sampleDiskOrigin(worldCenter core.Vec3, worldRadius float64, direction core.Vec3, u core.Vec2) core.Ray {
	frame := core.NewFrame(direction)
	disk := core.SquareToUniformDisk(u)
	diskPoint := worldCenter.
		Add(frame.Tangent.Multiply(disk.X * worldRadius)).
		Add(frame.Bitangent.Multiply(disk.Y * worldRadius))
	return core.NewRay(diskPoint.Subtract(direction.Multiply(worldRadius)), direction)
}

// PowerSampler selects lights with probability proportional to the luminance of their power
type PowerSampler struct {
	lights []Light
	table  *core.AliasTable
}

// NewPowerSampler builds the selection table. Lights must be preprocessed first so
// infinite emitters report their power.
func NewPowerSampler(lights []Light) *PowerSampler {
	weights := make([]float64, len(lights))
	for i, light := range lights {
		weights[i] = light.Power().Luminance()
	}
	return &PowerSampler{lights: lights, table: core.NewAliasTable(weights)}
}

// Sample selects a light, returning it with its index and selection probability.
// It returns nil and -1 when there are no lights.
func (ps *PowerSampler) Sample(bucketU, u float64) (Light, int, float64) {
	index := ps.table.Sample(bucketU, u)
	if index < 0 {
		return nil, -1, 0
	}
	return ps.lights[index], index, ps.table.Probability(index)
}

// Probability returns the selection probability of the light at index
func (ps *PowerSampler) Probability(index int) float64 {
	if index < 0 || index >= len(ps.lights) {
		return 0
	}
	return ps.table.Probability(index)
}

// Len returns the number of lights
func (ps *PowerSampler) Len() int {
	return len(ps.lights)
}

// String returns a string representation for debugging
func (ps *PowerSampler) String() string {
	if len(ps.lights) == 0 {
		return "PowerSampler{no lights}"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "PowerSampler{%d lights:\n", len(ps.lights))
	for i, light := range ps.lights {
		fmt.Fprintf(&sb, "  [%d] %T: %.1f%%\n", i, light, ps.table.Probability(i)*100)
	}
	sb.WriteString("}")
	return sb.String()
}
