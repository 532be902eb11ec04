// Stress test comparing all-pairs vs octree broad-phase collision detection
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"time"

	"collision3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func main() {
	depth := flag.Int("depth", physics.DefaultSettings().OctreeDepth, "octree depth for the octree broad phase")
	iterations := flag.Int("iterations", 10, "ticks timed per broad phase")
	flag.Parse()

	// Test various object counts
	testCounts := []int{100, 500, 1000, 2000, 5000}

	for _, count := range testCounts {
		testBroadPhase(count, *depth, *iterations)
	}
}

// newWorld builds a gravity-free world of count spheres. The same seed gives
// the same layout, so both broad phases see identical scenes.
func newWorld(count, depth int, phase physics.BroadPhase) *physics.World {
	s := physics.DefaultSettings()
	s.Gravity = rl.Vector3{}
	s.FloorY = -1e6
	s.BroadPhase = phase
	s.OctreeDepth = depth

	w := physics.NewWorld(s)
	w.SetLogger(nil)

	r := rand.New(rand.NewSource(42)) // Consistent results

	// Spawn in a cube, size scales with count to keep density reasonable
	spawnSize := float32(50.0) + float32(count)/100.0

	for i := 0; i < count; i++ {
		radius := 0.5 + r.Float32()*0.5 // 0.5 to 1.0 radius
		b := w.AddBody(physics.NewDynamicBody(physics.SphereCollider{Radius: radius}, nil))
		b.SetPosition(rl.Vector3{
			X: r.Float32()*spawnSize - spawnSize/2,
			Y: r.Float32()*spawnSize - spawnSize/2,
			Z: r.Float32()*spawnSize - spawnSize/2,
		})
	}
	return w
}

func timeTicks(w *physics.World, iterations int) (time.Duration, physics.TickStats) {
	const dt = 1.0 / 60.0

	// Warm up
	stats := w.Tick(dt, nil)
	first := stats

	start := time.Now()
	for i := 0; i < iterations; i++ {
		stats = w.Tick(dt, nil)
	}
	return time.Since(start) / time.Duration(iterations), first
}

func testBroadPhase(count, depth, iterations int) {
	allTime, allStats := timeTicks(newWorld(count, depth, physics.BroadPhaseAllPairs), iterations)
	octTime, octStats := timeTicks(newWorld(count, depth, physics.BroadPhaseOctree), iterations)

	if allStats.BodyContacts != octStats.BodyContacts {
		fmt.Printf("%5d objects: MISMATCH all-pairs found %d contacts, octree %d\n",
			count, allStats.BodyContacts, octStats.BodyContacts)
	}

	// Calculate speedup
	speedup := float64(allTime) / float64(octTime)

	fmt.Printf("%5d objects: octree %8v (%6d candidates) | all-pairs %10v (%7d candidates) | %4d contacts | %.1fx speedup\n",
		count, octTime.Round(time.Microsecond), octStats.Candidates,
		allTime.Round(time.Microsecond), allStats.Candidates, allStats.BodyContacts, speedup)
}
