// Package sim provides the core discrete-event simulation engine for babylon.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - event.go: Event types that drive the simulation (Tick, Injection)
//   - simulator.go: The event loop, per-tick system updates, event firing
//   - rng.go: Partitioned RNG for bit-for-bit reproducible runs
//
// # Architecture
//
// The sim package holds the loop; the models live in sub-packages:
//   - sim/world/: Shared mutable state (indicators, entity access)
//   - sim/society/: Economic and political submodels
//   - sim/entity/: Entity registry, attribute vectors, similarity search
//   - sim/dialectics/: Contradiction detection, intensity, resolution, graph
//   - sim/events/: Declarative game events (triggers, effects, escalations)
//   - sim/lifecycle/: Tiered working set for registry objects
//   - sim/perf/: Performance collection and analysis
//   - sim/script/: Lua-scripted effects
//   - sim/store/: Badger-backed persistence and backup
//   - sim/scenario/: YAML scenario loading
//   - sim/trace/: Decision trace recording
//
// Detection rules register themselves via init() functions in sim/dialectics
// (see rules.go), so adding a rule is a new file, not a kernel change.
package sim
