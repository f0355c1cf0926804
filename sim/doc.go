// Package sim provides the discrete-event flow-shop simulation engine.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - job.go, unit.go, resource.go: the entities and their reset protocol
//   - schedule.go: timing records, objectives and the scalar reward
//   - simulator.go: the per-tick state transition (completions → flow → dispatch)
//
// # Architecture
//
// Jobs live in one arena (Simulator.Jobs) and are referenced everywhere else by
// JobID. The first unit of every resource draws from one shared pending pool;
// later units receive jobs FIFO from the unit before them. Only first-unit
// dispatch is a decision point, delegated to a Policy.
//
// Implementations of the extension points live in sub-packages:
//   - sim/policy/: tabular, rule-based and linear function-approximation policies
//   - sim/training/: the epoch loop that evaluates and updates policies
//   - sim/baseline/: exhaustive permutation comparator
//   - sim/trace/: dispatch decision records
//
// # Key Interfaces
//
//   - Policy: choose an action for a DispatchContext
//   - ValuePredictor: value of a feature vector (function approximation)
//   - ParameterUpdater: apply an error signal to recorded predictions
package sim
