package sim

import (
	"hash/fnv"
	"math/rand"
)

// SimulationKey is the master seed of a run. The same key, instance and
// EngineConfig reproduce the same schedules, exploration choices included.
type SimulationKey int64

// NewSimulationKey wraps a --seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// Named random streams. Each consumer draws from its own stream so that, for
// example, turning exploration on does not change the generated instance.
const (
	// SubsystemInstance seeds random instance generation with the master seed
	// itself, so `generate --seed n` and `run --seed n` see the same instance.
	SubsystemInstance = "instance"
	// SubsystemExploration drives epsilon-greedy candidate draws.
	SubsystemExploration = "exploration"
	// SubsystemPolicy initialises policy parameters (approx weights).
	SubsystemPolicy = "policy"
)

// PartitionedRNG hands out one *rand.Rand per named stream, derived from a
// single SimulationKey. Not safe for concurrent use.
type PartitionedRNG struct {
	key     SimulationKey
	streams map[string]*rand.Rand
}

// NewPartitionedRNG returns an empty stream set for key.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{key: key, streams: make(map[string]*rand.Rand)}
}

// ForSubsystem returns the stream for name, creating it on first use. Later
// calls return the same generator, so draws continue rather than restart.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	r, ok := p.streams[name]
	if !ok {
		r = rand.New(rand.NewSource(p.streamSeed(name)))
		p.streams[name] = r
	}
	return r
}

// Key returns the master seed.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// streamSeed is the master seed for the instance stream and
// master XOR FNV-1a(name) for every other stream.
func (p *PartitionedRNG) streamSeed(name string) int64 {
	if name == SubsystemInstance {
		return int64(p.key)
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return int64(p.key) ^ int64(h.Sum64())
}
