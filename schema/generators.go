package schema

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
)

// IDGenerator produces key values for fields tagged with a generator.
type IDGenerator interface {
	Generate() (any, error)
	Type() string
}

// UUIDGenerator generates UUID v4 strings.
type UUIDGenerator struct{}

func (g UUIDGenerator) Generate() (any, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, errors.Wrap(err, "generating uuid")
	}
	return id.String(), nil
}

func (g UUIDGenerator) Type() string { return "uuid" }

// ULIDGenerator generates monotonic ULID strings.
type ULIDGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (g *ULIDGenerator) Generate() (any, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, err := ulid.New(ulid.Timestamp(time.Now()), g.entropy)
	if err != nil {
		return nil, errors.Wrap(err, "generating ulid")
	}
	return id.String(), nil
}

func (g *ULIDGenerator) Type() string { return "ulid" }

// SnowflakeGenerator generates Twitter Snowflake-like int64 IDs:
// 41 bits of milliseconds since 2023-01-01, 10 bits machine, 12 bits sequence.
type SnowflakeGenerator struct {
	mu        sync.Mutex
	machineID uint64
	sequence  uint64
	lastTime  uint64
	epoch     uint64
}

func NewSnowflakeGenerator(machineID uint64) *SnowflakeGenerator {
	return &SnowflakeGenerator{
		machineID: machineID & 0x3FF,
		epoch:     uint64(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()),
	}
}

func (g *SnowflakeGenerator) Generate() (any, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := uint64(time.Now().UnixMilli())
	if now < g.lastTime {
		return nil, errors.New("clock moved backwards")
	}

	if now == g.lastTime {
		g.sequence = (g.sequence + 1) & 0xFFF
		if g.sequence == 0 {
			for now <= g.lastTime {
				now = uint64(time.Now().UnixMilli())
			}
		}
	} else {
		g.sequence = 0
	}
	g.lastTime = now

	return int64(((now - g.epoch) << 22) | (g.machineID << 12) | g.sequence), nil
}

func (g *SnowflakeGenerator) Type() string { return "snowflake" }

var (
	generatorsMu sync.RWMutex
	generators   = map[string]IDGenerator{
		"uuid":      UUIDGenerator{},
		"ulid":      NewULIDGenerator(),
		"snowflake": NewSnowflakeGenerator(1),
	}
)

// RegisterGenerator makes g available to `generator:<name>` tags.
func RegisterGenerator(name string, g IDGenerator) {
	generatorsMu.Lock()
	defer generatorsMu.Unlock()
	generators[name] = g
}

func LookupGenerator(name string) (IDGenerator, bool) {
	generatorsMu.RLock()
	defer generatorsMu.RUnlock()
	g, ok := generators[name]
	return g, ok
}
