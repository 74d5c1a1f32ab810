package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Depth         int
	ParallelDepth int
	Workers       int
	Duration      time.Duration
	Nodes         int // Decision nodes expanded above the leaves
	Leaves        int // States scored by the evaluation function
	IllegalMoves  int // Moves pruned because they left the board unchanged
	Dispatched    int // Move evaluations handed to a pool worker
	Inline        int // Move evaluations run on the caller because the pool was full
}

type MoveMetric struct {
	Step  int
	Move  string
	Value float64
	SearchMetric
}

type GameMetric struct {
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalMoves int
	FinalScore float64
	MaxTile    int
}

type Collector interface {
	Start(depth, parallelDepth, workers int)
	AddNode()
	AddLeaf()
	AddIllegalMove()
	AddDispatched()
	AddInline()
	Complete() SearchMetric
}

type collector struct {
	depth         int
	parallelDepth int
	workers       int
	startTime     time.Time
	nodes         atomic.Int64
	leaves        atomic.Int64
	illegalMoves  atomic.Int64
	dispatched    atomic.Int64
	inline        atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(depth, parallelDepth, workers int) {
	m.startTime = time.Now()
	m.depth = depth
	m.parallelDepth = parallelDepth
	m.workers = workers
	m.nodes.Store(0)
	m.leaves.Store(0)
	m.illegalMoves.Store(0)
	m.dispatched.Store(0)
	m.inline.Store(0)
}

func (m *collector) AddNode() {
	m.nodes.Add(1)
}

func (m *collector) AddLeaf() {
	m.leaves.Add(1)
}

func (m *collector) AddIllegalMove() {
	m.illegalMoves.Add(1)
}

func (m *collector) AddDispatched() {
	m.dispatched.Add(1)
}

func (m *collector) AddInline() {
	m.inline.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Depth:         m.depth,
		ParallelDepth: m.parallelDepth,
		Workers:       m.workers,
		Duration:      time.Since(m.startTime),
		Nodes:         int(m.nodes.Load()),
		Leaves:        int(m.leaves.Load()),
		IllegalMoves:  int(m.illegalMoves.Load()),
		Dispatched:    int(m.dispatched.Load()),
		Inline:        int(m.inline.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(depth, parallelDepth, workers int) {}
func (m *dummyCollector) AddNode()                                {}
func (m *dummyCollector) AddLeaf()                                {}
func (m *dummyCollector) AddIllegalMove()                         {}
func (m *dummyCollector) AddDispatched()                          {}
func (m *dummyCollector) AddInline()                              {}
func (m *dummyCollector) Complete() SearchMetric                  { return SearchMetric{} }
