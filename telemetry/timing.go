package telemetry

import (
	"io"
	"sync"
	"time"

	"github.com/robinvdvleuten/sie/output"
)

// TimingCollector records timers as a tree. Timers started on the collector
// while another is open become its children.
type TimingCollector struct {
	mu      sync.Mutex
	roots   []*timerNode
	current *timerNode
}

type timerNode struct {
	name     string
	start    time.Time
	end      time.Time
	counts   []count
	children []*timerNode
	parent   *timerNode
}

type count struct {
	unit string
	n    int
}

// NewTimingCollector creates an empty collector.
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{}
}

// Start begins a timer under the innermost open collector timer.
func (c *TimingCollector) Start(name string) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	node := &timerNode{name: name, start: time.Now(), parent: c.current}
	if c.current == nil {
		c.roots = append(c.roots, node)
	} else {
		c.current.children = append(c.current.children, node)
	}
	c.current = node

	return &timingTimer{collector: c, node: node, tracked: true}
}

// Report writes every recorded tree to w.
func (c *TimingCollector) Report(w io.Writer, styles *output.Styles) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, root := range c.roots {
		formatTimingTree(w, root, styles)
	}
}

type timingTimer struct {
	collector *TimingCollector
	node      *timerNode
	// tracked timers move the collector cursor; Child timers do not.
	tracked bool
}

func (t *timingTimer) End() {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	if !t.node.end.IsZero() {
		return
	}
	t.node.end = time.Now()
	if t.tracked && t.collector.current == t.node {
		t.collector.current = t.node.parent
	}
}

func (t *timingTimer) Child(name string) Timer {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	node := &timerNode{name: name, start: time.Now(), parent: t.node}
	t.node.children = append(t.node.children, node)

	return &timingTimer{collector: t.collector, node: node}
}

func (t *timingTimer) Count(n int, unit string) {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	for i := range t.node.counts {
		if t.node.counts[i].unit == unit {
			t.node.counts[i].n += n
			return
		}
	}
	t.node.counts = append(t.node.counts, count{unit: unit, n: n})
}
