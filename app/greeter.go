package app

import "sync"

// Greeter turns a name into a greeting.
type Greeter interface {
	Greet(name string) string
}

// PlainGreeter is the greeter everyone gets by default.
type PlainGreeter struct {
	Salutation string
}

func (g *PlainGreeter) Greet(name string) string {
	s := g.Salutation
	if s == "" {
		s = "Hello"
	}
	return s + ", " + name
}

// FormalGreeter is handed to the admin area only.
type FormalGreeter struct {
	Salutation string
	Title      string `inject:"title"`
}

func (g *FormalGreeter) Greet(name string) string {
	return g.Salutation + ", " + g.Title + " " + name
}

// VisitCounter counts page views across every controller. It is registered
// as a global singleton.
type VisitCounter struct {
	mu sync.Mutex
	n  int
}

// Inc records a visit and returns the running total.
func (c *VisitCounter) Inc() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return c.n
}

// Count returns the running total.
func (c *VisitCounter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}
