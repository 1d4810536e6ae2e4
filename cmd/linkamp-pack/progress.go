package main

import (
	"fmt"
	"strings"
	"sync"
)

type Progress struct {
	total   int
	current int
	mu      sync.Mutex
}

func NewProgress(total int) *Progress {
	return &Progress{total: max(1, total)}
}

// Set moves the bar to n frames.
func (p *Progress) Set(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = min(n, p.total)
	p.draw()
}

// Finish fills the bar and ends the line.
func (p *Progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = p.total
	p.draw()
	fmt.Println()
}

func (p *Progress) draw() {
	width := 30
	percent := float64(p.current) / float64(p.total)
	filled := int(float64(width) * percent)

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	fmt.Printf("\r [PACKING] [%s] %d%% (%d/%d frames)", bar, int(percent*100), p.current, p.total)
}
