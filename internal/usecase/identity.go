package usecase

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/satriowb/syncpad/internal/domain"
)

// IdentityGenerator hands out placeholder names and palette colors for new
// connections. Colors advance round-robin over a single global index and
// wrap; names are random placeholders the user can replace at any time.
type IdentityGenerator struct {
	mu         sync.Mutex
	palette    []string
	colorIndex int
}

// NewIdentityGenerator creates a generator over the default palette.
func NewIdentityGenerator() *IdentityGenerator {
	return &IdentityGenerator{
		palette: domain.Palette,
	}
}

// Next returns a placeholder name and the next palette color.
func (g *IdentityGenerator) Next() (name, color string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	name = fmt.Sprintf("User %d", rand.Intn(1000))
	color = g.palette[g.colorIndex%len(g.palette)]
	g.colorIndex++
	return name, color
}

// AvatarURL derives a stable avatar image URL from the connection id.
func AvatarURL(seed string) string {
	return "https://api.dicebear.com/7.x/avataaars/svg?seed=" + seed
}

// ColorIndex returns the current global color index.
func (g *IdentityGenerator) ColorIndex() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.colorIndex
}
