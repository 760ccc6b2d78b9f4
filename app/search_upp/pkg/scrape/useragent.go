package scrape

import (
	"math/rand"
	"sync"
	"time"
)

var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_4_1) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4.1 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:124.0) Gecko/20100101 Firefox/124.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36 Edg/124.0.2478.80",
}

var (
	viewportWidths  = []int{1366, 1440, 1536, 1600, 1920}
	viewportHeights = []int{768, 900, 864, 1024, 1080}
)

// UserAgents 随机 User-Agent / 窗口尺寸生成器，并发安全
type UserAgents struct {
	mu     sync.Mutex
	rnd    *rand.Rand
	agents []string
}

// NewUserAgents agents 为空时使用内置列表
func NewUserAgents(agents []string, seed int64) *UserAgents {
	if len(agents) == 0 {
		agents = defaultUserAgents
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &UserAgents{rnd: rand.New(rand.NewSource(seed)), agents: agents}
}

// Random 随机返回一个 User-Agent
func (u *UserAgents) Random() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.agents[u.rnd.Intn(len(u.agents))]
}

// Viewport 随机返回一个常见的窗口尺寸
func (u *UserAgents) Viewport() (int, int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return viewportWidths[u.rnd.Intn(len(viewportWidths))], viewportHeights[u.rnd.Intn(len(viewportHeights))]
}
