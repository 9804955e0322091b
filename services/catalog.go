package services

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"robosim-backend/algorithms"
	"robosim-backend/models"
	"robosim-backend/simulation"
)

//go:embed challenges.yaml
var builtinChallenges []byte

var (
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrNoPath            = errors.New("no path")
)

// ChallengeSummary - 목록 조회용 요약
type ChallengeSummary struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Category     string              `json:"category"`
	Difficulty   string              `json:"difficulty"`
	WinCondition models.WinCondition `json:"win_condition"`
}

type catalogFile struct {
	Challenges []models.Challenge `yaml:"challenges"`
}

// Catalog holds the immutable challenge definitions sessions are loaded from.
type Catalog struct {
	mu     sync.RWMutex
	order  []string
	byID   map[string]*models.Challenge
	params simulation.Params
	cell   float64 // planning grid resolution

	generationMu sync.Mutex
}

// NewCatalog creates an empty catalog validated against the given engine tuning.
func NewCatalog(p simulation.Params, cellSize float64) *Catalog {
	if cellSize <= 0 {
		cellSize = 10
	}
	return &Catalog{
		byID:   make(map[string]*models.Challenge),
		params: p,
		cell:   cellSize,
	}
}

// LoadCatalog - 내장 챌린지 + (선택) 외부 YAML 파일
func LoadCatalog(p simulation.Params, cellSize float64, extraPath string) (*Catalog, error) {
	c := NewCatalog(p, cellSize)
	if err := c.loadYAML(builtinChallenges); err != nil {
		return nil, fmt.Errorf("built-in challenges: %w", err)
	}
	if extraPath != "" {
		data, err := os.ReadFile(extraPath)
		if err != nil {
			return nil, fmt.Errorf("reading catalog file: %w", err)
		}
		if err := c.loadYAML(data); err != nil {
			return nil, fmt.Errorf("%s: %w", extraPath, err)
		}
	}
	slog.Info("📚 챌린지 카탈로그 로드", "count", len(c.order), "extra", extraPath)
	return c, nil
}

func (c *Catalog) loadYAML(data []byte) error {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parsing challenges: %w", err)
	}
	for _, ch := range f.Challenges {
		if err := c.Add(ch); err != nil {
			return err
		}
	}
	return nil
}

// Add validates ch and stores it. Ids are unique.
func (c *Catalog) Add(ch models.Challenge) error {
	if err := c.ValidateChallenge(&ch); err != nil {
		return fmt.Errorf("challenge %q: %w", ch.ID, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.byID[ch.ID]; dup {
		return fmt.Errorf("challenge %q: duplicate id", ch.ID)
	}
	c.byID[ch.ID] = &ch
	c.order = append(c.order, ch.ID)
	return nil
}

// Get returns the stored challenge. Callers must not modify it.
func (c *Catalog) Get(id string) (*models.Challenge, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ch, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrChallengeNotFound, id)
	}
	return ch, nil
}

// List - 등록 순서대로 요약 목록
func (c *Catalog) List() []ChallengeSummary {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]ChallengeSummary, 0, len(c.order))
	for _, id := range c.order {
		ch := c.byID[id]
		out = append(out, ChallengeSummary{
			ID:           ch.ID,
			Name:         ch.Name,
			Category:     ch.Category,
			Difficulty:   ch.Difficulty,
			WinCondition: ch.WinCondition,
		})
	}
	return out
}

// ========================================
// 검증
// ========================================

// ValidateChallenge reports every problem with ch at once.
func (c *Catalog) ValidateChallenge(ch *models.Challenge) error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if ch.ID == "" {
		add("missing id")
	}
	for i, o := range ch.Obstacles {
		if o.Width <= 0 || o.Depth <= 0 {
			add("obstacle %d: non-positive size %vx%v", i, o.Width, o.Depth)
		}
	}

	ids := map[string]bool{}
	for _, col := range ch.Collectibles {
		if col.ID == "" || ids[col.ID] {
			add("collectible %q: missing or duplicate id", col.ID)
		}
		ids[col.ID] = true
	}
	for _, p := range ch.Pushables {
		if p.ID == "" || ids[p.ID] {
			add("pushable %q: missing or duplicate id", p.ID)
		}
		ids[p.ID] = true
		if p.Radius <= 0 {
			add("pushable %q: radius must be positive", p.ID)
		}
	}

	arena := simulation.NewArena(ch, c.params)
	if !simulation.TryMove(algorithms.V(ch.Start.X, ch.Start.Z), c.params.RobotRadius, arena) {
		add("start (%v, %v) is blocked", ch.Start.X, ch.Start.Z)
	}

	switch ch.WinCondition {
	case models.WinReachGoal:
		if ch.Goal.Radius <= 0 {
			add("goal radius must be positive")
		}
	case models.WinPushAllOut:
		if ch.Ring == nil || ch.Ring.Radius <= 0 {
			add("push_all_out needs a ring with a positive radius")
		}
		if len(ch.Pushables) == 0 {
			add("push_all_out needs at least one pushable")
		}
	default:
		add("unknown win condition %q", ch.WinCondition)
	}

	if len(errs) == 0 && ch.WinCondition == models.WinReachGoal {
		if _, err := c.PlanPath(ch); err != nil {
			add("goal unreachable: %v", err)
		}
	}
	return errors.Join(errs...)
}

// ========================================
// 경로 힌트 (A*)
// ========================================

// planner - 로봇이 들어갈 수 있는 격자 샘플
type planner struct {
	grid  *algorithms.Grid
	cell  float64
	arena simulation.Arena
}

func (c *Catalog) newPlanner(ch *models.Challenge) *planner {
	arena := simulation.NewArena(ch, c.params)
	w := int(arena.Bounds.Width/c.cell) + 1
	h := int(arena.Bounds.Depth/c.cell) + 1
	pl := &planner{grid: algorithms.NewGrid(w, h), cell: c.cell, arena: arena}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			if !simulation.TryMove(pl.world(algorithms.Cell{X: x, Y: y}), c.params.RobotRadius, arena) {
				pl.grid.AddObstacle(x, y)
			}
		}
	}
	return pl
}

func (pl *planner) world(cell algorithms.Cell) algorithms.Vec2 {
	return algorithms.V(float64(cell.X)*pl.cell, float64(cell.Y)*pl.cell)
}

// nearestFree - 목표와 가장 가까운 통과 가능 셀
func (pl *planner) nearestFree(p algorithms.Vec2) (algorithms.Cell, float64, bool) {
	best, bestDist, found := algorithms.Cell{}, math.Inf(1), false
	for x := 0; x < pl.grid.Width; x++ {
		for y := 0; y < pl.grid.Height; y++ {
			if !pl.grid.IsValid(x, y) {
				continue
			}
			cell := algorithms.Cell{X: x, Y: y}
			if d := algorithms.Distance(pl.world(cell), p); d < bestDist {
				best, bestDist, found = cell, d, true
			}
		}
	}
	return best, bestDist, found
}

// waypoints - the places a solution has to visit, in order
func waypoints(ch *models.Challenge, p simulation.Params) ([]algorithms.Vec2, []float64) {
	var pts []algorithms.Vec2
	var within []float64
	switch ch.WinCondition {
	case models.WinPushAllOut:
		for _, obj := range ch.Pushables {
			pts = append(pts, algorithms.V(obj.X, obj.Z))
			within = append(within, p.RobotRadius+obj.Radius)
		}
	default:
		if ch.RequireAllCollectibles {
			for _, col := range ch.Collectibles {
				pts = append(pts, algorithms.V(col.X, col.Z))
				within = append(within, p.PickupRadius)
			}
		}
		pts = append(pts, algorithms.V(ch.Goal.X, ch.Goal.Z))
		within = append(within, ch.Goal.Radius)
	}
	return pts, within
}

// PlanPath returns a simplified obstacle-free route from the start through
// every required waypoint. It is a hint for the UI, not a program.
func (c *Catalog) PlanPath(ch *models.Challenge) ([]models.Point, error) {
	pl := c.newPlanner(ch)

	from, _, ok := pl.nearestFree(algorithms.V(ch.Start.X, ch.Start.Z))
	if !ok {
		return nil, fmt.Errorf("%w: arena has no free cell", ErrNoPath)
	}

	route := []algorithms.Vec2{algorithms.V(ch.Start.X, ch.Start.Z)}
	targets, within := waypoints(ch, c.params)
	for i, target := range targets {
		to, dist, _ := pl.nearestFree(target)
		if dist >= within[i] {
			return nil, fmt.Errorf("%w: (%v, %v) cannot be approached", ErrNoPath, target.X, target.Y)
		}
		cells := pl.grid.FindPath(from, to)
		if cells == nil {
			return nil, fmt.Errorf("%w: (%v, %v) is cut off", ErrNoPath, target.X, target.Y)
		}
		for _, cell := range cells[1:] {
			route = append(route, pl.world(cell))
		}
		from = to
	}

	simplified := algorithms.SimplifyPath(route, c.cell/2)
	out := make([]models.Point, len(simplified))
	for i, v := range simplified {
		out[i] = models.Point{X: v.X, Z: v.Y}
	}
	return out, nil
}

// ========================================
// 연습 챌린지 생성
// ========================================

const generateAttempts = 50

// Generate builds a random obstacle course between a left start and a right
// goal, registers it and returns it. The layout depends only on seed.
func (c *Catalog) Generate(seed int64) (*models.Challenge, error) {
	c.generationMu.Lock()
	defer c.generationMu.Unlock()

	rng := rand.New(rand.NewSource(seed))
	size := c.params.Arena
	margin := c.params.RobotRadius

	for attempt := 0; attempt < generateAttempts; attempt++ {
		count := 3 + rng.Intn(4)
		ch := models.Challenge{
			ID:           "practice-" + uuid.NewString(),
			Name:         fmt.Sprintf("Práctica %d", seed),
			Category:     "practice",
			Difficulty:   practiceDifficulty(count),
			Obstacles:    generateObstacles(rng, size, count),
			Start:        models.Pose{X: margin + 15, Z: size.Depth / 2},
			Goal:         models.Goal{X: size.Width - margin - 15, Z: size.Depth / 2, Radius: 30},
			WinCondition: models.WinReachGoal,
		}
		if c.ValidateChallenge(&ch) != nil {
			continue
		}
		if err := c.Add(ch); err != nil {
			return nil, err
		}
		slog.Info("🗺️ 연습 챌린지 생성", "id", ch.ID, "seed", seed, "obstacles", count, "attempt", attempt+1)
		return c.Get(ch.ID)
	}
	return nil, fmt.Errorf("generate seed %d: %w after %d attempts", seed, ErrNoPath, generateAttempts)
}

// generateObstacles - 시작/목표 사이 중앙 띠에 직사각형 배치
func generateObstacles(rng *rand.Rand, size models.ArenaSize, count int) []models.Obstacle {
	minX := size.Width * 0.25
	maxX := size.Width * 0.75
	obstacles := make([]models.Obstacle, 0, count)
	for i := 0; i < count; i++ {
		w := 20 + rng.Float64()*20
		d := 60 + rng.Float64()*80
		obstacles = append(obstacles, models.Obstacle{
			X:     math.Round(minX + rng.Float64()*(maxX-minX-w)),
			Z:     math.Round(rng.Float64() * (size.Depth - d)),
			Width: math.Round(w),
			Depth: math.Round(d),
		})
	}
	return obstacles
}

func practiceDifficulty(obstacles int) string {
	switch {
	case obstacles <= 3:
		return "easy"
	case obstacles <= 5:
		return "medium"
	default:
		return "hard"
	}
}
