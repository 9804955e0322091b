package algorithms

import (
	"container/heap"
	"math"
)

// Cell - grid coordinate
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Grid - occupancy grid searched by FindPath
type Grid struct {
	Width   int
	Height  int
	blocked map[Cell]bool
}

// NewGrid - 빈 그리드 생성
func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:   width,
		Height:  height,
		blocked: make(map[Cell]bool),
	}
}

// AddObstacle marks a cell as not traversable.
func (g *Grid) AddObstacle(x, y int) {
	g.blocked[Cell{X: x, Y: y}] = true
}

// IsObstacle reports whether the cell was marked blocked.
func (g *Grid) IsObstacle(x, y int) bool {
	return g.blocked[Cell{X: x, Y: y}]
}

// IsValid - inside the grid and not blocked
func (g *Grid) IsValid(x, y int) bool {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return false
	}
	return !g.IsObstacle(x, y)
}

type node struct {
	cell   Cell
	g, f   float64
	parent *node
	index  int
}

type priorityQueue []*node

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool { return pq[i].f < pq[j].f }

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x interface{}) {
	n := x.(*node)
	n.index = len(*pq)
	*pq = append(*pq, n)
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

var directions = [8]Cell{
	{0, 1}, {1, 0}, {0, -1}, {-1, 0}, // 상하좌우
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1}, // 대각선
}

func heuristic(a, b Cell) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}

// FindPath - A* over 8-connected cells. Diagonal steps may not cut a
// blocked corner. Returns nil when the goal is unreachable.
func (g *Grid) FindPath(start, goal Cell) []Cell {
	if !g.IsValid(start.X, start.Y) || !g.IsValid(goal.X, goal.Y) {
		return nil
	}
	if start == goal {
		return []Cell{start}
	}

	open := &priorityQueue{}
	heap.Init(open)
	heap.Push(open, &node{cell: start, f: heuristic(start, goal)})

	best := map[Cell]float64{start: 0}
	closed := make(map[Cell]bool)

	for open.Len() > 0 {
		current := heap.Pop(open).(*node)
		if current.cell == goal {
			return reconstructPath(current)
		}
		if closed[current.cell] {
			continue
		}
		closed[current.cell] = true

		for _, d := range directions {
			next := Cell{X: current.cell.X + d.X, Y: current.cell.Y + d.Y}
			if !g.IsValid(next.X, next.Y) || closed[next] {
				continue
			}
			cost := 1.0
			if d.X != 0 && d.Y != 0 {
				if !g.IsValid(current.cell.X+d.X, current.cell.Y) || !g.IsValid(current.cell.X, current.cell.Y+d.Y) {
					continue
				}
				cost = math.Sqrt2
			}
			tentative := current.g + cost
			if prev, ok := best[next]; ok && tentative >= prev {
				continue
			}
			best[next] = tentative
			heap.Push(open, &node{
				cell:   next,
				g:      tentative,
				f:      tentative + heuristic(next, goal),
				parent: current,
			})
		}
	}
	return nil
}

func reconstructPath(n *node) []Cell {
	var path []Cell
	for ; n != nil; n = n.parent {
		path = append(path, n.cell)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// SimplifyPath - Douglas-Peucker 알고리즘으로 경로 간소화
func SimplifyPath(path []Vec2, epsilon float64) []Vec2 {
	if len(path) < 3 {
		return path
	}

	dmax := 0.0
	index := 0
	for i := 1; i < len(path)-1; i++ {
		d := perpendicularDistance(path[i], path[0], path[len(path)-1])
		if d > dmax {
			index = i
			dmax = d
		}
	}

	if dmax > epsilon {
		left := SimplifyPath(path[:index+1], epsilon)
		right := SimplifyPath(path[index:], epsilon)
		out := make([]Vec2, 0, len(left)+len(right)-1)
		out = append(out, left[:len(left)-1]...)
		return append(out, right...)
	}

	return []Vec2{path[0], path[len(path)-1]}
}

// perpendicularDistance - 점에서 선분까지 거리
func perpendicularDistance(p, a, b Vec2) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	if dx == 0 && dy == 0 {
		return Distance(p, a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / (dx*dx + dy*dy)
	t = Clamp(t, 0, 1)
	return Distance(p, V(a.X+t*dx, a.Y+t*dy))
}
