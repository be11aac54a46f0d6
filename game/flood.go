package game

import "github.com/gammazero/deque"

type NeighborGetter func(*Cell) []*Cell
type Visitor func(*Cell) bool

// flood visits start and spreads to neighbours of every cell for which visit reports
// true. Each cell is visited at most once; the work-list keeps the stack flat on
// large boards.
func flood(start *Cell, visit Visitor, getNeighbors NeighborGetter) int {
	visited := make(map[*Cell]struct{})
	var queue deque.Deque

	enqueue := func(cell *Cell) {
		if _, alreadyVisited := visited[cell]; alreadyVisited {
			return
		}
		visited[cell] = struct{}{}
		queue.PushBack(cell)
	}

	enqueue(start)
	for queue.Len() > 0 {
		cell := queue.PopFront().(*Cell)
		if visit(cell) {
			for _, neighbor := range getNeighbors(cell) {
				enqueue(neighbor)
			}
		}
	}

	return len(visited)
}
