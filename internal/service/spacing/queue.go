package spacing

import (
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/domain"
)

type queuedCandidate struct {
	candidate domain.ScheduleCandidate
	seq       int
	index     int
}

// candidateQueue pops the highest-confidence candidate first. Equal confidence
// falls back to input order so resolution is deterministic.
type candidateQueue struct {
	items []*queuedCandidate
}

func newCandidateQueue(candidates []domain.ScheduleCandidate) *candidateQueue {
	q := &candidateQueue{
		items: make([]*queuedCandidate, 0, len(candidates)),
	}
	for i, c := range candidates {
		q.items = append(q.items, &queuedCandidate{candidate: c, seq: i, index: i})
	}
	return q
}

func (q *candidateQueue) Len() int {
	return len(q.items)
}

func (q *candidateQueue) Less(i, j int) bool {
	a, b := q.items[i], q.items[j]

	if a.candidate.Confidence != b.candidate.Confidence {
		return a.candidate.Confidence > b.candidate.Confidence
	}

	return a.seq < b.seq
}

func (q *candidateQueue) Swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
	q.items[i].index = i
	q.items[j].index = j
}

func (q *candidateQueue) Push(x any) {
	item := x.(*queuedCandidate)
	item.index = len(q.items)
	q.items = append(q.items, item)
}

func (q *candidateQueue) Pop() any {
	old := q.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	q.items = old[0 : n-1]
	return item
}
