package hull

// queuedRidge is an open boundary awaiting an opposite pivot. excludeKey
// names the vertex that was deleted from the originating facet to produce
// this ridge; scanning it again would just rebuild the same facet with the
// opposite orientation, so the selector skips it.
type queuedRidge struct {
	verts      Ridge
	excludeKey string
}

// ridgeQueue is a FIFO work list of open ridges. Order matters: breadth
// first processing keeps the hull front compact and makes pivot choices
// reproducible for a given dataset order.
type ridgeQueue struct {
	items []queuedRidge
}

func (q *ridgeQueue) push(r queuedRidge) {
	q.items = append(q.items, r)
}

func (q *ridgeQueue) pop() (queuedRidge, bool) {
	if len(q.items) == 0 {
		return queuedRidge{}, false
	}
	r := q.items[0]
	q.items = q.items[1:]
	return r, true
}

func (q *ridgeQueue) empty() bool {
	return len(q.items) == 0
}

// enqueueFacet queues the d ridges of a facet, each obtained by deleting
// one vertex while preserving the order of the rest.
func enqueueFacet(face Facet, q *ridgeQueue) {
	for i := range face {
		ridge := make(Ridge, 0, len(face)-1)
		for j, v := range face {
			if j != i {
				ridge = append(ridge, v)
			}
		}
		q.push(queuedRidge{verts: ridge, excludeKey: face[i].Key()})
	}
}
