package particle

import (
	"cmp"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"
)

// Chunk sizes are fixed so that work division, and with it the order of
// random draws, does not depend on the number of CPUs.
const (
	scoreChunk   = 1024
	sortChunk    = 2048
	diffuseChunk = 64
)

func (p *Population) workers() int {
	if p.cfg.Workers > 0 {
		return p.cfg.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// forEachChunk calls fn on consecutive [lo, hi) ranges of [0, n) of at most
// size elements, in parallel, and returns once all calls have finished.
func (p *Population) forEachChunk(n, size int, fn func(chunk, lo, hi int)) {
	var g errgroup.Group
	g.SetLimit(p.workers())
	for c, lo := 0, 0; lo < n; c, lo = c+1, lo+size {
		c, lo, hi := c, lo, min(lo+size, n)
		g.Go(func() error {
			fn(c, lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}

func byLikelihood(a, b Particle) int {
	return cmp.Compare(a.Likelihood, b.Likelihood)
}

// sortByLikelihood stably sorts ps ascending by likelihood: runs of
// sortChunk are sorted in parallel, then merged pairwise in parallel rounds.
// scratch is grown as needed and returned for reuse.
func (p *Population) sortByLikelihood(ps, scratch []Particle) []Particle {
	n := len(ps)
	if n <= sortChunk {
		slices.SortStableFunc(ps, byLikelihood)
		return scratch
	}
	p.forEachChunk(n, sortChunk, func(_, lo, hi int) {
		slices.SortStableFunc(ps[lo:hi], byLikelihood)
	})

	if cap(scratch) < n {
		scratch = make([]Particle, n)
	}
	src, dst := ps, scratch[:n]
	for width := sortChunk; width < n; width *= 2 {
		p.forEachChunk(n, 2*width, func(_, lo, hi int) {
			mid := min(lo+width, hi)
			merge(dst[lo:hi], src[lo:mid], src[mid:hi])
		})
		src, dst = dst, src
	}
	if &src[0] != &ps[0] {
		copy(ps, src)
	}
	return scratch
}

// merge writes the stable merge of sorted a and b into dst.
func merge(dst, a, b []Particle) {
	i, j, k := 0, 0, 0
	for i < len(a) && j < len(b) {
		if byLikelihood(b[j], a[i]) < 0 {
			dst[k] = b[j]
			j++
		} else {
			dst[k] = a[i]
			i++
		}
		k++
	}
	k += copy(dst[k:], a[i:])
	copy(dst[k:], b[j:])
}
