package main

import (
	"fmt"
	"math/rand"
	"slices"
	"strconv"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/delaneyj/fiberparty/fiber"
	"github.com/delaneyj/fiberparty/memhost"
)

// result is what one keyed list transition cost the host.
type result struct {
	added, removed int
	counters       memhost.Counters
	ops            int
}

// minimal reports whether the host created and removed exactly the items in
// the symmetric difference of the two key sets.
func (r result) minimal() bool {
	// every created item is an li plus its text node
	return r.counters.Created == 2*r.added && r.counters.Removed == r.removed
}

func list(keys []string) *fiber.Element {
	items := make([]any, len(keys))
	for i, k := range keys {
		items[i] = fiber.H("li", fiber.Props{"id": k}, k).WithKey(k)
	}
	return fiber.H("ul", fiber.Props{fiber.ChildrenProp: items})
}

// transition mounts prev, renders next over it and checks the host order and
// that the result hashes like a fresh mount of next.
func transition(prev, next []string) (result, error) {
	doc := memhost.NewDocument()
	rt := fiber.Attach(doc, doc.Root)
	if err := rt.RenderRoot(list(prev)); err != nil {
		return result{}, err
	}
	doc.Reset()
	if err := rt.RenderRoot(list(next)); err != nil {
		return result{}, err
	}

	got := make([]string, 0, len(next))
	for _, li := range doc.Root.Children[0].Children {
		got = append(got, li.Props["id"].(string))
	}
	if !slices.Equal(got, next) {
		return result{}, fmt.Errorf("host order %v, want %v", got, next)
	}
	want, err := fingerprint(next)
	if err != nil {
		return result{}, err
	}
	if fp := doc.Fingerprint(); fp != want {
		return result{}, fmt.Errorf("updated tree %x differs from a fresh mount %x", fp, want)
	}

	oldKeys := mapset.NewThreadUnsafeSet(prev...)
	newKeys := mapset.NewThreadUnsafeSet(next...)
	return result{
		added:    newKeys.Difference(oldKeys).Cardinality(),
		removed:  oldKeys.Difference(newKeys).Cardinality(),
		counters: doc.Counters,
		ops:      len(doc.Ops),
	}, nil
}

// fingerprint mounts keys into an empty document and hashes the result.
func fingerprint(keys []string) (uint64, error) {
	doc := memhost.NewDocument()
	if err := fiber.Attach(doc, doc.Root).RenderRoot(list(keys)); err != nil {
		return 0, err
	}
	return doc.Fingerprint(), nil
}

// randomKeys picks n distinct keys out of a pool of 2n, in random order.
func randomKeys(rng *rand.Rand, n int) []string {
	perm := rng.Perm(2 * n)[:n]
	keys := make([]string, n)
	for i, p := range perm {
		keys[i] = strconv.Itoa(p)
	}
	return keys
}
