// Copyright 2023 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package query

import "github.com/rpm-software-management/dnf5-sub002/pool"

// buildRequireGraph resolves, for every member of the query (indexed by
// position in ids), an edge to the unique other member that uniquely
// satisfies one of its Requires (and, if useRecommends, Recommends). A
// dependency resolved by more than one member in the set contributes no
// edge, since removing any single package wouldn't make it unsatisfied.
func (q *Query) buildRequireGraph(ids []pool.Id, useRecommends bool) [][]int {
	idx := make(map[pool.Id]int, len(ids))
	for i, id := range ids {
		idx[id] = i
	}
	graph := make([][]int, len(ids))
	for i, id := range ids {
		s := q.pool.MustSolvable(id)
		seen := make(map[int]bool)
		addEdges := func(deps []pool.Id) {
			for _, rd := range deps {
				var only int = -1
				count := 0
				provides := q.pool.Whatprovides(rd)
				for _, pid := range provides {
					if j, ok := idx[pid]; ok {
						count++
						only = j
					}
				}
				if count == 1 && only != i && !seen[only] {
					seen[only] = true
					graph[i] = append(graph[i], only)
				}
			}
		}
		addEdges(s.Requires)
		if useRecommends {
			addEdges(s.Recommends)
		}
	}
	return graph
}

// tarjanSCC computes the strongly connected components of graph using
// the standard recursive algorithm, returning each component as a slice
// of node indices.
func tarjanSCC(graph [][]int) [][]int {
	n := len(graph)
	index := make([]int, n)
	lowlink := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = -1
	}
	var stack []int
	next := 0
	var sccs [][]int

	var strongconnect func(v int)
	strongconnect = func(v int) {
		index[v] = next
		lowlink[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if index[w] == -1 {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if index[w] < lowlink[v] {
					lowlink[v] = index[w]
				}
			}
		}

		if lowlink[v] == index[v] {
			var scc []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}
	for v := 0; v < n; v++ {
		if index[v] == -1 {
			strongconnect(v)
		}
	}
	return sccs
}

// FilterLeaves restricts the query to packages that nothing else in the
// query depends on: their requires/recommends graph, collapsed to
// strongly connected components, reaches every remaining member, so a
// component with no incoming edge from outside itself is safe to remove
// without breaking anything still present.
func (q *Query) FilterLeaves(useRecommends bool) {
	ids := q.ToSlice()
	graph := q.buildRequireGraph(ids, useRecommends)
	sccs := tarjanSCC(graph)

	compOf := make([]int, len(ids))
	for ci, scc := range sccs {
		for _, v := range scc {
			compOf[v] = ci
		}
	}

	hasExternalIncoming := make([]bool, len(sccs))
	for v, edges := range graph {
		for _, w := range edges {
			if compOf[v] != compOf[w] {
				hasExternalIncoming[compOf[w]] = true
			}
		}
	}

	tmp := q.newTemp()
	for ci, scc := range sccs {
		if hasExternalIncoming[ci] {
			continue
		}
		for _, v := range scc {
			tmp.Add(int(ids[v]))
		}
	}
	q.applyNot(tmp, false)
}
