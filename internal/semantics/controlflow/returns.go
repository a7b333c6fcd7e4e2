package controlflow

import "sort"

// AllPathsReturn reports whether every path from the entry reaches the exit
// through a return.
func AllPathsReturn(cfg *ControlFlowGraph) bool {
	visited := make(map[*BasicBlock]bool)
	return !canReachExitWithoutReturn(cfg.Entry, cfg.Exit, visited)
}

func canReachExitWithoutReturn(current, exit *BasicBlock, visited map[*BasicBlock]bool) bool {
	if current == nil || visited[current] {
		return false
	}
	visited[current] = true

	if current == exit {
		return true
	}
	if current.Returns {
		return false
	}
	for _, succ := range current.Successors {
		if canReachExitWithoutReturn(succ, exit, visited) {
			return true
		}
	}
	return false
}

// MissingReturnBranches returns the branch blocks (if, else, loop bodies)
// through which control can fall off the end, ordered by block ID. It is
// empty when the only such path is the straight-line body itself.
func MissingReturnBranches(cfg *ControlFlowGraph) []*BasicBlock {
	leaking := make(map[*BasicBlock]bool)
	visited := make(map[*BasicBlock]bool)

	var walk func(*BasicBlock)
	walk = func(block *BasicBlock) {
		if block == nil || visited[block] || block == cfg.Exit {
			return
		}
		visited[block] = true
		for _, succ := range block.Successors {
			if succ == cfg.Exit && !block.Returns {
				leaking[block] = true
			}
		}
		for _, succ := range block.Successors {
			walk(succ)
		}
	}
	walk(cfg.Entry)

	seen := make(map[*BasicBlock]bool)
	var missing []*BasicBlock
	for block := range leaking {
		for _, branch := range branchesOf(block) {
			if !seen[branch] {
				seen[branch] = true
				missing = append(missing, branch)
			}
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i].ID < missing[j].ID })
	return missing
}

// branchesOf walks predecessors back to the nearest blocks that start a branch
func branchesOf(block *BasicBlock) []*BasicBlock {
	var branches []*BasicBlock
	visited := make(map[*BasicBlock]bool)
	queue := []*BasicBlock{block}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur] {
			continue
		}
		visited[cur] = true

		if cur.BranchKind != "" {
			branches = append(branches, cur)
			continue
		}
		queue = append(queue, cur.Predecessors...)
	}
	return branches
}
