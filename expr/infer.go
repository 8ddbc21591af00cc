package expr

import "github.com/pixelspark/warp/value"

// MaxInferComplexity bounds how many Call/Binary nodes Infer will
// combine while searching, keeping the search finite.
const MaxInferComplexity = 3

// Infer enumerates candidate expressions that transform `source` into
// `target`, given the row they were both drawn from, up to
// MaxInferComplexity. Seed candidates come from the Suggest hook of
// each registered Function that sets one; Binary operators contribute
// none, and with no registered Function setting Suggest, Identity is
// the only candidate tried. This is a deterministic search used by the
// "learn by example" UI collaborator; core expression evaluation never
// calls it. The driver here performs a BFS with
// memoization: candidates are generated by level, deduplicated by
// their applied value, and widened one level deeper until
// MaxInferComplexity is reached or a match is found.
func Infer(source, target value.Value, ctx Context) []Expression {
	seen := map[string]bool{}
	frontier := []Expression{Identity{}}
	var matches []Expression

	for level := 0; level < MaxInferComplexity; level++ {
		var next []Expression
		for _, cand := range frontier {
			got := cand.Apply(ctx.WithInput(source))
			key := got.String()
			if seen[key] {
				continue
			}
			seen[key] = true
			if got.IdenticalTo(target) {
				matches = append(matches, cand)
			}
			for _, fn := range Functions {
				if fn.Suggest == nil {
					continue
				}
				next = append(next, fn.Suggest(source, target, ctx, level)...)
			}
		}
		if len(matches) > 0 {
			break
		}
		frontier = next
		if len(frontier) == 0 {
			break
		}
	}
	return matches
}
