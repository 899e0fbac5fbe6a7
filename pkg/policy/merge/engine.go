package merge

import (
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hyperpolymath/union-policy-parser/pkg/policy/ast"
	policyErrors "github.com/hyperpolymath/union-policy-parser/pkg/policy/errors"
)

// Options configures a merge engine.
type Options struct {
	// DefaultStrategy is the global default applied when neither a
	// field-level annotation nor a document default selects a strategy.
	// StrategyUnset selects StrategyOverride.
	DefaultStrategy ast.MergeStrategy

	// IntersectionFallback degrades intersection disagreements to
	// priority-based merging instead of failing the field.
	IntersectionFallback bool

	// Parallel merges independent top-level subtrees concurrently. Output
	// and conflict ordering are unaffected: results are assembled in sorted
	// key order and contributions at a single path are never reordered.
	Parallel bool
}

// Engine folds ordered document sets into effective policies.
type Engine struct {
	opts     Options
	resolver *ConflictResolver
}

// New creates a merge engine.
func New(opts Options) *Engine {
	if !opts.DefaultStrategy.IsSet() {
		opts.DefaultStrategy = ast.StrategyOverride
	}
	return &Engine{
		opts:     opts,
		resolver: NewConflictResolver(opts.IntersectionFallback),
	}
}

// MergeChain folds a resolution chain (root-most ancestor first) into the
// effective policy for the chain's target.
func (e *Engine) MergeChain(chain ast.ResolutionChain) (*EffectivePolicy, []ConflictRecord, error) {
	target := ""
	if t := chain.Target(); t != nil {
		target = t.SourceID
	}
	return e.mergeOrdered(target, chain)
}

// MergeSiblings folds a sibling document set at equal scope. Documents are
// ordered by their caller-supplied declaration index, never by input slice
// position alone.
func (e *Engine) MergeSiblings(docs []*ast.PolicyDocument) (*EffectivePolicy, []ConflictRecord, error) {
	ordered := make([]*ast.PolicyDocument, len(docs))
	copy(ordered, docs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Order < ordered[j].Order
	})

	names := make([]string, len(ordered))
	for i, doc := range ordered {
		names[i] = doc.SourceID
	}
	return e.mergeOrdered(strings.Join(names, "+"), ordered)
}

// input is one document's node at the current tree level, carrying the
// strategy annotation inherited from its own ancestors.
type input struct {
	doc      *ast.PolicyDocument
	node     *ast.PolicyNode
	strategy ast.MergeStrategy
}

// accumulator threads conflict records and per-field errors through one
// subtree's traversal. Per-field failures never stop the walk; the full
// conflict list is always gathered for diagnosis.
type accumulator struct {
	conflicts []ConflictRecord
	errs      policyErrors.ErrorList
}

func (a *accumulator) record(rec ConflictRecord) {
	a.conflicts = append(a.conflicts, rec)
}

func (e *Engine) mergeOrdered(target string, docs []*ast.PolicyDocument) (*EffectivePolicy, []ConflictRecord, error) {
	inputs := make([]input, 0, len(docs))
	for _, doc := range docs {
		if doc.Root == nil {
			continue
		}
		inputs = append(inputs, input{doc: doc, node: doc.Root, strategy: ast.StrategyUnset})
	}

	root := &ast.PolicyNode{Children: map[string]*ast.PolicyNode{}}
	acc := &accumulator{}

	keys := unionChildKeys(inputs)
	if e.opts.Parallel && len(keys) > 1 {
		e.mergeChildrenParallel(root, keys, inputs, len(inputs), acc)
	} else {
		e.mergeChildren(root, "", keys, inputs, len(inputs), acc)
	}

	if err := acc.errs.ToError(); err != nil {
		return nil, acc.conflicts, err
	}
	return newEffectivePolicy(target, root), acc.conflicts, nil
}

// mergeChildren merges each child key in sorted order into parent. total is
// the size of the whole merge set, carried down so per-field rules can tell
// partial presence from full presence.
func (e *Engine) mergeChildren(parent *ast.PolicyNode, path string, keys []string, inputs []input, total int, acc *accumulator) {
	for _, key := range keys {
		childInputs := childInputsFor(key, inputs)
		node := e.mergeNode(ast.JoinPath(path, key), key, childInputs, total, acc)
		if node != nil {
			parent.Children[key] = node
		}
	}
}

// mergeChildrenParallel merges top-level subtrees concurrently. Each key
// gets its own accumulator slot; slots are folded back in sorted key order
// so the conflict list and output tree are byte-identical to a sequential
// merge.
func (e *Engine) mergeChildrenParallel(parent *ast.PolicyNode, keys []string, inputs []input, total int, acc *accumulator) {
	nodes := make([]*ast.PolicyNode, len(keys))
	accs := make([]*accumulator, len(keys))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			accs[i] = &accumulator{}
			nodes[i] = e.mergeNode(key, key, childInputsFor(key, inputs), total, accs[i])
			return nil
		})
	}
	// Goroutines report through their slot, never through an error.
	_ = g.Wait()

	for i, key := range keys {
		if nodes[i] != nil {
			parent.Children[key] = nodes[i]
		}
		acc.conflicts = append(acc.conflicts, accs[i].conflicts...)
		acc.errs.Errors = append(acc.errs.Errors, accs[i].errs.Errors...)
	}
}

// mergeNode merges all contributions at one path into a single node. Mixed
// leaf and mapping contributions abort the field with a type mismatch.
func (e *Engine) mergeNode(path, key string, inputs []input, total int, acc *accumulator) *ast.PolicyNode {
	leaves := 0
	mappings := 0
	for _, in := range inputs {
		if in.node.IsLeaf() {
			leaves++
		} else {
			mappings++
		}
	}

	if leaves > 0 && mappings > 0 {
		contribs := contributionsOf(inputs)
		acc.record(ConflictRecord{
			Path:         path,
			Strategy:     e.effectiveStrategy(inputs),
			Contributors: contribs,
			Reason:       ReasonTypeMismatch,
		})
		acc.errs.Add(&policyErrors.TypeMismatchError{
			Path:    path,
			Details: "cannot merge scalar and mapping contributions for the same field",
		})
		return nil
	}

	if mappings > 0 {
		node := &ast.PolicyNode{
			Key:      key,
			SourceID: inputs[len(inputs)-1].node.SourceID,
			Priority: inputs[len(inputs)-1].node.Priority,
			Children: map[string]*ast.PolicyNode{},
		}
		keys := unionChildKeys(inputs)
		e.mergeChildren(node, path, keys, inputs, total, acc)
		// A mapping whose every child was excluded is itself excluded.
		if len(node.Children) == 0 && len(keys) > 0 {
			return nil
		}
		return node
	}

	return e.mergeLeaf(path, key, inputs, total, acc)
}

// mergeLeaf selects the effective strategy once and applies its combine
// rule to the leaf contributions.
func (e *Engine) mergeLeaf(path, key string, inputs []input, total int, acc *accumulator) *ast.PolicyNode {
	contribs := contributionsOf(inputs)
	strategy := e.effectiveStrategy(inputs)

	var (
		value  interface{}
		winner string
	)

	switch strategy {
	case ast.StrategyOverride:
		v, w, worthRecording := combineOverride(contribs)
		value, winner = v, w
		if worthRecording {
			acc.record(ConflictRecord{
				Path:         path,
				Strategy:     strategy,
				Contributors: contribs,
				Winner:       winner,
				Reason:       ReasonOverride,
			})
		}

	case ast.StrategyUnion:
		combined, err := combineUnion(path, contribs)
		if err != nil {
			acc.record(ConflictRecord{
				Path:         path,
				Strategy:     strategy,
				Contributors: contribs,
				Reason:       ReasonTypeMismatch,
			})
			acc.errs.Add(err)
			return nil
		}
		value = []interface{}(combined)
		winner = unionSourceID(contribs)
		if len(contribs) > 1 {
			acc.record(ConflictRecord{
				Path:         path,
				Strategy:     strategy,
				Contributors: contribs,
				Reason:       ReasonUnionCombined,
			})
		}

	case ast.StrategyIntersection:
		// Intersection keeps a value only when every document in the merge
		// set provides it. A field missing from any document is excluded.
		if len(inputs) < total {
			acc.record(ConflictRecord{
				Path:         path,
				Strategy:     strategy,
				Contributors: contribs,
				Reason:       ReasonIntersectionAbsent,
			})
			return nil
		}
		v, equal := combineIntersection(contribs)
		if equal {
			value, winner = v, contribs[0].SourceID
			break
		}
		v, record, err := e.resolver.ResolveIntersectionMismatch(path, contribs)
		acc.record(record)
		if err != nil {
			acc.errs.Add(err)
			return nil
		}
		value, winner = v, record.Winner

	case ast.StrategyPriority:
		if len(contribs) == 1 {
			value, winner = contribs[0].Value, contribs[0].SourceID
			break
		}
		v, record, err := e.resolver.ResolvePriority(path, contribs)
		acc.record(record)
		if err != nil {
			acc.errs.Add(err)
			return nil
		}
		value, winner = v, record.Winner
	}

	return &ast.PolicyNode{
		Key:      key,
		Value:    value,
		SourceID: winner,
		Priority: winnerPriority(contribs, winner),
	}
}

// effectiveStrategy selects the strategy for a field: the last field-level
// annotation in declaration order, then the last contributor's document
// default, then the engine's global default.
func (e *Engine) effectiveStrategy(inputs []input) ast.MergeStrategy {
	for i := len(inputs) - 1; i >= 0; i-- {
		if inputs[i].strategy.IsSet() {
			return inputs[i].strategy
		}
	}
	if last := inputs[len(inputs)-1].doc.DefaultStrategy; last.IsSet() {
		return last
	}
	return e.opts.DefaultStrategy
}

// childInputsFor narrows the input set to the documents contributing the
// given child key, threading annotations downward.
func childInputsFor(key string, inputs []input) []input {
	var children []input
	for _, in := range inputs {
		if in.node.Children == nil {
			continue
		}
		child, ok := in.node.Children[key]
		if !ok {
			continue
		}
		strategy := in.strategy
		if child.Strategy.IsSet() {
			strategy = child.Strategy
		}
		children = append(children, input{doc: in.doc, node: child, strategy: strategy})
	}
	return children
}

// unionChildKeys returns the sorted union of child keys across all inputs.
func unionChildKeys(inputs []input) []string {
	seen := map[string]bool{}
	for _, in := range inputs {
		for key := range in.node.Children {
			seen[key] = true
		}
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func contributionsOf(inputs []input) []Contribution {
	contribs := make([]Contribution, len(inputs))
	for i, in := range inputs {
		contribs[i] = Contribution{
			SourceID: in.node.SourceID,
			Order:    in.doc.Order,
			Priority: in.node.Priority,
			Value:    in.node.Value,
		}
	}
	return contribs
}

// unionSourceID attributes a combined union leaf to all of its contributing
// documents.
func unionSourceID(contribs []Contribution) string {
	if len(contribs) == 1 {
		return contribs[0].SourceID
	}
	return strings.Join(contributionSources(contribs), "+")
}

func winnerPriority(contribs []Contribution, winner string) int {
	for _, c := range contribs {
		if c.SourceID == winner {
			return c.Priority
		}
	}
	return 0
}
