package binspec

import "fmt"

// plan is the compiled representation of a Schema's chain: its Nodes
// flattened into a slice so the decode/encode planners can scan bit runs
// and index forward/backward without walking the linked list each time.
// Alias/catalog type references are deliberately NOT inlined here:
// they're resolved lazily against the registry each time a `type` is
// reached during traversal, which is what makes mutually recursive
// aliases terminate without unbounded expansion at plan time.
type plan struct {
	nodes []*Node
}

// compile flattens s's chain into a plan, caching the result until the
// chain is mutated again (push() invalidates the cache).
func (s *Schema) compile() *plan {
	if s.compiled != nil {
		return s.compiled
	}
	var nodes []*Node
	for n := s.head; n != nil; n = n.next {
		nodes = append(nodes, n)
	}
	p := &plan{nodes: nodes}
	s.compiled = p
	return p
}

// resolveIntOption evaluates a late-bound integer option (`length`,
// `lengthInBytes`, `offset`, `tag`): a literal int, a field name resolved
// by dotted lookup in rec, or an IntField predicate.
func resolveIntOption(v any, rec Record) (int64, error) {
	switch t := v.(type) {
	case int:
		return int64(t), nil
	case int64:
		return t, nil
	case string:
		val, ok := lookupField(rec, t)
		if !ok {
			return 0, fmt.Errorf("binspec: field %q not found for late-bound option", t)
		}
		n, ok := asInt64(val)
		if !ok {
			return 0, fmt.Errorf("binspec: field %q is not numeric (got %T)", t, val)
		}
		return n, nil
	case IntField:
		return t(rec), nil
	default:
		return 0, fmt.Errorf("binspec: unsupported late-bound option value %T", v)
	}
}

// resolvedType is what a `type` option (or a choice's value, or an
// array's element type) settles to once resolved: either a primitive
// catalog Kind, or a nested *Schema (inline or looked up by alias name).
type resolvedType struct {
	kind   Kind // KindInvalid if this is a schema reference
	schema *Schema
}

func (rt resolvedType) isPrimitive() bool { return rt.schema == nil }

// resolveType resolves a `type` value into a resolvedType, looking up
// alias names in the process-wide registry. Returns UnknownAlias if a
// string names neither a catalog kind nor a registered alias.
func resolveType(typ any) (resolvedType, error) {
	switch t := typ.(type) {
	case *Schema:
		return resolvedType{schema: t}, nil
	case string:
		if k, ok := resolveKindName(t); ok {
			return resolvedType{kind: k}, nil
		}
		if alias, ok := resolveAlias(t); ok {
			return resolvedType{schema: alias}, nil
		}
		return resolvedType{}, &UnknownAlias{Alias: t}
	default:
		return resolvedType{}, fmt.Errorf("binspec: invalid type reference %v (%T)", typ, typ)
	}
}
