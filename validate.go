package binspec

// validateNode enforces the build-time option combinations allowed per
// kind, panicking with *BuildError (via buildErrorf) on violation.
// 64-bit integer kinds need no validation here: Go's int64/uint64 are
// native machine words, so large-integer support falls out for free.
func validateNode(kind Kind, name string, o Options) {
	switch kind {
	case KindBit:
		if o.BitWidth < 1 || o.BitWidth > 32 {
			buildErrorf(kind, name, "bit width must be 1..32, got %d", o.BitWidth)
		}
	case KindString:
		validateString(name, o)
	case KindBuffer:
		validateBuffer(name, o)
	case KindArray:
		validateArray(name, o)
	case KindChoice:
		validateChoice(name, o)
	case KindNest:
		validateNest(name, o)
	case KindPointer:
		validatePointer(name, o)
	case KindSeek:
		// Seek takes its length as an int, so there is nothing to check.
	}
}

func validateString(name string, o Options) {
	hasLength := o.Length != nil
	hasZT := o.ZeroTerminated
	hasGreedy := o.Greedy

	count := 0
	if hasLength {
		count++
	}
	if hasZT && !hasLength {
		count++
	}
	if hasGreedy {
		count++
	}

	switch {
	case hasLength && hasZT:
		// the one allowed pair
	case count == 1:
		// exactly one of {length, zeroTerminated, greedy}
	default:
		buildErrorf(KindString, name,
			"requires exactly one of {length, zeroTerminated, greedy}, or the pair {length, zeroTerminated}")
	}

	if hasLength && hasGreedy {
		buildErrorf(KindString, name, "length and greedy are mutually exclusive")
	}
	if hasZT && hasGreedy {
		buildErrorf(KindString, name, "zeroTerminated and greedy are mutually exclusive")
	}
	if o.StripNull && !hasLength && !hasGreedy {
		buildErrorf(KindString, name, "stripNull requires length or greedy")
	}
}

func validateBuffer(name string, o Options) {
	hasLength := o.Length != nil
	hasReadUntil := o.ReadUntil != nil
	if hasLength == hasReadUntil {
		buildErrorf(KindBuffer, name, "requires exactly one of {length, readUntil}")
	}
}

func validateArray(name string, o Options) {
	modes := 0
	if o.Length != nil {
		modes++
	}
	if o.LengthInBytes != nil {
		modes++
	}
	if o.ReadUntil != nil {
		modes++
	}
	if modes != 1 {
		buildErrorf(KindArray, name, "requires exactly one of {length, lengthInBytes, readUntil}")
	}
	if o.Type == nil {
		buildErrorf(KindArray, name, "requires a type")
	}
	validateTypeRef(KindArray, name, o.Type)
}

func validateChoice(name string, o Options) {
	if o.Tag == nil {
		buildErrorf(KindChoice, name, "requires tag")
	}
	if len(o.Choices) == 0 {
		buildErrorf(KindChoice, name, "requires at least one entry in choices")
	}
	for _, v := range o.Choices {
		validateTypeRef(KindChoice, name, v)
	}
	if o.DefaultChoice != nil {
		validateTypeRef(KindChoice, name, o.DefaultChoice)
	}
}

func validateNest(name string, o Options) {
	if o.Type == nil {
		buildErrorf(KindNest, name, "requires type")
	}
	switch o.Type.(type) {
	case *Schema, string:
	default:
		buildErrorf(KindNest, name, "type must be a *Schema or an alias name")
	}
}

func validatePointer(name string, o Options) {
	if o.Offset == nil {
		buildErrorf(KindPointer, name, "requires offset")
	}
	if o.Type == nil {
		buildErrorf(KindPointer, name, "requires type")
	}
	validateTypeRef(KindPointer, name, o.Type)
}

// validateTypeRef checks the shape of a `type` value: a *Schema, or a
// string. A string type is NOT required to already resolve to a catalog
// kind or registered alias here, since forward/recursive alias
// references mean the alias may not be registered yet. Resolution, and
// UnknownAlias, happen at plan time (decode.go/encode.go).
func validateTypeRef(kind Kind, name string, typ any) {
	switch typ.(type) {
	case *Schema, string:
	default:
		buildErrorf(kind, name, "type must be a catalog/alias name (string) or a *Schema")
	}
}
