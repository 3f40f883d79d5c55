package random

import "strconv"

// Kind tags the variant held by a Producer.
type Kind uint8

const (
	// KindLiteral is a terminal value.
	KindLiteral Kind = iota
	// KindGenerator is a function invoked on every resolution.
	KindGenerator
	// KindOneOf is a uniform choice between nested producers.
	KindOneOf
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindGenerator:
		return "generator"
	case KindOneOf:
		return "one-of"
	default:
		return "unknown"
	}
}

// Producer is a nestable source of code fragments: a literal, a generator
// returning another Producer, or a list of alternatives.
//
// The zero Producer is the empty literal.
type Producer struct {
	kind    Kind
	value   string
	gen     func(*Source) Producer
	choices []Producer
}

// Literal wraps a terminal value.
func Literal(value string) Producer {
	return Producer{kind: KindLiteral, value: value}
}

// Int is a Literal holding the decimal form of v.
func Int(v int) Producer {
	return Literal(strconv.Itoa(v))
}

// Generator wraps a function that is invoked each time the producer is
// resolved, with the Source doing the resolving. The returned Producer is
// resolved in turn.
func Generator(fn func(*Source) Producer) Producer {
	return Producer{kind: KindGenerator, gen: fn}
}

// Func adapts a string function into a Generator.
func Func(fn func(*Source) string) Producer {
	return Generator(func(s *Source) Producer { return Literal(fn(s)) })
}

// OneOf is a uniform choice between alternatives.
func OneOf(choices ...Producer) Producer {
	return Producer{kind: KindOneOf, choices: choices}
}

// Strings is OneOf over literal values.
func Strings(values ...string) Producer {
	choices := make([]Producer, len(values))
	for i, v := range values {
		choices[i] = Literal(v)
	}
	return OneOf(choices...)
}

// Kind reports the variant of p.
func (p Producer) Kind() Kind {
	return p.kind
}

// Pick fully resolves p to a terminal value.
//
// Generators are invoked and their result resolved again; OneOf draws a
// uniform index and resolves the selected element. Nested lists therefore
// flatten one resolution step at a time. A nil generator or an empty OneOf
// resolves to "".
func (s *Source) Pick(p Producer) string {
	for {
		switch p.kind {
		case KindGenerator:
			if p.gen == nil {
				return ""
			}
			p = p.gen(s)
		case KindOneOf:
			if len(p.choices) == 0 {
				return ""
			}
			p = p.choices[s.Number(len(p.choices))]
		default:
			return p.value
		}
	}
}
