// Package selection fuzzes the Selection API: an input element with
// selected text, the document selection and its ranges.
package selection

import (
	"fmt"

	"github.com/roach88/framboise/internal/module"
	"github.com/roach88/framboise/internal/random"
	"github.com/roach88/framboise/internal/registry"
	"github.com/roach88/framboise/internal/script"
	"github.com/roach88/framboise/internal/values"
)

// Name is the catalog name.
const Name = "Selection"

// Object categories registered by this module.
const (
	CategoryInput     = "HTMLInputElement"
	CategorySelection = "Selection"
	CategoryRange     = "Range"
)

// Selection is the module. Method tables are bound to the registry of the
// run on first use.
type Selection struct {
	objects    *registry.Registry
	methods    script.Methods
	attributes script.Attributes
}

// New is the module.Factory for Selection.
func New() (module.Module, error) {
	return &Selection{}, nil
}

// Name implements module.Module.
func (*Selection) Name() string { return Name }

// Init creates a text input, selects its content and registers the
// document selection and its first range.
func (m *Selection) Init(s *module.Scope) ([]string, error) {
	o := s.Objects
	input := o.Add(CategoryInput, "")
	sel := o.Add(CategorySelection, "")
	rng := o.Add(CategoryRange, "")

	return []string{
		input + ` = document.createElement("input");`,
		script.Call(input, "setAttribute", script.Quote("value"), s.Rand.Pick(values.QuotedText())),
		script.AddElementToBody(input),
		`document.querySelector("input").select();`,
		sel + " = document.getSelection();",
		rng + " = " + sel + ".getRangeAt(0);",
	}, nil
}

// Step calls a selection method and, one time in nine each, also sets an
// attribute or registers another range.
func (m *Selection) Step(s *module.Scope) ([]string, error) {
	m.bind(s.Objects)
	sel, err := s.Objects.Pick(CategorySelection)
	if err != nil {
		return nil, err
	}

	choice := s.Rand.IntRange(0, 8)
	cmds := []string{script.MethodCall(s.Rand, sel, m.methods)}
	switch choice {
	case 0:
		cmds = append(cmds, script.SetAttribute(s.Rand, sel, m.attributes))
	case 4:
		rng := s.Objects.Add(CategoryRange, "")
		cmds = append(cmds, fmt.Sprintf("%s = %s.getRangeAt(%s);", rng, sel, s.Rand.Pick(rangeNumber())))
	}
	return cmds, nil
}

// Finish emits nothing.
func (*Selection) Finish(*module.Scope) ([]string, error) {
	return nil, nil
}

func (m *Selection) bind(o *registry.Registry) {
	if m.objects == o {
		return
	}
	m.objects = o

	node := handleMember(o, CategorySelection, "anchorNode", "focusNode")
	offset := random.OneOf(handleMember(o, CategorySelection, "anchorOffset", "focusOffset"), values.Number())
	rangeHandle := handle(o, CategoryRange)

	m.methods = script.Methods{
		"collapse":           {node, offset},
		"collapseToStart":    nil,
		"collapseToEnd":      nil,
		"extend":             {node, offset},
		"selectAllChildren":  {node},
		"deleteFromDocument": nil,
		"getRangeAt":         {rangeNumber()},
		"addRange":           {rangeHandle},
		"removeRange":        {rangeHandle},
		"removeAllRanges":    nil,
		"containsNode":       {node, values.Bool()},
		"modify": {
			quotedChoice("move", "extend"),
			quotedChoice("forward", "backward"),
			quotedChoice("character", "word", "sentence", "line", "paragraph",
				"lineboundary", "sentenceboundary", "paragraphboundary", "documentboundary"),
		},
	}
	m.attributes = script.Attributes{
		"caretBidiLevel": values.Number(),
	}
}

func rangeNumber() random.Producer {
	return random.OneOf(random.Literal("0"), values.Number())
}

func quotedChoice(options ...string) random.Producer {
	return values.Quoted(random.Strings(options...))
}

// handle draws a live handle of category, or "null" when there is none.
func handle(o *registry.Registry, category string) random.Producer {
	return random.Func(func(*random.Source) string {
		name, err := o.Pick(category)
		if err != nil {
			return "null"
		}
		return name
	})
}

// handleMember renders "<handle>.<member>" for a drawn member.
func handleMember(o *registry.Registry, category string, members ...string) random.Producer {
	h := handle(o, category)
	m := random.Strings(members...)
	return random.Func(func(s *random.Source) string {
		return s.Pick(h) + "." + s.Pick(m)
	})
}
