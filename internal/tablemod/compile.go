package tablemod

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/framboise/internal/random"
	"github.com/roach88/framboise/internal/script"
	"github.com/roach88/framboise/internal/values"
)

// builtins are the '$' references that need no values table entry.
var builtins = map[string]func() random.Producer{
	"number": values.Number,
	"float":  values.Float,
	"unit":   values.Unit,
	"tiny":   values.Tiny,
	"bool":   values.Bool,
	"string": values.QuotedText,
	"color":  func() random.Producer { return values.Quoted(values.Color()) },
	"mime":   func() random.Producer { return values.Quoted(values.MimeType()) },
	"image":  func() random.Producer { return values.Quoted(values.Image()) },
	"video":  func() random.Producer { return values.Quoted(values.Video()) },
}

const objectRef = "object:"

// Compile validates def and builds its module. file is used in errors.
func Compile(def *Definition, file string) (*Module, error) {
	c := &compiler{
		def:      def,
		file:     file,
		m:        &Module{name: def.Name, deps: def.Dependencies, windowEvents: def.WindowEvents},
		values:   make(map[string]random.Producer),
		visiting: make(map[string]bool),
	}
	if err := c.compile(); err != nil {
		return nil, err
	}
	return c.m, nil
}

type compiler struct {
	def      *Definition
	file     string
	m        *Module
	values   map[string]random.Producer
	visiting map[string]bool
}

func (c *compiler) errorf(format string, args ...any) error {
	return &DefinitionError{File: c.file, Message: fmt.Sprintf(format, args...)}
}

func (c *compiler) compile() error {
	if strings.TrimSpace(c.def.Name) == "" {
		return c.errorf("name is required")
	}

	categories := make(map[string]bool)
	for _, o := range c.def.Objects {
		if o.Category == "" {
			return c.errorf("object without category")
		}
		if categories[o.Category] {
			return c.errorf("object %s declared twice", o.Category)
		}
		categories[o.Category] = true
	}

	for _, name := range sortedKeys(c.def.Values) {
		if _, err := c.value(name); err != nil {
			return err
		}
	}

	for _, o := range c.def.Objects {
		obj, err := c.object(o, categories)
		if err != nil {
			return err
		}
		c.m.objects = append(c.m.objects, obj)
	}

	c.m.init = nonEmpty(c.def.Init)
	c.m.finish = nonEmpty(c.def.Finish)
	return nil
}

func (c *compiler) object(o Object, categories map[string]bool) (*object, error) {
	obj := &object{
		category:   o.Category,
		methods:    make(script.Methods, len(o.Methods)),
		attributes: make(script.Attributes, len(o.Attributes)),
		events:     o.Events,
	}
	where := "object " + o.Category

	if len(o.Constructor) > 0 {
		p, err := c.alternatives(o.Constructor, categories, where+" constructor")
		if err != nil {
			return nil, err
		}
		obj.constructor = &p
	}
	for _, name := range sortedKeys(o.Methods) {
		args := o.Methods[name]
		params := make([]random.Producer, len(args))
		for i, alt := range args {
			p, err := c.alternatives(alt, categories, fmt.Sprintf("%s method %s argument %d", where, name, i+1))
			if err != nil {
				return nil, err
			}
			params[i] = p
		}
		obj.methods[name] = params
	}
	for _, name := range sortedKeys(o.Attributes) {
		alt := o.Attributes[name]
		p, err := c.alternatives(alt, categories, fmt.Sprintf("%s attribute %s", where, name))
		if err != nil {
			return nil, err
		}
		obj.attributes[name] = p
	}
	return obj, nil
}

func (c *compiler) alternatives(alts Alternatives, categories map[string]bool, where string) (random.Producer, error) {
	if len(alts) == 0 {
		return random.Producer{}, c.errorf("%s: empty alternatives", where)
	}
	choices := make([]random.Producer, len(alts))
	for i, alt := range alts {
		p, err := c.term(alt, categories, where)
		if err != nil {
			return random.Producer{}, err
		}
		choices[i] = p
	}
	if len(choices) == 1 {
		return choices[0], nil
	}
	return random.OneOf(choices...), nil
}

func (c *compiler) term(alt string, categories map[string]bool, where string) (random.Producer, error) {
	ref, ok := strings.CutPrefix(alt, "$")
	if !ok {
		return random.Literal(alt), nil
	}
	if strings.HasPrefix(ref, "$") {
		return random.Literal(ref), nil
	}
	if category, ok := strings.CutPrefix(ref, objectRef); ok {
		if categories != nil && !categories[category] {
			return random.Producer{}, c.errorf("%s: unknown object category %q", where, category)
		}
		return c.m.handle(category), nil
	}
	if b, ok := builtins[ref]; ok {
		return b(), nil
	}
	if _, ok := c.def.Values[ref]; ok {
		return c.value(ref)
	}
	return random.Producer{}, c.errorf("%s: unknown reference $%s", where, ref)
}

// value compiles a values table entry, detecting reference cycles.
func (c *compiler) value(name string) (random.Producer, error) {
	if p, ok := c.values[name]; ok {
		return p, nil
	}
	if c.visiting[name] {
		return random.Producer{}, c.errorf("value %s refers to itself", name)
	}
	c.visiting[name] = true
	defer delete(c.visiting, name)

	categories := make(map[string]bool, len(c.def.Objects))
	for _, o := range c.def.Objects {
		categories[o.Category] = true
	}
	p, err := c.alternatives(c.def.Values[name], categories, "value "+name)
	if err != nil {
		return random.Producer{}, err
	}
	c.values[name] = p
	return p, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
