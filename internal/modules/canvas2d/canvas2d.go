// Package canvas2d fuzzes the Canvas 2D rendering context: drawing
// methods, state attributes, image data, gradients and patterns fed from
// canvas, image and video elements.
package canvas2d

import (
	"fmt"
	"strconv"

	"github.com/roach88/framboise/internal/module"
	"github.com/roach88/framboise/internal/random"
	"github.com/roach88/framboise/internal/registry"
	"github.com/roach88/framboise/internal/script"
	"github.com/roach88/framboise/internal/values"
)

// Name is the catalog name.
const Name = "Canvas2D"

// Object categories registered by this module.
const (
	CategoryCanvas   = "CanvasElement"
	CategoryContext  = "Canvas2D"
	CategoryImage    = "ImageElement"
	CategoryVideo    = "VideoElement"
	CategoryPath     = "Path2D"
	CategoryData     = "ImageData"
	CategoryGradient = "CanvasGradient"
	CategoryPattern  = "CanvasPattern"
)

const pathData = "M100,0L200,0L200,100L100,100z"

var (
	compositeOperations = []string{
		"'source-atop'", "'source-in'", "'source-out'", "'source-over'", "'destination-atop'",
		"'destination-in'", "'destination-out'", "'destination-over'", "'lighter'", "'copy'", "'exclusion'",
	}
	windingRules = []string{"'nonzero'", "'evenodd'"}
	repetitions  = []string{"'repeat'", "'repeat-x'", "'repeat-y'", "'no-repeat'"}
)

// Canvas2D is the module.
type Canvas2D struct {
	objects    *registry.Registry
	methods    script.Methods
	attributes script.Attributes
	element    script.Attributes
	gradient   script.Methods
}

// New is the module.Factory for Canvas2D.
func New() (module.Module, error) {
	return &Canvas2D{}, nil
}

// Name implements module.Module.
func (*Canvas2D) Name() string { return Name }

// Events implements module.EventSource.
func (*Canvas2D) Events() map[string][]string {
	return map[string][]string{
		CategoryCanvas: {"click", "contextlost", "contextrestored", "webglcontextlost"},
		CategoryImage:  {"load", "error"},
		CategoryVideo:  {"canplay", "ended", "error", "loadeddata"},
	}
}

// WindowEvents implements module.EventSource.
func (*Canvas2D) WindowEvents() []string {
	return []string{"resize", "focus", "blur"}
}

// Init creates the canvas, its context and an image; a video and a
// Path2D are added by chance.
func (c *Canvas2D) Init(s *module.Scope) ([]string, error) {
	r, o := s.Rand, s.Objects
	var cmds []string

	if !o.Has(CategoryCanvas) {
		canvas := o.Add(CategoryCanvas, "")
		cmds = append(cmds, canvas+" = document.createElement('canvas');", script.AddElementToBody(canvas))
	}
	if !o.Has(CategoryContext) {
		canvas, err := o.Pick(CategoryCanvas)
		if err != nil {
			return nil, err
		}
		params := []string{"'2d'"}
		if r.Chance(4) {
			params = append(params, contextAttributes(r))
		}
		cmds = append(cmds, o.Add(CategoryContext, "")+" = "+canvas+".getContext"+script.MethodHead(params...)+";")
	}
	if !o.Has(CategoryImage) {
		img := o.Add(CategoryImage, "")
		cmds = append(cmds, img+" = document.createElement('img');", img+".src = "+r.Pick(values.Quoted(values.Image()))+";")
	}
	if !o.Has(CategoryVideo) && r.Chance(8) {
		video := o.Add(CategoryVideo, "")
		cmds = append(cmds, video+" = document.createElement('video');", video+".src = "+r.Pick(values.Quoted(values.Video()))+";")
	}
	if !o.Has(CategoryPath) && r.Chance(4) {
		cmds = append(cmds, o.Add(CategoryPath, "")+" = "+newPath()+";")
	}
	return cmds, nil
}

// Step emits one command. Missing prerequisites (image data, a gradient)
// are created first; otherwise a context method is called.
func (c *Canvas2D) Step(s *module.Scope) ([]string, error) {
	c.bind(s.Objects)
	r, o := s.Rand, s.Objects

	ctx, err := o.Pick(CategoryContext)
	if err != nil {
		return nil, err
	}

	var cmd string
	switch {
	case r.Chance(8):
		cmd = script.SetAttribute(r, ctx, c.attributes)
	case r.Chance(4):
		cmd, err = c.drawImage(s, ctx)
	case !o.Has(CategoryData) || r.Chance(32):
		cmd, err = c.imageData(s, ctx)
	case r.Chance(16) && o.Has(CategoryData):
		cmd, err = c.putImageData(s, ctx)
	case !o.Has(CategoryGradient) || r.Chance(32):
		cmd = o.Add(CategoryGradient, "") + " = " + ctx + ".createRadialGradient" + script.MethodHead(numbers(r, 6)...) + ";"
	case !o.Has(CategoryPattern) && r.Chance(32):
		cmd, err = c.pattern(s, ctx)
	case o.Has(CategoryCanvas) && r.Chance(16):
		canvas, _ := o.Pick(CategoryCanvas)
		cmd = script.SetAttribute(r, canvas, c.element)
	case o.Has(CategoryGradient) && r.Chance(16):
		gradient, _ := o.Pick(CategoryGradient)
		cmd = script.MethodCall(r, gradient, c.gradient)
	default:
		cmd = script.MethodCall(r, ctx, c.methods)
	}
	if err != nil {
		return nil, err
	}
	return []string{cmd}, nil
}

// Finish exports the canvas one time in five each as a data URL or a blob.
func (c *Canvas2D) Finish(s *module.Scope) ([]string, error) {
	r := s.Rand
	choice := r.IntRange(0, 4)
	if choice > 1 {
		return nil, nil
	}
	canvas, err := s.Objects.Pick(CategoryCanvas)
	if err != nil {
		return nil, err
	}
	mime := r.Pick(values.Quoted(values.MimeType()))
	if choice == 0 {
		return []string{canvas + ".toDataURL" + script.MethodHead(mime) + ";"}, nil
	}
	return []string{canvas + ".toBlob" + script.MethodHead("function() {}", mime, r.Pick(values.Unit())) + ";"}, nil
}

func (c *Canvas2D) drawImage(s *module.Scope, ctx string) (string, error) {
	r, o := s.Rand, s.Objects
	sources := o.Contains([]string{CategoryCanvas, CategoryImage, CategoryVideo})
	if len(sources) == 0 {
		return "", &registry.LookupError{Category: CategoryImage}
	}
	element, err := o.Pick(sources[r.Number(len(sources))])
	if err != nil {
		return "", err
	}
	arity, _ := random.ChooseValue(r, []random.Weighted[int]{random.W(1, 2), random.W(1, 4), random.W(1, 8)})
	args := append([]string{element}, numbers(r, arity)...)
	return ctx + ".drawImage" + script.MethodHead(args...) + ";", nil
}

func (c *Canvas2D) imageData(s *module.Scope, ctx string) (string, error) {
	r, o := s.Rand, s.Objects
	var call string
	switch choice := r.Number(6); {
	case choice == 0:
		call = ".getImageData" + script.MethodHead(numbers(r, 4)...)
	case choice == 1 && o.Has(CategoryData):
		data, err := o.Pick(CategoryData)
		if err != nil {
			return "", err
		}
		call = ".createImageData" + script.MethodHead(data)
	default:
		call = ".createImageData" + script.MethodHead(numbers(r, 2)...)
	}
	return o.Add(CategoryData, "") + " = " + ctx + call + ";", nil
}

func (c *Canvas2D) putImageData(s *module.Scope, ctx string) (string, error) {
	r := s.Rand
	data, err := s.Objects.Pick(CategoryData)
	if err != nil {
		return "", err
	}
	arity := 2
	if r.Bool() {
		arity = 6
	}
	args := append([]string{data}, numbers(r, arity)...)
	return ctx + ".putImageData" + script.MethodHead(args...) + ";", nil
}

func (c *Canvas2D) pattern(s *module.Scope, ctx string) (string, error) {
	r, o := s.Rand, s.Objects
	canvas, err := o.Pick(CategoryCanvas)
	if err != nil {
		return "", err
	}
	rep := repetitions[r.Number(len(repetitions))]
	return o.Add(CategoryPattern, "") + " = " + ctx + ".createPattern" + script.MethodHead(canvas, rep) + ";", nil
}

// bind builds the method and attribute tables against o.
func (c *Canvas2D) bind(o *registry.Registry) {
	if c.objects == o {
		return
	}
	c.objects = o

	n := values.Number()
	small := random.Generator(func(s *random.Source) random.Producer {
		v, _ := random.ChooseValue(s, []random.Weighted[random.Producer]{random.W(20, values.Tiny()), random.W(1, n)})
		return v
	})
	path := random.Func(func(*random.Source) string {
		if h, err := o.Pick(CategoryPath); err == nil {
			return h
		}
		return newPath()
	})
	winding := random.Strings(windingRules...)
	text := values.QuotedText()
	focusTarget := random.Strings("document.activeElement", "document.body")
	textArgs := random.Func(func(s *random.Source) string {
		args := []string{s.Pick(text), s.Pick(n), s.Pick(n)}
		if s.Bool() {
			args = append(args, s.Pick(n))
		}
		return joinArgs(args)
	})

	c.methods = script.Methods{
		"save":              nil,
		"restore":           nil,
		"scale":             {n, n},
		"rotate":            {n},
		"translate":         {n, n},
		"transform":         {n, n, n, n, n, n},
		"setTransform":      {n, n, n, n, n, n},
		"resetTransform":    nil,
		"clearRect":         {n, n, n, n},
		"fillRect":          {n, n, n, n},
		"strokeRect":        {n, n, n, n},
		"beginPath":         nil,
		"fill":              {path, winding},
		"stroke":            {path},
		"clip":              {path, winding},
		"isPointInPath":     {path, n, n, winding},
		"isPointInStroke":   {path, small, small},
		"fillText":          {textArgs},
		"strokeText":        {textArgs},
		"measureText":       {text},
		"closePath":         nil,
		"moveTo":            {n, n},
		"lineTo":            {n, n},
		"quadraticCurveTo":  {n, n, n, n},
		"bezierCurveTo":     {n, n, n, n, n, n},
		"rect":              {n, n, n, n},
		"arcTo":             {n, n, n, n, n},
		"arc":               {small, small, small, small, small, values.Bool()},
		"ellipse":           {small, small, small, small, small, small, small, values.Bool()},
		"drawFocusIfNeeded": {focusTarget},
		"getLineDash":       nil,
		"setLineDash":       {lineDash()},
		"getImageData":      {n, n, n, n},
	}
	c.attributes = script.Attributes{
		"globalAlpha":              n,
		"globalCompositeOperation": random.Strings(compositeOperations...),
		"strokeStyle":              values.Quoted(values.Color()),
		"fillStyle":                values.Quoted(values.Color()),
		"shadowOffsetX":            n,
		"shadowOffsetY":            n,
		"shadowBlur":               n,
		"shadowColor":              values.Quoted(values.Color()),
		"lineWidth":                random.OneOf(random.Literal("1"), n),
		"lineCap":                  random.Strings("'butt'", "'round'", "'square'"),
		"lineJoin":                 random.Strings("'round'", "'bevel'", "'miter'"),
		"miterLimit":               random.OneOf(random.Literal("10"), n),
		"lineDashOffset":           n,
		"font":                     random.Strings("'10px sans-serif'", "'bold 48px serif'", "'italic 0px monospace'", "'1e9px x'"),
		"textAlign":                random.Strings("'start'", "'end'", "'left'", "'right'", "'center'"),
		"textBaseline":             random.Strings("'top'", "'hanging'", "'middle'", "'alphabetic'", "'ideographic'", "'bottom'"),
		"imageSmoothingEnabled":    values.Bool(),
	}
	c.element = script.Attributes{
		"width":  n,
		"height": n,
	}
	c.gradient = script.Methods{
		"addColorStop": {random.OneOf(random.Literal("0.0"), random.Literal("1.0"), values.Unit()), values.Quoted(values.Color())},
	}
}

func newPath() string {
	return "new Path2D('" + pathData + "')"
}

func numbers(r *random.Source, count int) []string {
	n := values.Number()
	out := make([]string, count)
	for i := range out {
		out[i] = r.Pick(n)
	}
	return out
}

// joinArgs renders pre-resolved arguments without the surrounding
// parentheses so a single producer can stand for a variable-arity list.
func joinArgs(args []string) string {
	head := script.MethodHead(args...)
	return head[1 : len(head)-1]
}

func contextAttributes(r *random.Source) string {
	return fmt.Sprintf("{alpha: %t, willReadFrequently: %t}", r.Bool(), r.Bool())
}

func lineDash() random.Producer {
	return random.Func(func(s *random.Source) string {
		n := s.IntRange(0, 32)
		dash := make([]string, n)
		for i := range dash {
			dash[i] = strconv.Itoa(s.Number(2))
		}
		return "[" + joinArgs(dash) + "]"
	})
}
