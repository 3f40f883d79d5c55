// Package tablemod loads declarative modules: method, attribute and event
// tables written in YAML or CUE instead of Go.
//
// A definition lives at modules/<Name>/fuzzer.yaml (or fuzzer.yml, or
// fuzzer.cue):
//
//	name: Clipboard
//	dependencies: [Selection]
//	window_events: [copy, paste]
//	values:
//	  format: ['"text/plain"', '"text/html"', $string]
//	objects:
//	  - category: Clipboard
//	    constructor: navigator.clipboard
//	    methods:
//	      writeText: [$string]
//	      readText: []
//	      write: [[$object:ClipboardItem, "[]"]]
//	    attributes: {}
//	    events: [change]
//	finish: ['navigator.clipboard.readText();']
//
// Every argument is a list of alternatives (a single string is a list of
// one). An alternative is literal code unless it starts with '$':
//
//	$number $float $unit $tiny $bool     numeric and boolean producers
//	$string $color $mime $image $video   quoted string producers
//	$object:<Category>                   a live handle of another object, or null
//	$<value>                             an entry of the values table
//	$$...                                a literal '$...'
//
// Init registers one handle per object that has a constructor. Each Step
// creates another object (one time in eight, or whenever nothing is live),
// sets an attribute on a live handle (one time in four) or calls a method on
// one. Finish emits the finish fragments.
package tablemod
