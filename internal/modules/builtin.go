// Package modules bundles the modules compiled into the binary.
package modules

import (
	"github.com/roach88/framboise/internal/module"
	"github.com/roach88/framboise/internal/modules/canvas2d"
	"github.com/roach88/framboise/internal/modules/sample"
	"github.com/roach88/framboise/internal/modules/selection"
)

// Builtin returns a catalog with every compiled-in module registered.
func Builtin() *module.Catalog {
	c := module.NewCatalog()
	c.MustRegister(sample.Name, sample.New)
	c.MustRegister(selection.Name, selection.New)
	c.MustRegister(canvas2d.Name, canvas2d.New)
	return c
}
