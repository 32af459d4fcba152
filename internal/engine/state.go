package engine

import (
	"github.com/toyz/serdescan/internal/errors"
	"github.com/toyz/serdescan/internal/models"
)

// Reporter receives the diagnostics a visit produces
type Reporter interface {
	Fail(code errors.ErrorCode, message string, subject errors.Subject)
}

// resolution tracks the catch-all bindings of the class being visited.
// A fresh value is built for every visit and dropped when it returns.
type resolution struct {
	anyGetterField  *models.Declaration
	anySetterField  *models.Declaration
	anyGetterMethod *models.Declaration
	anySetterMethod *models.Declaration
}

// Bindings is the read-only outcome of a visit's catch-all resolution
type Bindings struct {
	AnyGetterField  *models.Declaration
	AnySetterField  *models.Declaration
	AnyGetterMethod *models.Declaration
	AnySetterMethod *models.Declaration
}

func (r *resolution) bindings() Bindings {
	return Bindings{
		AnyGetterField:  r.anyGetterField,
		AnySetterField:  r.anySetterField,
		AnyGetterMethod: r.anyGetterMethod,
		AnySetterMethod: r.anySetterMethod,
	}
}

// AnyGetter returns the bound any-getter, field or method
func (b Bindings) AnyGetter() *models.Declaration {
	if b.AnyGetterField != nil {
		return b.AnyGetterField
	}
	return b.AnyGetterMethod
}

// AnySetter returns the bound any-setter, field or method
func (b Bindings) AnySetter() *models.Declaration {
	if b.AnySetterField != nil {
		return b.AnySetterField
	}
	return b.AnySetterMethod
}

// countingReporter forwards to the shared sink and counts this visit's failures
type countingReporter struct {
	next  Reporter
	count int
}

func (c *countingReporter) Fail(code errors.ErrorCode, message string, subject errors.Subject) {
	c.count++
	if c.next != nil {
		c.next.Fail(code, message, subject)
	}
}
