package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/toyz/serdescan/internal/annotations"
	"github.com/toyz/serdescan/internal/errors"
	"github.com/toyz/serdescan/internal/metadata"
	"github.com/toyz/serdescan/internal/models"
	"github.com/toyz/serdescan/internal/pattern"
)

// memberValidator applies the per-declaration marker rules for one class visit
type memberValidator struct {
	query    metadata.Query
	reporter Reporter
	state    *resolution
	logger   *zap.Logger
}

func (m *memberValidator) fail(code errors.ErrorCode, d *models.Declaration, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	m.logger.Debug("marker check failed",
		zap.String("declaration", d.Description()),
		zap.Stringer("code", code),
		zap.String("message", message))
	m.reporter.Fail(code, message, d)
}

// checkForErrors runs the checks shared by every declaration kind. It
// returns true when an explicit error marker ends processing of d.
func (m *memberValidator) checkForErrors(d *models.Declaration) bool {
	for _, marker := range d.Markers {
		if annotations.IsForbidden(marker.Kind) {
			m.fail(errors.UnsupportedMarkerErrorCode, d, "Annotation @%s is not supported", marker.SimpleName())
		}
	}

	if message, ok := m.query.ErrorMessage(d); ok {
		m.fail(errors.ExplicitErrorCode, d, "%s", message)
		return true
	}

	if p, ok := m.query.Pattern(d); ok {
		if propertyType, ok := pattern.PropertyType(d); ok {
			if err := pattern.Validate(propertyType, p); err != nil {
				m.fail(errors.PatternFormatErrorCode, d, "%s", err.Error())
			}
		}
	}

	return false
}

// active returns the declared marker of the kind unless it is switched off
func (m *memberValidator) active(d *models.Declaration, kind annotations.Kind) (*annotations.Marker, bool) {
	marker, ok := m.query.Declared(d, kind)
	if !ok || !marker.GetBool("enabled", true) {
		return nil, false
	}
	return marker, true
}

func (m *memberValidator) unwrapped(d *models.Declaration) bool {
	_, ok := m.active(d, annotations.UnwrappedKind)
	return ok
}

func (m *memberValidator) visitField(d *models.Declaration) {
	if m.checkForErrors(d) {
		return
	}

	if marker, ok := m.active(d, annotations.AnyGetterKind); ok {
		m.bindField(d, marker, &m.state.anyGetterField, m.state.anyGetterMethod)
	}
	if marker, ok := m.active(d, annotations.AnySetterKind); ok {
		m.bindField(d, marker, &m.state.anySetterField, m.state.anySetterMethod)
	}
}

// bindField records d as the catch-all field unless its shape is wrong or
// the slot is already taken by another field or a method
func (m *memberValidator) bindField(d *models.Declaration, marker *annotations.Marker, field **models.Declaration, method *models.Declaration) {
	name := marker.SimpleName()
	valid := true

	if m.unwrapped(d) {
		m.fail(errors.ShapeViolationErrorCode, d, "A field annotated with @%s cannot be unwrapped", name)
		valid = false
	}
	if !d.Type.IsMap() {
		m.fail(errors.ShapeViolationErrorCode, d, "A field annotated with @%s must be a Map", name)
		valid = false
	}
	if !valid {
		return
	}

	duplicate := false
	if *field != nil {
		m.fail(errors.DuplicateBindingErrorCode, d, "Only a single @%s field is supported, another defined: %s", name, (*field).Description())
		duplicate = true
	}
	if method != nil {
		m.fail(errors.DuplicateBindingErrorCode, d, "Cannot define both an @%s field and an @%s method: %s", name, name, method.Description())
		duplicate = true
	}
	if !duplicate {
		*field = d
	}
}

func (m *memberValidator) visitMethod(d *models.Declaration) {
	if m.checkForErrors(d) {
		return
	}

	if marker, ok := m.query.Declared(d, annotations.GetterKind); ok {
		name := marker.SimpleName()
		if d.Static {
			m.fail(errors.ShapeViolationErrorCode, d, "A method annotated with @%s cannot be static", name)
		}
		if d.Type.IsVoid() {
			m.fail(errors.ShapeViolationErrorCode, d, "A method annotated with @%s cannot return void", name)
		}
		if len(d.Parameters) > 0 {
			m.fail(errors.ShapeViolationErrorCode, d, "A method annotated with @%s cannot define arguments", name)
		}
	}

	if marker, ok := m.query.Declared(d, annotations.SetterKind); ok {
		name := marker.SimpleName()
		if d.Static {
			m.fail(errors.ShapeViolationErrorCode, d, "A method annotated with @%s cannot be static", name)
		}
		if len(d.Parameters) != 1 {
			m.fail(errors.ShapeViolationErrorCode, d, "A method annotated with @%s must specify exactly 1 argument", name)
		}
	}

	if marker, ok := m.active(d, annotations.AnyGetterKind); ok {
		name := marker.SimpleName()
		m.bindMethod(d, name, &m.state.anyGetterMethod)
		if m.unwrapped(d) {
			m.fail(errors.ShapeViolationErrorCode, d, "A method annotated with @%s cannot be unwrapped", name)
		}
		if d.Static {
			m.fail(errors.ShapeViolationErrorCode, d, "A method annotated with @%s cannot be static", name)
		}
		if !d.Type.IsMap() {
			m.fail(errors.ShapeViolationErrorCode, d, "A method annotated with @%s must return a Map", name)
		}
		if len(d.Parameters) > 0 {
			m.fail(errors.ShapeViolationErrorCode, d, "A method annotated with @%s cannot define arguments", name)
		}
	}

	if marker, ok := m.active(d, annotations.AnySetterKind); ok {
		name := marker.SimpleName()
		m.bindMethod(d, name, &m.state.anySetterMethod)
		if m.unwrapped(d) {
			m.fail(errors.ShapeViolationErrorCode, d, "A method annotated with @%s cannot be unwrapped", name)
		}
		if d.Static {
			m.fail(errors.ShapeViolationErrorCode, d, "A method annotated with @%s cannot be static", name)
		}
		if !anySetterShape(d) {
			m.fail(errors.ShapeViolationErrorCode, d,
				"A method annotated with @%s must either define a single parameter of type Map or define exactly 2 parameters, the first of which should be of type String", name)
		}
	}
}

// bindMethod takes the slot even when other checks on d fail
func (m *memberValidator) bindMethod(d *models.Declaration, name string, slot **models.Declaration) {
	if *slot != nil {
		m.fail(errors.DuplicateBindingErrorCode, d, "Type already defines a method annotated with @%s: %s", name, (*slot).Description())
		return
	}
	*slot = d
}

func anySetterShape(d *models.Declaration) bool {
	switch len(d.Parameters) {
	case 1:
		return d.Parameters[0].Type.IsMap()
	case 2:
		return d.Parameters[0].Type.IsString()
	}
	return false
}

func (m *memberValidator) visitConstructor(d *models.Declaration) {
	m.checkForErrors(d)
}
