// Package engine validates serialization markers on class declarations and
// attaches the markers a generator needs to emit encode/decode logic.
package engine

import (
	"go.uber.org/zap"

	"github.com/toyz/serdescan/internal/annotations"
	"github.com/toyz/serdescan/internal/errors"
	"github.com/toyz/serdescan/internal/logging"
	"github.com/toyz/serdescan/internal/metadata"
	"github.com/toyz/serdescan/internal/models"
)

// Engine visits classes one at a time. It holds no per-class state, so
// concurrent visits of distinct classes are safe.
type Engine struct {
	store    metadata.Store
	query    metadata.Query
	subtypes *SubtypeResolver
	logger   *zap.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger used for visit tracing
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an engine reading and writing through store
func New(store metadata.Store, opts ...Option) *Engine {
	query := metadata.NewQuery(store)
	e := &Engine{
		store:    store,
		query:    query,
		subtypes: NewSubtypeResolver(query),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.For(e.logger, logging.ComponentEngine)
	return e
}

// Query exposes the typed view the engine reads through
func (e *Engine) Query() metadata.Query {
	return e.query
}

// Result summarizes one class visit
type Result struct {
	Class        *models.Declaration
	Eligible     bool
	Terminated   bool // an explicit error marker on the class stopped processing
	Bootstrapped bool // baseline stereotype markers were attached
	Failures     int
	Bindings     Bindings
}

// Visit validates class and its members and attaches derived markers
func (e *Engine) Visit(class *models.Declaration, reporter Reporter) Result {
	counter := &countingReporter{next: reporter}
	v := &classVisit{
		engine: e,
		class:  class,
		members: &memberValidator{
			query:    e.query,
			reporter: counter,
			state:    &resolution{},
			logger:   e.logger,
		},
	}

	result := v.run()
	result.Class = class
	result.Failures = counter.count
	result.Bindings = v.members.state.bindings()

	e.logger.Debug("visited class",
		zap.String("class", class.QualifiedName()),
		zap.Bool("eligible", result.Eligible),
		zap.Bool("terminated", result.Terminated),
		zap.Int("failures", result.Failures))
	return result
}

// IsJSONAnnotated reports whether class opts into serialization through a
// class marker or an existing stereotype
func (e *Engine) IsJSONAnnotated(class *models.Declaration) bool {
	return e.query.HasAny(class, annotations.EligibilityKinds...) || e.query.HasStereotype(class)
}

type classVisit struct {
	engine  *Engine
	class   *models.Declaration
	members *memberValidator
}

func (v *classVisit) run() Result {
	terminated := v.members.checkForErrors(v.class)

	// Methods go first so a field/method catch-all conflict is reported on
	// the field whatever the declaration order.
	for _, m := range v.class.Methods() {
		v.members.visitMethod(m)
	}
	for _, f := range v.class.Fields() {
		v.members.visitField(f)
	}
	for _, c := range v.class.Constructors() {
		v.members.visitConstructor(c)
	}

	if terminated {
		return Result{Terminated: true}
	}

	if !v.engine.IsJSONAnnotated(v.class) {
		return Result{}
	}

	result := Result{Eligible: true}
	if !v.engine.query.HasStereotype(v.class) {
		v.bootstrap()
		result.Bootstrapped = true
	}

	v.applyIgnoredProperties()
	v.applyInheritedDiscriminator()
	v.applyOwnTypeInfo()
	return result
}

func (v *classVisit) bootstrap() {
	store := v.engine.store
	store.Annotate(v.class, annotations.SerdeableKind, nil)
	store.Annotate(v.class, annotations.IntrospectedKind, annotations.Params{
		"accessKind": []string{"METHOD", "FIELD"},
		"visibility": []string{"PUBLIC"},
	})
}

func (v *classVisit) applyIgnoredProperties() {
	ignored, ok := v.engine.query.IgnoreProperties(v.class)
	if !ok || len(ignored.Names) == 0 {
		return
	}

	names := make(map[string]bool, len(ignored.Names))
	for _, n := range ignored.Names {
		names[n] = true
	}

	for _, prop := range models.BeanProperties(v.class) {
		if !names[prop.Name] {
			continue
		}

		var targets []*models.Declaration
		switch {
		case ignored.AllowGetters:
			targets = []*models.Declaration{prop.Setter}
		case ignored.AllowSetters:
			targets = []*models.Declaration{prop.Getter}
		default:
			targets = prop.Elements()
		}

		for _, d := range targets {
			if d != nil {
				v.engine.store.Annotate(d, annotations.IgnoredKind, nil)
			}
		}
	}
}

func (v *classVisit) applyInheritedDiscriminator() {
	d, ok := v.engine.subtypes.Resolve(v.class)
	if !ok {
		return
	}

	params := annotations.Params{"typeName": d.TypeName}
	if d.WrapperProperty != "" {
		params["wrapperProperty"] = d.WrapperProperty
	} else {
		params["typeProperty"] = d.TypeProperty
	}
	v.engine.store.Annotate(v.class, annotations.SerdeConfigKind, params)
}

func (v *classVisit) applyOwnTypeInfo() {
	info, ok := v.engine.query.TypeInfo(v.class)
	if !ok {
		return
	}

	valid := true
	include := info.Include
	if include == "" {
		include = annotations.AsWrapperObject
	}
	if include != annotations.AsProperty && include != annotations.AsWrapperObject {
		v.members.fail(errors.UnsupportedStrategyErrorCode, v.class, "Only 'include' of type PROPERTY or WRAPPER_OBJECT are supported")
		valid = false
	}

	switch info.Use {
	case annotations.IdClass, annotations.IdName:
	case "":
		v.members.fail(errors.UnsupportedStrategyErrorCode, v.class, "You must specify 'use' member when using @JsonTypeInfo")
		valid = false
	default:
		v.members.fail(errors.UnsupportedStrategyErrorCode, v.class, "Only 'use' of type CLASS or NAME are supported")
		valid = false
	}

	if valid {
		property := info.Property
		if property == "" {
			property = defaultProperty(info.Use)
		}
		v.engine.store.Annotate(v.class, annotations.SubtypedKind, annotations.Params{
			"discriminatorType":  annotations.Enum(include),
			"discriminatorValue": annotations.Enum(info.Use),
			"discriminatorProp":  property,
		})
	}

	if info.DefaultImpl != "" {
		v.engine.store.Annotate(v.class, annotations.DefaultImplementationKind, annotations.Params{
			"value": annotations.ClassRef(info.DefaultImpl),
		})
	}
}
